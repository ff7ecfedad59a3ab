package pgsql

import (
	"context"
	"fmt"

	"github.com/fitadmin/gym_management_app/internal/core/domain"
	portsrepo "github.com/fitadmin/gym_management_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// financialDataRepository implements the FinancialDataRepository interface
type financialDataRepository struct {
	BaseRepository
}

// newFinancialDataRepository creates a new financial data repository
func newFinancialDataRepository(pool *pgxpool.Pool) portsrepo.FinancialDataRepository {
	return &financialDataRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.FinancialDataRepository = (*financialDataRepository)(nil)

// GetFinancialActivity loads every transactional record for the tenant within
// the period, plus the current active-subscriber count per membership plan.
// The subscription join reflects present state: a payment is attributed to a
// subscription iff the member holds a currently ACTIVE one.
func (r *financialDataRepository) GetFinancialActivity(ctx context.Context, tenantID string, period domain.Period) (domain.FinancialActivity, error) {
	activity := domain.FinancialActivity{
		Payments:        []domain.Payment{},
		Expenses:        []domain.Expense{},
		PayrollRuns:     []domain.PayrollRun{},
		Refunds:         []domain.Refund{},
		Invoices:        []domain.Invoice{},
		PlanSubscribers: map[string]int{},
	}

	if err := r.loadPayments(ctx, tenantID, period, &activity); err != nil {
		return domain.FinancialActivity{}, err
	}
	if err := r.loadExpenses(ctx, tenantID, period, &activity); err != nil {
		return domain.FinancialActivity{}, err
	}
	if err := r.loadPayrollRuns(ctx, tenantID, period, &activity); err != nil {
		return domain.FinancialActivity{}, err
	}
	if err := r.loadRefunds(ctx, tenantID, period, &activity); err != nil {
		return domain.FinancialActivity{}, err
	}
	if err := r.loadInvoices(ctx, tenantID, period, &activity); err != nil {
		return domain.FinancialActivity{}, err
	}
	if err := r.loadPlanSubscribers(ctx, tenantID, &activity); err != nil {
		return domain.FinancialActivity{}, err
	}

	return activity, nil
}

func (r *financialDataRepository) loadPayments(ctx context.Context, tenantID string, period domain.Period, activity *domain.FinancialActivity) error {
	// DISTINCT ON keeps exactly one row per payment should a member somehow
	// hold more than one ACTIVE subscription row; the most recent one wins.
	query := `
		SELECT DISTINCT ON (p.payment_id)
			p.payment_id,
			p.member_id,
			p.amount,
			p.occurred_at,
			p.status,
			s.subscription_id IS NOT NULL AS subscription_active,
			COALESCE(s.plan_id, '') AS plan_id,
			COALESCE(mp.name, '') AS plan_name
		FROM payments p
		LEFT JOIN subscriptions s
			ON s.member_id = p.member_id
			AND s.tenant_id = p.tenant_id
			AND s.status = 'ACTIVE'
		LEFT JOIN membership_plans mp ON mp.plan_id = s.plan_id
		WHERE p.tenant_id = $1
			AND p.occurred_at BETWEEN $2 AND $3
		ORDER BY p.payment_id, s.started_at DESC
	`
	rows, err := r.Pool.Query(ctx, query, tenantID, period.Start, period.End)
	if err != nil {
		return fmt.Errorf("error querying payments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var payment domain.Payment
		var status string
		if err := rows.Scan(
			&payment.PaymentID,
			&payment.MemberID,
			&payment.Amount,
			&payment.OccurredAt,
			&status,
			&payment.SubscriptionActive,
			&payment.PlanID,
			&payment.PlanName,
		); err != nil {
			return fmt.Errorf("error scanning payment row: %w", err)
		}
		payment.Status = domain.PaymentStatus(status)
		activity.Payments = append(activity.Payments, payment)
	}
	return rows.Err()
}

func (r *financialDataRepository) loadExpenses(ctx context.Context, tenantID string, period domain.Period, activity *domain.FinancialActivity) error {
	query := `
		SELECT expense_id, amount, occurred_at, itc_gst, itc_hst, itc_qst
		FROM expenses
		WHERE tenant_id = $1
			AND occurred_at BETWEEN $2 AND $3
		ORDER BY occurred_at
	`
	rows, err := r.Pool.Query(ctx, query, tenantID, period.Start, period.End)
	if err != nil {
		return fmt.Errorf("error querying expenses: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var expense domain.Expense
		if err := rows.Scan(
			&expense.ExpenseID,
			&expense.Amount,
			&expense.OccurredAt,
			&expense.ITC.GST,
			&expense.ITC.HST,
			&expense.ITC.QST,
		); err != nil {
			return fmt.Errorf("error scanning expense row: %w", err)
		}
		activity.Expenses = append(activity.Expenses, expense)
	}
	return rows.Err()
}

func (r *financialDataRepository) loadPayrollRuns(ctx context.Context, tenantID string, period domain.Period, activity *domain.FinancialActivity) error {
	query := `
		SELECT payroll_run_id, total_amount, paid_at, status
		FROM payroll_runs
		WHERE tenant_id = $1
			AND paid_at BETWEEN $2 AND $3
		ORDER BY paid_at
	`
	rows, err := r.Pool.Query(ctx, query, tenantID, period.Start, period.End)
	if err != nil {
		return fmt.Errorf("error querying payroll runs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var run domain.PayrollRun
		var status string
		if err := rows.Scan(&run.PayrollRunID, &run.TotalAmount, &run.PaidAt, &status); err != nil {
			return fmt.Errorf("error scanning payroll run row: %w", err)
		}
		run.Status = domain.PayrollStatus(status)
		activity.PayrollRuns = append(activity.PayrollRuns, run)
	}
	return rows.Err()
}

func (r *financialDataRepository) loadRefunds(ctx context.Context, tenantID string, period domain.Period, activity *domain.FinancialActivity) error {
	query := `
		SELECT refund_id, amount, occurred_at, status
		FROM refunds
		WHERE tenant_id = $1
			AND occurred_at BETWEEN $2 AND $3
		ORDER BY occurred_at
	`
	rows, err := r.Pool.Query(ctx, query, tenantID, period.Start, period.End)
	if err != nil {
		return fmt.Errorf("error querying refunds: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var refund domain.Refund
		var status string
		if err := rows.Scan(&refund.RefundID, &refund.Amount, &refund.OccurredAt, &status); err != nil {
			return fmt.Errorf("error scanning refund row: %w", err)
		}
		refund.Status = domain.RefundStatus(status)
		activity.Refunds = append(activity.Refunds, refund)
	}
	return rows.Err()
}

func (r *financialDataRepository) loadInvoices(ctx context.Context, tenantID string, period domain.Period, activity *domain.FinancialActivity) error {
	query := `
		SELECT invoice_id, subtotal, tax_gst, tax_pst, tax_hst, tax_qst, issued_at, status
		FROM invoices
		WHERE tenant_id = $1
			AND issued_at BETWEEN $2 AND $3
		ORDER BY issued_at
	`
	rows, err := r.Pool.Query(ctx, query, tenantID, period.Start, period.End)
	if err != nil {
		return fmt.Errorf("error querying invoices: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var invoice domain.Invoice
		var status string
		if err := rows.Scan(
			&invoice.InvoiceID,
			&invoice.Subtotal,
			&invoice.Tax.GST,
			&invoice.Tax.PST,
			&invoice.Tax.HST,
			&invoice.Tax.QST,
			&invoice.IssuedAt,
			&status,
		); err != nil {
			return fmt.Errorf("error scanning invoice row: %w", err)
		}
		invoice.Status = domain.InvoiceStatus(status)
		activity.Invoices = append(activity.Invoices, invoice)
	}
	return rows.Err()
}

// loadPlanSubscribers counts current ACTIVE subscribers per plan, independent
// of the report period.
func (r *financialDataRepository) loadPlanSubscribers(ctx context.Context, tenantID string, activity *domain.FinancialActivity) error {
	query := `
		SELECT plan_id, COUNT(*)
		FROM subscriptions
		WHERE tenant_id = $1
			AND status = 'ACTIVE'
		GROUP BY plan_id
	`
	rows, err := r.Pool.Query(ctx, query, tenantID)
	if err != nil {
		return fmt.Errorf("error querying plan subscriber counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var planID string
		var count int
		if err := rows.Scan(&planID, &count); err != nil {
			return fmt.Errorf("error scanning plan subscriber row: %w", err)
		}
		activity.PlanSubscribers[planID] = count
	}
	return rows.Err()
}
