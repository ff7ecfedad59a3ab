package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/fitadmin/gym_management_app/internal/apperrors"
	"github.com/fitadmin/gym_management_app/internal/core/domain"
	portsrepo "github.com/fitadmin/gym_management_app/internal/core/ports/repositories"
	portssvc "github.com/fitadmin/gym_management_app/internal/core/ports/services"
	"github.com/fitadmin/gym_management_app/internal/utils"
	"github.com/shopspring/decimal"
)

// reportingService implements the ReportingSvcFacade interface.
type reportingService struct {
	BaseService
	financialRepo portsrepo.FinancialDataRepository
}

// NewReportingService creates a new reporting service.
func NewReportingService(financialRepo portsrepo.FinancialDataRepository) portssvc.ReportingSvcFacade {
	return &reportingService{financialRepo: financialRepo}
}

// Ensure reportingService implements the ReportingSvcFacade interface
var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

// hundred is the percentage scaling factor.
var hundred = decimal.NewFromInt(100)

// validatePeriod rejects ranges whose start is after their end. An empty range
// is fine; it simply produces an all-zero report.
func validatePeriod(period domain.Period) error {
	if period.Start.After(period.End) {
		return fmt.Errorf("%w: start %s is after end %s",
			apperrors.ErrInvalidPeriod,
			period.Start.Format("2006-01-02"),
			period.End.Format("2006-01-02"))
	}
	return nil
}

// loadActivity validates the period and loads the tenant's records for it.
func (s *reportingService) loadActivity(ctx context.Context, tenantID string, period domain.Period) (domain.FinancialActivity, error) {
	if err := validatePeriod(period); err != nil {
		return domain.FinancialActivity{}, err
	}
	activity, err := s.financialRepo.GetFinancialActivity(ctx, tenantID, period)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve financial activity",
			slog.String("tenant_id", tenantID),
			slog.String("from", period.Start.Format(time.RFC3339)),
			slog.String("to", period.End.Format(time.RFC3339)))
		return domain.FinancialActivity{}, fmt.Errorf("failed to retrieve financial activity: %w", err)
	}
	activity.Payments = dedupePayments(activity.Payments)
	return activity, nil
}

// dedupePayments drops repeated payment IDs, keeping the first occurrence.
// The subscription attribution join can return the same payment more than once
// for rows predating the one-active-subscription-per-member constraint; a
// payment must never be summed twice.
func dedupePayments(payments []domain.Payment) []domain.Payment {
	seen := make(map[string]struct{}, len(payments))
	deduped := payments[:0]
	for _, payment := range payments {
		if _, ok := seen[payment.PaymentID]; ok {
			continue
		}
		seen[payment.PaymentID] = struct{}{}
		deduped = append(deduped, payment)
	}
	return deduped
}

// ProfitAndLoss summarizes revenue against expenses for the period.
func (s *reportingService) ProfitAndLoss(ctx context.Context, tenantID string, period domain.Period) (*domain.PnLReport, error) {
	activity, err := s.loadActivity(ctx, tenantID, period)
	if err != nil {
		return nil, err
	}

	report := buildPnL(activity)

	s.LogInfo(ctx, "Profit and loss report generated",
		slog.String("tenant_id", tenantID),
		slog.Int("payment_count", len(activity.Payments)),
		slog.Int("expense_count", len(activity.Expenses)))
	return report, nil
}

// buildPnL aggregates the activity into a profit and loss report. A payment
// counts as subscription revenue iff the paying member holds a currently
// active subscription; present state, not status at payment time.
func buildPnL(activity domain.FinancialActivity) *domain.PnLReport {
	subscriptionRevenue := decimal.Zero
	oneTimeRevenue := decimal.Zero
	for _, payment := range activity.Payments {
		if payment.Status != domain.PaymentCompleted {
			continue
		}
		if payment.SubscriptionActive {
			subscriptionRevenue = subscriptionRevenue.Add(payment.Amount)
		} else {
			oneTimeRevenue = oneTimeRevenue.Add(payment.Amount)
		}
	}
	totalRevenue := subscriptionRevenue.Add(oneTimeRevenue)

	operational := decimal.Zero
	for _, expense := range activity.Expenses {
		operational = operational.Add(expense.Amount)
	}
	payroll := decimal.Zero
	for _, run := range activity.PayrollRuns {
		if run.Status == domain.PayrollPaid {
			payroll = payroll.Add(run.TotalAmount)
		}
	}
	refunds := decimal.Zero
	for _, refund := range activity.Refunds {
		if refund.Status == domain.RefundSucceeded {
			refunds = refunds.Add(refund.Amount)
		}
	}
	totalExpenses := operational.Add(payroll).Add(refunds)

	netIncome := totalRevenue.Sub(totalExpenses)
	margin := decimal.Zero
	if !totalRevenue.IsZero() {
		margin = utils.RoundToCents(netIncome.Div(totalRevenue).Mul(hundred))
	}

	return &domain.PnLReport{
		SubscriptionRevenue: subscriptionRevenue,
		OneTimeRevenue:      oneTimeRevenue,
		TotalRevenue:        totalRevenue,
		OperationalExpenses: operational,
		PayrollExpenses:     payroll,
		Refunds:             refunds,
		TotalExpenses:       totalExpenses,
		NetIncome:           netIncome,
		Margin:              margin,
	}
}

// CashFlow buckets inflows and outflows at the requested granularity.
func (s *reportingService) CashFlow(ctx context.Context, tenantID string, period domain.Period, granularity domain.Granularity) (*domain.CashFlowReport, error) {
	switch granularity {
	case domain.GranularityDay, domain.GranularityWeek, domain.GranularityMonth:
	default:
		return nil, fmt.Errorf("%w: unknown granularity %q", apperrors.ErrValidation, granularity)
	}

	activity, err := s.loadActivity(ctx, tenantID, period)
	if err != nil {
		return nil, err
	}

	report := buildCashFlow(activity, granularity)

	s.LogInfo(ctx, "Cash flow report generated",
		slog.String("tenant_id", tenantID),
		slog.String("granularity", string(granularity)),
		slog.Int("bucket_count", len(report.ByPeriod)))
	return report, nil
}

// bucketKey renders the bucket a timestamp falls into. Week buckets key on the
// ISO week's start date (Monday).
func bucketKey(t time.Time, granularity domain.Granularity) string {
	switch granularity {
	case domain.GranularityWeek:
		offset := (int(t.Weekday()) + 6) % 7
		return t.AddDate(0, 0, -offset).Format("2006-01-02")
	case domain.GranularityMonth:
		return t.Format("2006-01")
	default:
		return t.Format("2006-01-02")
	}
}

// buildCashFlow assigns each transaction to a bucket keyed by its own date
// field. The top-level totals are the exact sums of the bucket columns.
func buildCashFlow(activity domain.FinancialActivity, granularity domain.Granularity) *domain.CashFlowReport {
	type flows struct {
		inflow  decimal.Decimal
		outflow decimal.Decimal
	}
	buckets := make(map[string]*flows)
	bucket := func(key string) *flows {
		if b, ok := buckets[key]; ok {
			return b
		}
		b := &flows{inflow: decimal.Zero, outflow: decimal.Zero}
		buckets[key] = b
		return b
	}

	for _, payment := range activity.Payments {
		if payment.Status != domain.PaymentCompleted {
			continue
		}
		b := bucket(bucketKey(payment.OccurredAt, granularity))
		b.inflow = b.inflow.Add(payment.Amount)
	}
	for _, run := range activity.PayrollRuns {
		if run.Status != domain.PayrollPaid {
			continue
		}
		b := bucket(bucketKey(run.PaidAt, granularity))
		b.outflow = b.outflow.Add(run.TotalAmount)
	}
	for _, expense := range activity.Expenses {
		b := bucket(bucketKey(expense.OccurredAt, granularity))
		b.outflow = b.outflow.Add(expense.Amount)
	}
	for _, refund := range activity.Refunds {
		if refund.Status != domain.RefundSucceeded {
			continue
		}
		b := bucket(bucketKey(refund.OccurredAt, granularity))
		b.outflow = b.outflow.Add(refund.Amount)
	}

	keys := make([]string, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	report := &domain.CashFlowReport{
		TotalInflow:  decimal.Zero,
		TotalOutflow: decimal.Zero,
		NetCashFlow:  decimal.Zero,
		ByPeriod:     make([]domain.CashFlowBucket, 0, len(keys)),
	}
	for _, key := range keys {
		b := buckets[key]
		report.ByPeriod = append(report.ByPeriod, domain.CashFlowBucket{
			Key:     key,
			Inflow:  b.inflow,
			Outflow: b.outflow,
			Net:     b.inflow.Sub(b.outflow),
		})
		report.TotalInflow = report.TotalInflow.Add(b.inflow)
		report.TotalOutflow = report.TotalOutflow.Add(b.outflow)
	}
	report.NetCashFlow = report.TotalInflow.Sub(report.TotalOutflow)
	return report
}

// RevenueBreakdown splits revenue by source and by membership plan.
func (s *reportingService) RevenueBreakdown(ctx context.Context, tenantID string, period domain.Period) (*domain.RevenueBreakdownReport, error) {
	activity, err := s.loadActivity(ctx, tenantID, period)
	if err != nil {
		return nil, err
	}

	report := buildRevenueBreakdown(activity)

	s.LogInfo(ctx, "Revenue breakdown report generated",
		slog.String("tenant_id", tenantID),
		slog.Int("plan_count", len(report.ByPlan)))
	return report, nil
}

// buildRevenueBreakdown splits completed-payment revenue by source and by
// plan, and derives the monthly trend series. Plan subscriber counts are the
// plans' current active counts, independent of the report period.
func buildRevenueBreakdown(activity domain.FinancialActivity) *domain.RevenueBreakdownReport {
	type planTotals struct {
		name   string
		amount decimal.Decimal
	}
	type monthTotals struct {
		subscriptions decimal.Decimal
		oneTime       decimal.Decimal
	}

	subscriptionRevenue := decimal.Zero
	oneTimeRevenue := decimal.Zero
	subscriptionCount := 0
	oneTimeCount := 0
	planAmounts := make(map[string]*planTotals)
	months := make(map[string]*monthTotals)

	for _, payment := range activity.Payments {
		if payment.Status != domain.PaymentCompleted {
			continue
		}

		month := payment.OccurredAt.Format("2006-01")
		m, ok := months[month]
		if !ok {
			m = &monthTotals{subscriptions: decimal.Zero, oneTime: decimal.Zero}
			months[month] = m
		}

		if payment.SubscriptionActive {
			subscriptionRevenue = subscriptionRevenue.Add(payment.Amount)
			subscriptionCount++
			m.subscriptions = m.subscriptions.Add(payment.Amount)
		} else {
			oneTimeRevenue = oneTimeRevenue.Add(payment.Amount)
			oneTimeCount++
			m.oneTime = m.oneTime.Add(payment.Amount)
		}

		if payment.PlanID != "" {
			p, ok := planAmounts[payment.PlanID]
			if !ok {
				p = &planTotals{name: payment.PlanName, amount: decimal.Zero}
				planAmounts[payment.PlanID] = p
			}
			p.amount = p.amount.Add(payment.Amount)
		}
	}

	totalRevenue := subscriptionRevenue.Add(oneTimeRevenue)
	percentOf := func(amount decimal.Decimal) decimal.Decimal {
		if totalRevenue.IsZero() {
			return decimal.Zero
		}
		return utils.RoundToCents(amount.Div(totalRevenue).Mul(hundred))
	}

	report := &domain.RevenueBreakdownReport{
		TotalRevenue: totalRevenue,
		BySource: []domain.RevenueSource{
			{
				Source:     "subscription",
				Amount:     subscriptionRevenue,
				Percentage: percentOf(subscriptionRevenue),
				Count:      subscriptionCount,
			},
			{
				Source:     "one_time",
				Amount:     oneTimeRevenue,
				Percentage: percentOf(oneTimeRevenue),
				Count:      oneTimeCount,
			},
		},
	}

	planIDs := make([]string, 0, len(planAmounts))
	for planID := range planAmounts {
		planIDs = append(planIDs, planID)
	}
	sort.Slice(planIDs, func(i, j int) bool {
		a, b := planAmounts[planIDs[i]], planAmounts[planIDs[j]]
		if !a.amount.Equal(b.amount) {
			return a.amount.GreaterThan(b.amount)
		}
		return planIDs[i] < planIDs[j]
	})
	report.ByPlan = make([]domain.PlanRevenue, 0, len(planIDs))
	for _, planID := range planIDs {
		p := planAmounts[planID]
		report.ByPlan = append(report.ByPlan, domain.PlanRevenue{
			PlanID:            planID,
			PlanName:          p.name,
			Amount:            p.amount,
			Percentage:        percentOf(p.amount),
			ActiveSubscribers: activity.PlanSubscribers[planID],
		})
	}

	monthKeys := make([]string, 0, len(months))
	for month := range months {
		monthKeys = append(monthKeys, month)
	}
	sort.Strings(monthKeys)
	report.MonthlyTrend = make([]domain.RevenueTrendPoint, 0, len(monthKeys))
	for _, month := range monthKeys {
		m := months[month]
		report.MonthlyTrend = append(report.MonthlyTrend, domain.RevenueTrendPoint{
			Period:        month,
			Subscriptions: m.subscriptions,
			OneTime:       m.oneTime,
			Total:         m.subscriptions.Add(m.oneTime),
		})
	}

	return report
}

// TaxRemittance nets collected invoice tax against claimable input tax
// credits. GST and HST are remitted jointly to one authority and are netted
// together; QST is netted separately.
func (s *reportingService) TaxRemittance(ctx context.Context, tenantID string, period domain.Period) (*domain.TaxRemittanceReport, error) {
	activity, err := s.loadActivity(ctx, tenantID, period)
	if err != nil {
		return nil, err
	}

	report := buildTaxRemittance(activity)

	s.LogInfo(ctx, "Tax remittance report generated",
		slog.String("tenant_id", tenantID),
		slog.Int("invoice_count", report.InvoiceCount),
		slog.Int("expense_count", report.ExpenseCount))
	return report, nil
}

// buildTaxRemittance sums invoice tax lines as collected and expense input
// tax credits as claimable. Voided invoices collect nothing.
func buildTaxRemittance(activity domain.FinancialActivity) *domain.TaxRemittanceReport {
	gstHSTCollected := decimal.Zero
	qstCollected := decimal.Zero
	invoiceCount := 0
	for _, invoice := range activity.Invoices {
		if invoice.Status == domain.InvoiceVoided {
			continue
		}
		gstHSTCollected = gstHSTCollected.Add(invoice.Tax.GST).Add(invoice.Tax.HST)
		qstCollected = qstCollected.Add(invoice.Tax.QST)
		invoiceCount++
	}

	gstHSTClaimable := decimal.Zero
	qstClaimable := decimal.Zero
	for _, expense := range activity.Expenses {
		gstHSTClaimable = gstHSTClaimable.Add(expense.ITC.GST).Add(expense.ITC.HST)
		qstClaimable = qstClaimable.Add(expense.ITC.QST)
	}

	return &domain.TaxRemittanceReport{
		GSTHST: domain.TaxRemittanceLine{
			Collected: gstHSTCollected,
			Claimable: gstHSTClaimable,
			NetOwing:  gstHSTCollected.Sub(gstHSTClaimable),
		},
		QST: domain.TaxRemittanceLine{
			Collected: qstCollected,
			Claimable: qstClaimable,
			NetOwing:  qstCollected.Sub(qstClaimable),
		},
		InvoiceCount: invoiceCount,
		ExpenseCount: len(activity.Expenses),
	}
}
