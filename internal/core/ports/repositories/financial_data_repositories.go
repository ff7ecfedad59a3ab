package repositories

import (
	"context"

	"github.com/fitadmin/gym_management_app/internal/core/domain"
)

// FinancialDataRepository retrieves the transactional records the reporting
// services aggregate. All methods are bounded by the supplied period; the
// reporting core never queries storage on its own.
type FinancialDataRepository interface {
	// GetFinancialActivity loads every payment, expense, payroll run, refund and
	// invoice for the tenant within the period, plus the current
	// active-subscriber count per membership plan.
	GetFinancialActivity(ctx context.Context, tenantID string, period domain.Period) (domain.FinancialActivity, error)
}
