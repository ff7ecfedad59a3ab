package services

import (
	"context"

	"github.com/fitadmin/gym_management_app/internal/core/domain"
)

// ReportingSvcFacade exposes the financial aggregation reports. Every method
// returns an error wrapping apperrors.ErrInvalidPeriod when the period's start
// is after its end; a period with no data yields an all-zero report.
type ReportingSvcFacade interface {
	// ProfitAndLoss summarizes revenue against expenses for the period.
	ProfitAndLoss(ctx context.Context, tenantID string, period domain.Period) (*domain.PnLReport, error)

	// CashFlow buckets inflows and outflows at the requested granularity, each
	// transaction keyed by its own date field.
	CashFlow(ctx context.Context, tenantID string, period domain.Period, granularity domain.Granularity) (*domain.CashFlowReport, error)

	// RevenueBreakdown splits revenue by source and by membership plan and
	// emits a monthly trend series.
	RevenueBreakdown(ctx context.Context, tenantID string, period domain.Period) (*domain.RevenueBreakdownReport, error)

	// TaxRemittance nets collected invoice tax against claimable input tax
	// credits per remittance authority.
	TaxRemittance(ctx context.Context, tenantID string, period domain.Period) (*domain.TaxRemittanceReport, error)
}
