package services

import (
	"context"

	"github.com/fitadmin/gym_management_app/internal/core/domain"
	"github.com/fitadmin/gym_management_app/internal/dto"
	"github.com/shopspring/decimal"
)

// TaxSvcFacade exposes the tax engine: the fixed jurisdiction rate table,
// breakdown calculation and per-tenant tax configuration.
type TaxSvcFacade interface {
	// Calculate computes a tax breakdown for a subtotal under a jurisdiction's
	// current rule. A small supplier is never charged tax.
	// Returns an error wrapping apperrors.ErrUnknownJurisdiction for codes
	// outside the fixed table.
	Calculate(subtotal decimal.Decimal, jurisdictionCode string, isSmallSupplier bool) (domain.TaxBreakdown, error)

	// CalculateFromStoredRule applies the same algorithm against an
	// already-resolved rule snapshot, used when a tenant's stored rule has
	// diverged from the live table after a rate change.
	CalculateFromStoredRule(subtotal decimal.Decimal, rule domain.JurisdictionTaxRule, isSmallSupplier bool) domain.TaxBreakdown

	// CalculateForTenant loads the tenant's tax configuration and computes a
	// breakdown under its jurisdiction and small-supplier flag.
	CalculateForTenant(ctx context.Context, tenantID string, subtotal decimal.Decimal) (domain.TaxBreakdown, error)

	// RateRulesFor returns the fixed rule for one jurisdiction code.
	RateRulesFor(jurisdictionCode string) (domain.JurisdictionTaxRule, error)

	// ListJurisdictions returns every known jurisdiction rule for settings UIs.
	ListJurisdictions() []domain.JurisdictionTaxRule

	// GetTenantConfig retrieves a tenant's tax configuration.
	GetTenantConfig(ctx context.Context, tenantID string) (*domain.TenantTaxConfig, error)

	// UpdateTenantConfig validates and saves a tenant's tax configuration.
	UpdateTenantConfig(ctx context.Context, tenantID string, req dto.UpdateTaxConfigRequest, updaterUserID string) (*domain.TenantTaxConfig, error)
}
