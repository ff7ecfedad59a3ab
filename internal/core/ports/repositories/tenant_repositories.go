package repositories

import (
	"context"

	"github.com/fitadmin/gym_management_app/internal/core/domain"
)

// TenantSettingsRepository defines persistence operations for per-tenant
// financial configuration.
type TenantSettingsRepository interface {
	// FindTaxConfig retrieves a tenant's tax configuration.
	// Returns apperrors.ErrNotFound if the tenant has none saved.
	FindTaxConfig(ctx context.Context, tenantID string) (*domain.TenantTaxConfig, error)

	// SaveTaxConfig creates or replaces a tenant's tax configuration.
	SaveTaxConfig(ctx context.Context, config domain.TenantTaxConfig) error

	// FindCurrencySettings retrieves a tenant's currency settings.
	// Returns apperrors.ErrNotFound if the tenant has none saved.
	FindCurrencySettings(ctx context.Context, tenantID string) (*domain.TenantCurrencySettings, error)

	// SaveCurrencySettings creates or replaces a tenant's currency settings.
	// Concurrent saves for the same tenant are not coordinated; last writer wins.
	SaveCurrencySettings(ctx context.Context, settings domain.TenantCurrencySettings) error
}
