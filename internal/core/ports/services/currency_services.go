package services

import (
	"context"

	"github.com/fitadmin/gym_management_app/internal/core/domain"
	"github.com/fitadmin/gym_management_app/internal/dto"
	"github.com/shopspring/decimal"
)

// RateSource fetches current exchange rates from an external authoritative
// feed. FetchLatest returns nil on any network, parse or empty-result failure;
// callers must treat nil as "use fallback", never as a hard error. The caller
// bounds the call with a context deadline.
type RateSource interface {
	FetchLatest(ctx context.Context) *domain.RateSnapshot
}

// CurrencySvcFacade exposes rate resolution, conversion and per-tenant
// currency settings.
type CurrencySvcFacade interface {
	// ResolveRates produces the effective rate snapshot for the settings: the
	// live feed when auto rates are enabled and reachable, otherwise the stored
	// manual rates with documented defaults for currencies that have no stored
	// rate at all. The bool reports whether a live snapshot was fetched and the
	// tenant's stored rates should be refreshed to match.
	ResolveRates(ctx context.Context, settings domain.TenantCurrencySettings) (domain.RateSnapshot, bool)

	// ConvertAmount converts between two currencies through the snapshot's base
	// currency. Pure given its inputs. Returns an error wrapping
	// apperrors.ErrUnsupportedCurrency for codes absent from the snapshot.
	ConvertAmount(amount decimal.Decimal, from, to string, snapshot domain.RateSnapshot) (*domain.ConversionResult, error)

	// Convert loads the tenant's settings, resolves rates and converts. A feed
	// outage silently narrows to the stored-rate fallback.
	Convert(ctx context.Context, tenantID string, amount decimal.Decimal, from, to string) (*domain.ConversionResult, error)

	// RefreshRates fetches the live feed and persists it into the tenant's
	// stored rates. The bool is false when the feed was unreachable and the
	// stored rates were left untouched.
	RefreshRates(ctx context.Context, tenantID, updaterUserID string) (*domain.TenantCurrencySettings, bool, error)

	// GetSettings retrieves a tenant's currency settings.
	GetSettings(ctx context.Context, tenantID string) (*domain.TenantCurrencySettings, error)

	// UpdateSettings validates and saves a tenant's currency settings.
	UpdateSettings(ctx context.Context, tenantID string, req dto.UpdateCurrencySettingsRequest, updaterUserID string) (*domain.TenantCurrencySettings, error)
}
