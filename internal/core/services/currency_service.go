package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fitadmin/gym_management_app/internal/apperrors"
	"github.com/fitadmin/gym_management_app/internal/core/domain"
	portsrepo "github.com/fitadmin/gym_management_app/internal/core/ports/repositories"
	portssvc "github.com/fitadmin/gym_management_app/internal/core/ports/services"
	"github.com/fitadmin/gym_management_app/internal/dto"
	"github.com/fitadmin/gym_management_app/internal/utils"
	"github.com/shopspring/decimal"
)

// defaultManualRates are the documented baseline rates used when a tenant has
// auto rates disabled (or the feed is down) and no stored rate exists at all.
var defaultManualRates = map[string]decimal.Decimal{
	"USD": decimal.RequireFromString("1.35"),
	"EUR": decimal.RequireFromString("1.45"),
}

// currencyService implements the CurrencySvcFacade interface.
type currencyService struct {
	BaseService
	tenantRepo portsrepo.TenantSettingsRepository
	rateSource portssvc.RateSource
}

// NewCurrencyService creates a new currency service.
func NewCurrencyService(tenantRepo portsrepo.TenantSettingsRepository, rateSource portssvc.RateSource) portssvc.CurrencySvcFacade {
	return &currencyService{
		tenantRepo: tenantRepo,
		rateSource: rateSource,
	}
}

// Ensure currencyService implements the CurrencySvcFacade interface
var _ portssvc.CurrencySvcFacade = (*currencyService)(nil)

// ResolveRates produces the effective snapshot for the settings. The live feed
// is preferred when auto rates are enabled; any feed failure narrows to the
// stored-rate fallback and must never fault the conversion path.
func (s *currencyService) ResolveRates(ctx context.Context, settings domain.TenantCurrencySettings) (domain.RateSnapshot, bool) {
	if settings.UseAutoRates {
		if snapshot := s.rateSource.FetchLatest(ctx); snapshot != nil {
			return *snapshot, true
		}
		s.LogDebug(ctx, "Rate feed unavailable, falling back to stored rates",
			slog.String("tenant_id", settings.TenantID))
	}
	return s.manualSnapshot(settings), false
}

// manualSnapshot builds a snapshot from the tenant's stored rates, filling
// unset rates from the documented baseline.
func (s *currencyService) manualSnapshot(settings domain.TenantCurrencySettings) domain.RateSnapshot {
	rates := make(map[string]decimal.Decimal, len(settings.EnabledCurrencies))
	rates[settings.BaseCurrency] = decimal.NewFromInt(1)
	for _, code := range settings.EnabledCurrencies {
		if code == settings.BaseCurrency {
			continue
		}
		if stored, ok := settings.ManualRates[code]; ok && stored.IsPositive() {
			rates[code] = stored
			continue
		}
		if fallback, ok := defaultManualRates[code]; ok {
			rates[code] = fallback
		}
	}

	observedAt := settings.LastRateUpdate
	if observedAt.IsZero() {
		observedAt = time.Now()
	}
	return domain.RateSnapshot{
		BaseCurrency: settings.BaseCurrency,
		Rates:        rates,
		ObservedAt:   observedAt,
		Origin:       domain.RateOriginManual,
	}
}

// ConvertAmount converts between two currencies by triangulating through the
// snapshot's base currency. Pure given its inputs.
func (s *currencyService) ConvertAmount(amount decimal.Decimal, from, to string, snapshot domain.RateSnapshot) (*domain.ConversionResult, error) {
	// Same-currency conversions take no floating path at all: the rate is 1
	// exactly, whatever the snapshot holds.
	if from == to {
		return &domain.ConversionResult{
			FromCurrency: from,
			ToCurrency:   to,
			FromAmount:   amount,
			ToAmount:     amount,
			Rate:         decimal.NewFromInt(1),
			Timestamp:    snapshot.ObservedAt,
		}, nil
	}

	fromRate, err := s.rateToBase(from, snapshot)
	if err != nil {
		return nil, err
	}
	toRate, err := s.rateToBase(to, snapshot)
	if err != nil {
		return nil, err
	}

	amountInBase := amount.Mul(fromRate)
	toAmount := amountInBase.Div(toRate)
	// The effective rate is derived from the chain, not from the rounded
	// result, so zero-amount conversions still report a meaningful rate.
	rate := fromRate.Div(toRate)

	return &domain.ConversionResult{
		FromCurrency: from,
		ToCurrency:   to,
		FromAmount:   amount,
		ToAmount:     utils.RoundToCents(toAmount),
		Rate:         utils.RoundRate(rate),
		Timestamp:    snapshot.ObservedAt,
	}, nil
}

// rateToBase returns the snapshot rate converting one unit of code into the
// snapshot's base currency.
func (s *currencyService) rateToBase(code string, snapshot domain.RateSnapshot) (decimal.Decimal, error) {
	if code == snapshot.BaseCurrency {
		return decimal.NewFromInt(1), nil
	}
	rate, ok := snapshot.Rates[code]
	if !ok || !rate.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: no rate available for %q", apperrors.ErrUnsupportedCurrency, code)
	}
	return rate, nil
}

// Convert loads the tenant's settings, resolves the effective rates and
// converts. When a fresh auto snapshot was fetched, the stored rates are
// updated best-effort; a failed write never blocks the conversion result.
func (s *currencyService) Convert(ctx context.Context, tenantID string, amount decimal.Decimal, from, to string) (*domain.ConversionResult, error) {
	settings, err := s.tenantRepo.FindCurrencySettings(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load currency settings for tenant %s: %w", tenantID, err)
	}

	if !settings.IsEnabled(from) {
		return nil, fmt.Errorf("%w: %q is not enabled for this tenant", apperrors.ErrUnsupportedCurrency, from)
	}
	if !settings.IsEnabled(to) {
		return nil, fmt.Errorf("%w: %q is not enabled for this tenant", apperrors.ErrUnsupportedCurrency, to)
	}

	snapshot, refreshed := s.ResolveRates(ctx, *settings)
	result, err := s.ConvertAmount(amount, from, to, snapshot)
	if err != nil {
		return nil, err
	}

	if refreshed {
		if persistErr := s.persistSnapshot(ctx, *settings, snapshot); persistErr != nil {
			s.LogError(ctx, persistErr, "Failed to persist refreshed rates, conversion result unaffected",
				slog.String("tenant_id", tenantID))
		}
	}

	return result, nil
}

// persistSnapshot stores a fetched auto snapshot into the tenant's manual
// rates so later fallbacks use fresh values. Skipped when the feed quotes
// against a different base than the tenant uses.
func (s *currencyService) persistSnapshot(ctx context.Context, settings domain.TenantCurrencySettings, snapshot domain.RateSnapshot) error {
	if snapshot.BaseCurrency != settings.BaseCurrency {
		s.LogDebug(ctx, "Feed base differs from tenant base, not persisting rates",
			slog.String("feed_base", snapshot.BaseCurrency),
			slog.String("tenant_base", settings.BaseCurrency))
		return nil
	}

	if settings.ManualRates == nil {
		settings.ManualRates = make(map[string]decimal.Decimal)
	}
	for _, code := range settings.EnabledCurrencies {
		if code == settings.BaseCurrency {
			continue
		}
		if rate, ok := snapshot.Rates[code]; ok {
			settings.ManualRates[code] = rate
		}
	}
	settings.LastRateUpdate = snapshot.ObservedAt
	settings.LastUpdatedAt = time.Now()

	return s.tenantRepo.SaveCurrencySettings(ctx, settings)
}

// RefreshRates fetches the live feed and persists it into the tenant's stored
// rates. Invoked by the platform's scheduled daily refresh and by an explicit
// settings action.
func (s *currencyService) RefreshRates(ctx context.Context, tenantID, updaterUserID string) (*domain.TenantCurrencySettings, bool, error) {
	settings, err := s.tenantRepo.FindCurrencySettings(ctx, tenantID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load currency settings for tenant %s: %w", tenantID, err)
	}

	snapshot := s.rateSource.FetchLatest(ctx)
	if snapshot == nil {
		s.LogInfo(ctx, "Rate feed unavailable, stored rates left untouched",
			slog.String("tenant_id", tenantID))
		return settings, false, nil
	}

	settings.LastUpdatedBy = updaterUserID
	if err := s.persistSnapshot(ctx, *settings, *snapshot); err != nil {
		return nil, false, fmt.Errorf("failed to persist refreshed rates: %w", err)
	}

	updated, err := s.tenantRepo.FindCurrencySettings(ctx, tenantID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to reload currency settings after refresh: %w", err)
	}

	s.LogInfo(ctx, "Exchange rates refreshed from feed",
		slog.String("tenant_id", tenantID),
		slog.Time("observed_at", snapshot.ObservedAt))
	return updated, true, nil
}

// GetSettings retrieves a tenant's currency settings.
func (s *currencyService) GetSettings(ctx context.Context, tenantID string) (*domain.TenantCurrencySettings, error) {
	settings, err := s.tenantRepo.FindCurrencySettings(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to get currency settings in service: %w", err)
	}
	return settings, nil
}

// UpdateSettings validates and saves a tenant's currency settings. The base
// currency must be a member of the enabled set and stored rates must be
// positive.
func (s *currencyService) UpdateSettings(ctx context.Context, tenantID string, req dto.UpdateCurrencySettingsRequest, updaterUserID string) (*domain.TenantCurrencySettings, error) {
	enabled := false
	for _, code := range req.EnabledCurrencies {
		if code == req.BaseCurrency {
			enabled = true
			break
		}
	}
	if !enabled {
		return nil, fmt.Errorf("%w: base currency %q must be in the enabled set", apperrors.ErrValidation, req.BaseCurrency)
	}

	for code, manualRate := range req.ManualRates {
		if !manualRate.IsPositive() {
			return nil, fmt.Errorf("%w: manual rate for %q must be positive", apperrors.ErrValidation, code)
		}
	}

	now := time.Now()
	settings := domain.TenantCurrencySettings{
		TenantID:          tenantID,
		BaseCurrency:      req.BaseCurrency,
		EnabledCurrencies: req.EnabledCurrencies,
		ManualRates:       req.ManualRates,
		UseAutoRates:      req.UseAutoRates,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     updaterUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: updaterUserID,
		},
	}

	if err := s.tenantRepo.SaveCurrencySettings(ctx, settings); err != nil {
		s.LogError(ctx, err, "Failed to save tenant currency settings",
			slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to save currency settings in service: %w", err)
	}

	return &settings, nil
}
