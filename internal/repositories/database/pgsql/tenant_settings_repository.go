package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fitadmin/gym_management_app/internal/apperrors"
	"github.com/fitadmin/gym_management_app/internal/core/domain"
	portsrepo "github.com/fitadmin/gym_management_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type pgxTenantSettingsRepository struct {
	BaseRepository
}

// newPgxTenantSettingsRepository creates a new repository for tenant financial configuration.
func newPgxTenantSettingsRepository(pool *pgxpool.Pool) portsrepo.TenantSettingsRepository {
	return &pgxTenantSettingsRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.TenantSettingsRepository = (*pgxTenantSettingsRepository)(nil)

// FindTaxConfig retrieves a tenant's tax configuration.
func (r *pgxTenantSettingsRepository) FindTaxConfig(ctx context.Context, tenantID string) (*domain.TenantTaxConfig, error) {
	query := `
		SELECT tenant_id, jurisdiction_code, gst_number, pst_number, qst_number, is_small_supplier,
			created_at, created_by, last_updated_at, last_updated_by
		FROM tenant_tax_configs
		WHERE tenant_id = $1;
	`
	var config domain.TenantTaxConfig
	err := r.Pool.QueryRow(ctx, query, tenantID).Scan(
		&config.TenantID,
		&config.JurisdictionCode,
		&config.GSTNumber,
		&config.PSTNumber,
		&config.QSTNumber,
		&config.IsSmallSupplier,
		&config.CreatedAt,
		&config.CreatedBy,
		&config.LastUpdatedAt,
		&config.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find tax config for tenant %s: %w", tenantID, err)
	}
	return &config, nil
}

// SaveTaxConfig creates or replaces a tenant's tax configuration.
func (r *pgxTenantSettingsRepository) SaveTaxConfig(ctx context.Context, config domain.TenantTaxConfig) error {
	query := `
		INSERT INTO tenant_tax_configs (tenant_id, jurisdiction_code, gst_number, pst_number, qst_number,
			is_small_supplier, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (tenant_id) DO UPDATE SET
			jurisdiction_code = EXCLUDED.jurisdiction_code,
			gst_number = EXCLUDED.gst_number,
			pst_number = EXCLUDED.pst_number,
			qst_number = EXCLUDED.qst_number,
			is_small_supplier = EXCLUDED.is_small_supplier,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err := r.Pool.Exec(ctx, query,
		config.TenantID,
		config.JurisdictionCode,
		config.GSTNumber,
		config.PSTNumber,
		config.QSTNumber,
		config.IsSmallSupplier,
		config.CreatedAt,
		config.CreatedBy,
		config.LastUpdatedAt,
		config.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save tax config for tenant %s: %w", config.TenantID, err)
	}
	return nil
}

// FindCurrencySettings retrieves a tenant's currency settings. Manual rates
// are stored as a JSONB map of currency code to rate.
func (r *pgxTenantSettingsRepository) FindCurrencySettings(ctx context.Context, tenantID string) (*domain.TenantCurrencySettings, error) {
	query := `
		SELECT tenant_id, base_currency, enabled_currencies, manual_rates, use_auto_rates, last_rate_update,
			created_at, created_by, last_updated_at, last_updated_by
		FROM tenant_currency_settings
		WHERE tenant_id = $1;
	`
	var settings domain.TenantCurrencySettings
	var manualRatesRaw []byte
	err := r.Pool.QueryRow(ctx, query, tenantID).Scan(
		&settings.TenantID,
		&settings.BaseCurrency,
		&settings.EnabledCurrencies,
		&manualRatesRaw,
		&settings.UseAutoRates,
		&settings.LastRateUpdate,
		&settings.CreatedAt,
		&settings.CreatedBy,
		&settings.LastUpdatedAt,
		&settings.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find currency settings for tenant %s: %w", tenantID, err)
	}

	settings.ManualRates = make(map[string]decimal.Decimal)
	if len(manualRatesRaw) > 0 {
		if err := json.Unmarshal(manualRatesRaw, &settings.ManualRates); err != nil {
			return nil, fmt.Errorf("failed to decode manual rates for tenant %s: %w", tenantID, err)
		}
	}
	return &settings, nil
}

// SaveCurrencySettings creates or replaces a tenant's currency settings.
// Concurrent saves are not coordinated; last writer wins.
func (r *pgxTenantSettingsRepository) SaveCurrencySettings(ctx context.Context, settings domain.TenantCurrencySettings) error {
	manualRatesRaw, err := json.Marshal(settings.ManualRates)
	if err != nil {
		return fmt.Errorf("failed to encode manual rates for tenant %s: %w", settings.TenantID, err)
	}

	query := `
		INSERT INTO tenant_currency_settings (tenant_id, base_currency, enabled_currencies, manual_rates,
			use_auto_rates, last_rate_update, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (tenant_id) DO UPDATE SET
			base_currency = EXCLUDED.base_currency,
			enabled_currencies = EXCLUDED.enabled_currencies,
			manual_rates = EXCLUDED.manual_rates,
			use_auto_rates = EXCLUDED.use_auto_rates,
			last_rate_update = EXCLUDED.last_rate_update,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err = r.Pool.Exec(ctx, query,
		settings.TenantID,
		settings.BaseCurrency,
		settings.EnabledCurrencies,
		manualRatesRaw,
		settings.UseAutoRates,
		settings.LastRateUpdate,
		settings.CreatedAt,
		settings.CreatedBy,
		settings.LastUpdatedAt,
		settings.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save currency settings for tenant %s: %w", settings.TenantID, err)
	}
	return nil
}
