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
	"github.com/fitadmin/gym_management_app/internal/utils/taxid"
	"github.com/shopspring/decimal"
)

// taxService implements the TaxSvcFacade interface.
type taxService struct {
	BaseService
	tenantRepo portsrepo.TenantSettingsRepository
}

// NewTaxService creates a new tax service.
func NewTaxService(tenantRepo portsrepo.TenantSettingsRepository) portssvc.TaxSvcFacade {
	return &taxService{tenantRepo: tenantRepo}
}

// Ensure taxService implements the TaxSvcFacade interface
var _ portssvc.TaxSvcFacade = (*taxService)(nil)

// Calculate computes the tax breakdown for a subtotal under a jurisdiction's
// current rule.
func (s *taxService) Calculate(subtotal decimal.Decimal, jurisdictionCode string, isSmallSupplier bool) (domain.TaxBreakdown, error) {
	rule, err := rateRulesFor(jurisdictionCode)
	if err != nil {
		return domain.TaxBreakdown{}, err
	}
	return s.CalculateFromStoredRule(subtotal, rule, isSmallSupplier), nil
}

// CalculateFromStoredRule applies the breakdown algorithm against an
// already-resolved rule. Each component is rounded to cents on its own so the
// printed tax lines stay individually auditable; the component sum may differ
// from a single combined-rate rounding by a sub-cent amount.
func (s *taxService) CalculateFromStoredRule(subtotal decimal.Decimal, rule domain.JurisdictionTaxRule, isSmallSupplier bool) domain.TaxBreakdown {
	breakdown := domain.TaxBreakdown{
		Subtotal: subtotal,
		GST:      decimal.Zero,
		PST:      decimal.Zero,
		HST:      decimal.Zero,
		QST:      decimal.Zero,
		TaxTotal: decimal.Zero,
		Total:    subtotal,
	}

	// Small suppliers never charge sales tax, whatever the jurisdiction.
	if isSmallSupplier {
		return breakdown
	}

	breakdown.GST = utils.RoundToCents(subtotal.Mul(rule.GSTRate))
	breakdown.PST = utils.RoundToCents(subtotal.Mul(rule.PSTRate))
	breakdown.HST = utils.RoundToCents(subtotal.Mul(rule.HSTRate))
	// QST is applied to the pre-tax subtotal directly, not compounded on GST.
	breakdown.QST = utils.RoundToCents(subtotal.Mul(rule.QSTRate))

	breakdown.TaxTotal = breakdown.GST.Add(breakdown.PST).Add(breakdown.HST).Add(breakdown.QST)
	breakdown.Total = subtotal.Add(breakdown.TaxTotal)
	return breakdown
}

// CalculateForTenant computes a breakdown under the tenant's configured
// jurisdiction and small-supplier flag.
func (s *taxService) CalculateForTenant(ctx context.Context, tenantID string, subtotal decimal.Decimal) (domain.TaxBreakdown, error) {
	config, err := s.tenantRepo.FindTaxConfig(ctx, tenantID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load tenant tax configuration",
			slog.String("tenant_id", tenantID))
		return domain.TaxBreakdown{}, fmt.Errorf("failed to load tax configuration for tenant %s: %w", tenantID, err)
	}
	return s.Calculate(subtotal, config.JurisdictionCode, config.IsSmallSupplier)
}

// RateRulesFor returns the fixed rule for one jurisdiction code.
func (s *taxService) RateRulesFor(jurisdictionCode string) (domain.JurisdictionTaxRule, error) {
	return rateRulesFor(jurisdictionCode)
}

// ListJurisdictions returns every known jurisdiction rule.
func (s *taxService) ListJurisdictions() []domain.JurisdictionTaxRule {
	return listJurisdictions()
}

// GetTenantConfig retrieves a tenant's tax configuration.
func (s *taxService) GetTenantConfig(ctx context.Context, tenantID string) (*domain.TenantTaxConfig, error) {
	config, err := s.tenantRepo.FindTaxConfig(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tax configuration in service: %w", err)
	}
	return config, nil
}

// UpdateTenantConfig validates and saves a tenant's tax configuration. The
// jurisdiction must exist in the fixed table and any supplied registration
// numbers must pass their format/checksum validation.
func (s *taxService) UpdateTenantConfig(ctx context.Context, tenantID string, req dto.UpdateTaxConfigRequest, updaterUserID string) (*domain.TenantTaxConfig, error) {
	if _, err := rateRulesFor(req.JurisdictionCode); err != nil {
		return nil, fmt.Errorf("%w: jurisdiction code %q is not supported", apperrors.ErrValidation, req.JurisdictionCode)
	}

	if req.GSTNumber != "" {
		if result := taxid.ValidateGSTNumber(req.GSTNumber); !result.Valid {
			return nil, fmt.Errorf("%w: GST/HST number invalid: %s", apperrors.ErrValidation, result.Reason)
		}
	}
	if req.QSTNumber != "" {
		if result := taxid.ValidateQSTNumber(req.QSTNumber); !result.Valid {
			return nil, fmt.Errorf("%w: QST number invalid: %s", apperrors.ErrValidation, result.Reason)
		}
	}

	now := time.Now()
	config := domain.TenantTaxConfig{
		TenantID:         tenantID,
		JurisdictionCode: req.JurisdictionCode,
		GSTNumber:        taxid.Normalize(req.GSTNumber),
		PSTNumber:        taxid.Normalize(req.PSTNumber),
		QSTNumber:        taxid.Normalize(req.QSTNumber),
		IsSmallSupplier:  req.IsSmallSupplier,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     updaterUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: updaterUserID,
		},
	}

	if err := s.tenantRepo.SaveTaxConfig(ctx, config); err != nil {
		s.LogError(ctx, err, "Failed to save tenant tax configuration",
			slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to save tax configuration in service: %w", err)
	}

	s.LogInfo(ctx, "Tenant tax configuration updated",
		slog.String("tenant_id", tenantID),
		slog.String("jurisdiction", config.JurisdictionCode),
		slog.Bool("small_supplier", config.IsSmallSupplier))
	return &config, nil
}
