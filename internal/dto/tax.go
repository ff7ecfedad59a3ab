package dto

import (
	"github.com/fitadmin/gym_management_app/internal/core/domain"
	"github.com/fitadmin/gym_management_app/internal/utils/taxid"
	"github.com/shopspring/decimal"
)

// CalculateTaxRequest defines the payload for an ad-hoc tax calculation.
// JurisdictionCode is optional; when empty the tenant's configured jurisdiction
// and small-supplier flag are used.
type CalculateTaxRequest struct {
	Subtotal         decimal.Decimal `json:"subtotal" binding:"required"`
	JurisdictionCode string          `json:"jurisdictionCode"`
	IsSmallSupplier  *bool           `json:"isSmallSupplier"`
}

// TaxBreakdownResponse is the API shape of a computed tax breakdown.
type TaxBreakdownResponse struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	GST      decimal.Decimal `json:"gst"`
	PST      decimal.Decimal `json:"pst"`
	HST      decimal.Decimal `json:"hst"`
	QST      decimal.Decimal `json:"qst"`
	TaxTotal decimal.Decimal `json:"taxTotal"`
	Total    decimal.Decimal `json:"total"`
}

// ToTaxBreakdownResponse converts a domain.TaxBreakdown to its API shape.
func ToTaxBreakdownResponse(b domain.TaxBreakdown) TaxBreakdownResponse {
	return TaxBreakdownResponse{
		Subtotal: b.Subtotal,
		GST:      b.GST,
		PST:      b.PST,
		HST:      b.HST,
		QST:      b.QST,
		TaxTotal: b.TaxTotal,
		Total:    b.Total,
	}
}

// ValidateTaxIDRequest defines the payload for a registration-number check.
type ValidateTaxIDRequest struct {
	Type   string `json:"type" binding:"required,oneof=gst qst"`
	Number string `json:"number" binding:"required"`
}

// TaxIDValidationResponse is the outcome of a registration-number check.
// Formatted is only set for valid GST/HST numbers.
type TaxIDValidationResponse struct {
	Valid     bool   `json:"valid"`
	Reason    string `json:"reason,omitempty"`
	Formatted string `json:"formatted,omitempty"`
}

// ToTaxIDValidationResponse converts a taxid.ValidationResult to its API shape.
func ToTaxIDValidationResponse(r taxid.ValidationResult, formatted string) TaxIDValidationResponse {
	return TaxIDValidationResponse{
		Valid:     r.Valid,
		Reason:    r.Reason,
		Formatted: formatted,
	}
}

// JurisdictionResponse describes one jurisdiction's tax rule for settings UIs.
type JurisdictionResponse struct {
	Code        string          `json:"code"`
	DisplayName string          `json:"displayName"`
	Composition string          `json:"composition"`
	GSTRate     decimal.Decimal `json:"gstRate"`
	PSTRate     decimal.Decimal `json:"pstRate"`
	HSTRate     decimal.Decimal `json:"hstRate"`
	QSTRate     decimal.Decimal `json:"qstRate"`
	TotalRate   decimal.Decimal `json:"totalRate"`
}

// ToJurisdictionResponse converts a domain rule to its API shape.
func ToJurisdictionResponse(rule domain.JurisdictionTaxRule) JurisdictionResponse {
	return JurisdictionResponse{
		Code:        rule.Code,
		DisplayName: rule.DisplayName,
		Composition: string(rule.Composition),
		GSTRate:     rule.GSTRate,
		PSTRate:     rule.PSTRate,
		HSTRate:     rule.HSTRate,
		QSTRate:     rule.QSTRate,
		TotalRate:   rule.TotalRate(),
	}
}

// ToListJurisdictionResponse converts a slice of domain rules to API shapes.
func ToListJurisdictionResponse(rules []domain.JurisdictionTaxRule) []JurisdictionResponse {
	responses := make([]JurisdictionResponse, len(rules))
	for i, rule := range rules {
		responses[i] = ToJurisdictionResponse(rule)
	}
	return responses
}

// UpdateTaxConfigRequest defines the payload for saving a tenant's tax
// configuration. Registration numbers are optional but validated when present.
type UpdateTaxConfigRequest struct {
	JurisdictionCode string `json:"jurisdictionCode" binding:"required"`
	GSTNumber        string `json:"gstNumber"`
	PSTNumber        string `json:"pstNumber"`
	QSTNumber        string `json:"qstNumber"`
	IsSmallSupplier  bool   `json:"isSmallSupplier"`
}

// TaxConfigResponse is the API shape of a tenant's tax configuration.
type TaxConfigResponse struct {
	TenantID         string `json:"tenantID"`
	JurisdictionCode string `json:"jurisdictionCode"`
	GSTNumber        string `json:"gstNumber,omitempty"`
	PSTNumber        string `json:"pstNumber,omitempty"`
	QSTNumber        string `json:"qstNumber,omitempty"`
	IsSmallSupplier  bool   `json:"isSmallSupplier"`
}

// ToTaxConfigResponse converts a domain.TenantTaxConfig to its API shape.
func ToTaxConfigResponse(config *domain.TenantTaxConfig) TaxConfigResponse {
	return TaxConfigResponse{
		TenantID:         config.TenantID,
		JurisdictionCode: config.JurisdictionCode,
		GSTNumber:        config.GSTNumber,
		PSTNumber:        config.PSTNumber,
		QSTNumber:        config.QSTNumber,
		IsSmallSupplier:  config.IsSmallSupplier,
	}
}
