package domain

import "github.com/shopspring/decimal"

// TaxComposition identifies which sales-tax components a jurisdiction levies.
type TaxComposition string

const (
	CompositionHST     TaxComposition = "HST"
	CompositionGSTPST  TaxComposition = "GST_PST"
	CompositionGSTQST  TaxComposition = "GST_QST"
	CompositionGSTOnly TaxComposition = "GST_ONLY"
)

// JurisdictionTaxRule is a fixed rate record for one jurisdiction. Exactly the
// rate fields implied by Composition are non-zero; the rest are zero.
type JurisdictionTaxRule struct {
	Code        string          `json:"code"`
	DisplayName string          `json:"displayName"`
	Composition TaxComposition  `json:"composition"`
	GSTRate     decimal.Decimal `json:"gstRate"`
	PSTRate     decimal.Decimal `json:"pstRate"`
	HSTRate     decimal.Decimal `json:"hstRate"`
	QSTRate     decimal.Decimal `json:"qstRate"`
}

// TotalRate returns the jurisdiction's nominal combined rate.
func (r JurisdictionTaxRule) TotalRate() decimal.Decimal {
	return r.GSTRate.Add(r.PSTRate).Add(r.HSTRate).Add(r.QSTRate)
}

// TaxBreakdown is the result of applying a jurisdiction rule to a subtotal.
// Each component is rounded to cents independently so every tax line on a
// printed invoice is auditable on its own; the sub-cent drift this can
// introduce versus rounding the combined rate once is accepted.
type TaxBreakdown struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	GST      decimal.Decimal `json:"gst"`
	PST      decimal.Decimal `json:"pst"`
	HST      decimal.Decimal `json:"hst"`
	QST      decimal.Decimal `json:"qst"`
	TaxTotal decimal.Decimal `json:"taxTotal"`
	Total    decimal.Decimal `json:"total"`
}

// TenantTaxConfig is the per-tenant tax configuration maintained through the
// settings screens. Registration numbers are optional; IsSmallSupplier exempts
// the tenant from charging any sales tax regardless of jurisdiction.
type TenantTaxConfig struct {
	TenantID         string `json:"tenantID"`
	JurisdictionCode string `json:"jurisdictionCode"`
	GSTNumber        string `json:"gstNumber"`
	PSTNumber        string `json:"pstNumber"`
	QSTNumber        string `json:"qstNumber"`
	IsSmallSupplier  bool   `json:"isSmallSupplier"`
	AuditFields
}
