package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RateOrigin marks where the rates in a snapshot came from.
type RateOrigin string

const (
	RateOriginManual RateOrigin = "manual"
	RateOriginAuto   RateOrigin = "auto"
)

// TenantCurrencySettings is the per-tenant currency configuration.
// Invariant: BaseCurrency is always a member of EnabledCurrencies.
// ManualRates maps a non-base currency code to its rate against the base.
type TenantCurrencySettings struct {
	TenantID          string                     `json:"tenantID"`
	BaseCurrency      string                     `json:"baseCurrency"`
	EnabledCurrencies []string                   `json:"enabledCurrencies"`
	ManualRates       map[string]decimal.Decimal `json:"manualRates"`
	UseAutoRates      bool                       `json:"useAutoRates"`
	LastRateUpdate    time.Time                  `json:"lastRateUpdate"`
	AuditFields
}

// IsEnabled reports whether the given currency code is enabled for the tenant.
func (s TenantCurrencySettings) IsEnabled(code string) bool {
	for _, c := range s.EnabledCurrencies {
		if c == code {
			return true
		}
	}
	return false
}

// RateSnapshot is an ephemeral set of rates against a base currency, produced
// per conversion request. Persisting an auto-fetched snapshot back into the
// tenant settings is the caller's responsibility, never this core's.
type RateSnapshot struct {
	BaseCurrency string                     `json:"baseCurrency"`
	Rates        map[string]decimal.Decimal `json:"rates"`
	ObservedAt   time.Time                  `json:"observedAt"`
	Origin       RateOrigin                 `json:"origin"`
}

// ConversionResult is the outcome of a single currency conversion.
// Rate is rounded to six decimal places for audit display.
type ConversionResult struct {
	FromCurrency string          `json:"fromCurrency"`
	ToCurrency   string          `json:"toCurrency"`
	FromAmount   decimal.Decimal `json:"fromAmount"`
	ToAmount     decimal.Decimal `json:"toAmount"`
	Rate         decimal.Decimal `json:"rate"`
	Timestamp    time.Time       `json:"timestamp"`
}
