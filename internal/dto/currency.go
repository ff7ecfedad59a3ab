package dto

import (
	"time"

	"github.com/fitadmin/gym_management_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ConvertCurrencyRequest defines the payload for a currency conversion.
type ConvertCurrencyRequest struct {
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	FromCurrency string          `json:"fromCurrency" binding:"required,currencycode"`
	ToCurrency   string          `json:"toCurrency" binding:"required,currencycode"`
}

// ConversionResultResponse is the API shape of a conversion outcome.
type ConversionResultResponse struct {
	FromCurrency string          `json:"fromCurrency"`
	ToCurrency   string          `json:"toCurrency"`
	FromAmount   decimal.Decimal `json:"fromAmount"`
	ToAmount     decimal.Decimal `json:"toAmount"`
	Rate         decimal.Decimal `json:"rate"`
	Timestamp    time.Time       `json:"timestamp"`
}

// ToConversionResultResponse converts a domain.ConversionResult to its API shape.
func ToConversionResultResponse(r *domain.ConversionResult) ConversionResultResponse {
	return ConversionResultResponse{
		FromCurrency: r.FromCurrency,
		ToCurrency:   r.ToCurrency,
		FromAmount:   r.FromAmount,
		ToAmount:     r.ToAmount,
		Rate:         r.Rate,
		Timestamp:    r.Timestamp,
	}
}

// UpdateCurrencySettingsRequest defines the payload for saving a tenant's
// currency settings. EnabledCurrencies must contain BaseCurrency.
type UpdateCurrencySettingsRequest struct {
	BaseCurrency      string                     `json:"baseCurrency" binding:"required,currencycode"`
	EnabledCurrencies []string                   `json:"enabledCurrencies" binding:"required,min=1,dive,currencycode"`
	ManualRates       map[string]decimal.Decimal `json:"manualRates"`
	UseAutoRates      bool                       `json:"useAutoRates"`
}

// CurrencySettingsResponse is the API shape of a tenant's currency settings.
type CurrencySettingsResponse struct {
	TenantID          string                     `json:"tenantID"`
	BaseCurrency      string                     `json:"baseCurrency"`
	EnabledCurrencies []string                   `json:"enabledCurrencies"`
	ManualRates       map[string]decimal.Decimal `json:"manualRates"`
	UseAutoRates      bool                       `json:"useAutoRates"`
	LastRateUpdate    time.Time                  `json:"lastRateUpdate"`
}

// ToCurrencySettingsResponse converts domain settings to their API shape.
func ToCurrencySettingsResponse(s *domain.TenantCurrencySettings) CurrencySettingsResponse {
	return CurrencySettingsResponse{
		TenantID:          s.TenantID,
		BaseCurrency:      s.BaseCurrency,
		EnabledCurrencies: s.EnabledCurrencies,
		ManualRates:       s.ManualRates,
		UseAutoRates:      s.UseAutoRates,
		LastRateUpdate:    s.LastRateUpdate,
	}
}

// RateRefreshResponse reports the outcome of a rate refresh request.
// Refreshed is false when the external feed was unavailable and the stored
// rates were left untouched.
type RateRefreshResponse struct {
	Refreshed bool                     `json:"refreshed"`
	Settings  CurrencySettingsResponse `json:"settings"`
}
