package utils

import (
	"github.com/shopspring/decimal"
)

// centsPrecision is the display precision for monetary amounts.
const centsPrecision = 2

// ratePrecision is the display precision for exchange rates on audit output.
const ratePrecision = 6

// RoundToCents rounds a monetary amount to two decimal places, half up.
// Example: 9.975 returns 9.98.
func RoundToCents(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(centsPrecision)
}

// RoundRate rounds an exchange rate to six decimal places for audit display.
func RoundRate(rate decimal.Decimal) decimal.Decimal {
	return rate.Round(ratePrecision)
}

// FormatWithPrecision formats an amount with the given precision.
// Example: amount 12.3456 with precision 2 returns "12.35".
func FormatWithPrecision(amount decimal.Decimal, precision int) string {
	return amount.Round(int32(precision)).String()
}
