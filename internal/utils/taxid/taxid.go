// Package taxid validates and formats government tax-registration numbers.
package taxid

import (
	"regexp"
	"strings"
)

// ValidationResult is the outcome of a registration-number check. Checks never
// fail with an error; malformed user input is an expected condition.
type ValidationResult struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

var (
	gstPattern = regexp.MustCompile(`^\d{9}RT\d{4}$`)
	qstPattern = regexp.MustCompile(`^\d{10}TQ\d{4}$`)
)

// Normalize strips all whitespace from a candidate number and uppercases it.
func Normalize(number string) string {
	return strings.ToUpper(strings.Join(strings.Fields(number), ""))
}

// ValidateGSTNumber checks a GST/HST registration number: nine digits, the
// literal "RT", then a four-digit program account suffix. The nine-digit
// business-number prefix must pass a Luhn checksum.
func ValidateGSTNumber(number string) ValidationResult {
	normalized := Normalize(number)
	if !gstPattern.MatchString(normalized) {
		return ValidationResult{
			Valid:  false,
			Reason: "must be 9 digits followed by RT and a 4 digit suffix, e.g. 123456789RT0001",
		}
	}
	if !luhnValid(normalized[:9]) {
		return ValidationResult{
			Valid:  false,
			Reason: "business number failed checksum validation",
		}
	}
	return ValidationResult{Valid: true}
}

// ValidateQSTNumber checks a QST registration number: ten digits, the literal
// "TQ", then a four-digit suffix. No checksum applies to QST numbers.
func ValidateQSTNumber(number string) ValidationResult {
	normalized := Normalize(number)
	if !qstPattern.MatchString(normalized) {
		return ValidationResult{
			Valid:  false,
			Reason: "must be 10 digits followed by TQ and a 4 digit suffix, e.g. 1234567890TQ0001",
		}
	}
	return ValidationResult{Valid: true}
}

// FormatGSTNumber renders a normalized 15-character GST/HST number with display
// separators grouping 3-3-3-2-4, e.g. "123 456 789 RT 0001". Input of any other
// length is returned unchanged.
func FormatGSTNumber(number string) string {
	normalized := Normalize(number)
	if len(normalized) != 15 {
		return number
	}
	parts := []string{
		normalized[0:3],
		normalized[3:6],
		normalized[6:9],
		normalized[9:11],
		normalized[11:15],
	}
	return strings.Join(parts, " ")
}

// luhnValid runs the standard Luhn checksum over a digit string: double every
// second digit from the rightmost, subtract 9 from doubled values above 9, and
// require the digit sum to be a multiple of 10.
func luhnValid(digits string) bool {
	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		d := int(digits[i] - '0')
		if d < 0 || d > 9 {
			return false
		}
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}
