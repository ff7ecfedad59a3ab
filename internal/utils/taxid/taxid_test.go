package taxid_test

import (
	"fmt"
	"testing"

	"github.com/fitadmin/gym_management_app/internal/utils/taxid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 123456782 carries a valid Luhn check digit.
const validGSTNumber = "123456782RT0001"

func TestValidateGSTNumber_Valid(t *testing.T) {
	result := taxid.ValidateGSTNumber(validGSTNumber)
	require.True(t, result.Valid)
	assert.Empty(t, result.Reason)
}

func TestValidateGSTNumber_NormalizesInput(t *testing.T) {
	result := taxid.ValidateGSTNumber("  123 456 782 rt 0001 ")
	assert.True(t, result.Valid)
}

func TestValidateGSTNumber_FormatRejections(t *testing.T) {
	cases := []string{
		"",
		"123456782",
		"123456782RT001",   // suffix too short
		"12345678RT0001",   // prefix too short
		"123456782TQ0001",  // wrong program identifier
		"12345678ART0001",  // letter in prefix
		"123456782RT00010", // too long
	}
	for _, input := range cases {
		result := taxid.ValidateGSTNumber(input)
		assert.False(t, result.Valid, "input %q should fail format validation", input)
		assert.Contains(t, result.Reason, "RT", "format reason expected for %q", input)
	}
}

func TestValidateGSTNumber_ChecksumRejection(t *testing.T) {
	result := taxid.ValidateGSTNumber("123456789RT0001")
	require.False(t, result.Valid)
	assert.Contains(t, result.Reason, "checksum")
}

func TestValidateGSTNumber_LuhnSensitivity(t *testing.T) {
	// Mutating any single digit of a checksum-valid prefix must invalidate it.
	prefix := validGSTNumber[:9]
	for pos := 0; pos < len(prefix); pos++ {
		original := prefix[pos] - '0'
		mutated := (original + 1) % 10
		candidate := fmt.Sprintf("%s%d%sRT0001", prefix[:pos], mutated, prefix[pos+1:])
		result := taxid.ValidateGSTNumber(candidate)
		assert.False(t, result.Valid, "mutation at digit %d should invalidate %q", pos, candidate)
	}
}

func TestValidateQSTNumber(t *testing.T) {
	assert.True(t, taxid.ValidateQSTNumber("1234567890TQ0001").Valid)
	assert.True(t, taxid.ValidateQSTNumber("1234 567 890 tq 0001").Valid)

	for _, input := range []string{"", "123456789TQ0001", "1234567890RT0001", "1234567890TQ001"} {
		result := taxid.ValidateQSTNumber(input)
		assert.False(t, result.Valid, "input %q should fail", input)
		assert.NotEmpty(t, result.Reason)
	}
}

func TestFormatGSTNumber(t *testing.T) {
	assert.Equal(t, "123 456 782 RT 0001", taxid.FormatGSTNumber(validGSTNumber))
	assert.Equal(t, "123 456 782 RT 0001", taxid.FormatGSTNumber("123456782rt0001"))

	// Anything that does not normalize to 15 characters passes through untouched.
	assert.Equal(t, "12345", taxid.FormatGSTNumber("12345"))
	assert.Equal(t, "", taxid.FormatGSTNumber(""))
}
