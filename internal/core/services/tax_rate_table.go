package services

import (
	"fmt"
	"sort"

	"github.com/fitadmin/gym_management_app/internal/apperrors"
	"github.com/fitadmin/gym_management_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// jurisdictionRules is the fixed, jurisdiction-keyed tax table. New
// jurisdictions are additive data here, never control-flow changes in the
// calculator. Loaded once per process and never mutated.
var jurisdictionRules = map[string]domain.JurisdictionTaxRule{
	"ON": hstRule("ON", "Ontario", "0.13"),
	"NB": hstRule("NB", "New Brunswick", "0.15"),
	"NL": hstRule("NL", "Newfoundland and Labrador", "0.15"),
	"NS": hstRule("NS", "Nova Scotia", "0.15"),
	"PE": hstRule("PE", "Prince Edward Island", "0.15"),
	"BC": gstPSTRule("BC", "British Columbia", "0.05", "0.07"),
	"SK": gstPSTRule("SK", "Saskatchewan", "0.05", "0.06"),
	"MB": gstPSTRule("MB", "Manitoba", "0.05", "0.07"),
	"QC": {
		Code:        "QC",
		DisplayName: "Quebec",
		Composition: domain.CompositionGSTQST,
		GSTRate:     rate("0.05"),
		QSTRate:     rate("0.09975"),
	},
	"AB": gstOnlyRule("AB", "Alberta"),
	"NT": gstOnlyRule("NT", "Northwest Territories"),
	"NU": gstOnlyRule("NU", "Nunavut"),
	"YT": gstOnlyRule("YT", "Yukon"),
}

func rate(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func hstRule(code, name, hst string) domain.JurisdictionTaxRule {
	return domain.JurisdictionTaxRule{
		Code:        code,
		DisplayName: name,
		Composition: domain.CompositionHST,
		HSTRate:     rate(hst),
	}
}

func gstPSTRule(code, name, gst, pst string) domain.JurisdictionTaxRule {
	return domain.JurisdictionTaxRule{
		Code:        code,
		DisplayName: name,
		Composition: domain.CompositionGSTPST,
		GSTRate:     rate(gst),
		PSTRate:     rate(pst),
	}
}

func gstOnlyRule(code, name string) domain.JurisdictionTaxRule {
	return domain.JurisdictionTaxRule{
		Code:        code,
		DisplayName: name,
		Composition: domain.CompositionGSTOnly,
		GSTRate:     rate("0.05"),
	}
}

// rateRulesFor looks up the fixed rule for a jurisdiction code.
func rateRulesFor(jurisdictionCode string) (domain.JurisdictionTaxRule, error) {
	rule, ok := jurisdictionRules[jurisdictionCode]
	if !ok {
		return domain.JurisdictionTaxRule{}, fmt.Errorf("%w: %q", apperrors.ErrUnknownJurisdiction, jurisdictionCode)
	}
	return rule, nil
}

// listJurisdictions returns every rule sorted by code for stable UI output.
func listJurisdictions() []domain.JurisdictionTaxRule {
	rules := make([]domain.JurisdictionTaxRule, 0, len(jurisdictionRules))
	for _, rule := range jurisdictionRules {
		rules = append(rules, rule)
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].Code < rules[j].Code })
	return rules
}
