// Package phone classifies phone numbers by country and network operator
// using a static prefix table. All functions are pure.
package phone

import (
	"strings"
)

const minDigits = 3

// Result describes a classified number. Only NormalizedNumber is set for
// invalid input.
type Result struct {
	IsValid          bool       `json:"isValid"`
	Country          string     `json:"country,omitempty"`
	CountryCode      string     `json:"countryCode,omitempty"`
	ISOCode          string     `json:"isoCode,omitempty"`
	Operator         string     `json:"operator,omitempty"`
	PrefixType       PrefixType `json:"prefixType,omitempty"`
	Prefix           string     `json:"prefix,omitempty"`
	NormalizedNumber string     `json:"normalizedNumber"`
}

var stripper = strings.NewReplacer("-", "", "(", "", ")", "", "+", "")

// Normalize removes whitespace, hyphens, parentheses and plus signs.
func Normalize(raw string) string {
	return stripper.Replace(strings.Join(strings.Fields(raw), ""))
}

// Classify matches raw against the built-in table.
func Classify(raw string) Result {
	return ClassifyWith(raw, defaultTable)
}

// ClassifyWith matches raw against table and returns the first hit in
// country, operator, category, prefix order.
func ClassifyWith(raw string, table Table) Result {
	normalized := Normalize(raw)
	if len(normalized) < minDigits {
		return Result{NormalizedNumber: normalized}
	}

	for _, country := range table {
		local := stripCountryCode(normalized, country.CountryCode)
		for _, op := range country.Operators {
			for _, cat := range op.Prefixes.categories() {
				for _, prefix := range cat.prefixes {
					if strings.HasPrefix(local, prefix) {
						return Result{
							IsValid:          true,
							Country:          country.Name,
							CountryCode:      country.CountryCode,
							ISOCode:          country.ISOCode,
							Operator:         op.Name,
							PrefixType:       cat.kind,
							Prefix:           prefix,
							NormalizedNumber: normalized,
						}
					}
				}
			}
		}
	}
	return Result{NormalizedNumber: normalized}
}

// Format renders raw for display. With includeCountryCode the dialing code
// is prefixed and separated by a space. Unrecognized input is returned as is.
func Format(raw string, includeCountryCode bool) string {
	res := Classify(raw)
	if !res.IsValid || res.CountryCode == "" {
		return raw
	}
	local := stripCountryCode(res.NormalizedNumber, res.CountryCode)
	if includeCountryCode {
		return res.CountryCode + " " + local
	}
	return local
}

// ValidateForCountry reports whether raw classifies to the given ISO code.
func ValidateForCountry(raw, iso string) bool {
	res := Classify(raw)
	return res.IsValid && res.ISOCode == iso
}

// Operators lists operator names for a country. Unknown countries yield an
// empty slice.
func Operators(iso string) []string {
	country, ok := defaultTable.Country(iso)
	if !ok {
		return []string{}
	}
	names := make([]string, 0, len(country.Operators))
	for _, op := range country.Operators {
		names = append(names, op.Name)
	}
	return names
}

// OperatorPrefixes returns the prefix lists for an operator in a country.
func OperatorPrefixes(iso, operator string) (Prefixes, bool) {
	country, ok := defaultTable.Country(iso)
	if !ok {
		return Prefixes{}, false
	}
	for _, op := range country.Operators {
		if op.Name == operator {
			return op.Prefixes.clone(), true
		}
	}
	return Prefixes{}, false
}

// Countries returns a copy of the built-in table.
func Countries() Table {
	return defaultTable.clone()
}

func stripCountryCode(number, countryCode string) string {
	digits := strings.TrimPrefix(countryCode, "+")
	if digits != "" && strings.HasPrefix(number, digits) {
		return number[len(digits):]
	}
	return number
}
