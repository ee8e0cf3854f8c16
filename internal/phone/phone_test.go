package phone

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "260971234567", Normalize("+260 (97) 123-4567"))
	assert.Equal(t, "0971234567", Normalize("097\t123 4567"))
	assert.Equal(t, "", Normalize(" -()+ "))
}

func TestClassifyZambianAirtelOld(t *testing.T) {
	res := Classify("097-123-4567")
	assert.Equal(t, Result{
		IsValid:          true,
		Country:          "Zambia",
		CountryCode:      "+260",
		ISOCode:          "ZM",
		Operator:         "airtel",
		PrefixType:       PrefixOld,
		Prefix:           "097",
		NormalizedNumber: "0971234567",
	}, res)
}

func TestClassifyNoMatch(t *testing.T) {
	assert.Equal(t, Result{NormalizedNumber: "123456789"}, Classify("123456789"))
}

func TestClassifyTooShort(t *testing.T) {
	res := Classify("+0 9")
	assert.False(t, res.IsValid)
	assert.Equal(t, "09", res.NormalizedNumber)
	assert.Empty(t, res.ISOCode)
}

func TestClassifyTraversalOrder(t *testing.T) {
	cases := []struct {
		number   string
		iso      string
		operator string
		kind     PrefixType
		prefix   string
	}{
		// 095 is listed for both mtn (old) and zamtel (mobile); mtn comes first.
		{"0955123456", "ZM", "mtn", PrefixOld, "095"},
		{"0571234567", "ZM", "airtel", PrefixNew, "057"},
		{"0211234567", "ZM", "zamtel", PrefixLandline, "0211"},
		// 077 matches Zambian airtel before Ugandan mtn.
		{"0771234567", "ZM", "airtel", PrefixOld, "077"},
		{"0741234567", "UG", "airtel", PrefixNew, "074"},
		{"0733123456", "KE", "airtel", PrefixOld, "0733"},
		{"0101123456", "KE", "airtel", PrefixNew, "0101"},
		{"0241234567", "GH", "mtn", PrefixOld, "024"},
	}
	for _, tc := range cases {
		t.Run(tc.number, func(t *testing.T) {
			res := Classify(tc.number)
			require.True(t, res.IsValid)
			assert.Equal(t, tc.iso, res.ISOCode)
			assert.Equal(t, tc.operator, res.Operator)
			assert.Equal(t, tc.kind, res.PrefixType)
			assert.Equal(t, tc.prefix, res.Prefix)
		})
	}
}

func TestClassifyStripsDialingCode(t *testing.T) {
	table := Table{{
		Name:        "Testland",
		CountryCode: "+999",
		ISOCode:     "TL",
		Operators:   []Operator{{Name: "tel", Prefixes: Prefixes{New: []string{"55"}}}},
	}}
	res := ClassifyWith("+999 55 123", table)
	require.True(t, res.IsValid)
	assert.Equal(t, "55", res.Prefix)
	assert.Equal(t, "99955123", res.NormalizedNumber)

	assert.False(t, ClassifyWith("+999 66 123", table).IsValid)
}

func TestClassifyEmptyCategoriesNeverMatch(t *testing.T) {
	table := Table{{
		Name:        "Emptyland",
		CountryCode: "+1",
		ISOCode:     "EL",
		Operators:   []Operator{{Name: "none", Prefixes: Prefixes{Old: []string{}}}},
	}}
	assert.False(t, ClassifyWith("0123456", table).IsValid)
}

func TestClassifyIdempotentUnderNormalization(t *testing.T) {
	for _, raw := range []string{"097-123-4567", "(0955) 123 456", "+233 024 123 4567", "123456789"} {
		assert.Equal(t, Classify(raw), Classify(Normalize(raw)), raw)
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "+260 0971234567", Format("097 123 4567", true))
	assert.Equal(t, "0971234567", Format("097 123 4567", false))
	assert.Equal(t, "not a number", Format("not a number", true))
}

func TestFormatRoundTripKeepsDigits(t *testing.T) {
	for _, raw := range []string{"097-123-4567", "0733 123 456", "(024) 123-4567"} {
		normalized := Normalize(raw)
		formatted := Format(normalized, true)
		assert.True(t, strings.Contains(formatted, normalized), "%q not in %q", normalized, formatted)
	}
}

func TestValidateForCountry(t *testing.T) {
	assert.True(t, ValidateForCountry("0971234567", "ZM"))
	assert.False(t, ValidateForCountry("0971234567", "KE"))
	assert.False(t, ValidateForCountry("123", "ZM"))
}

func TestOperators(t *testing.T) {
	assert.Equal(t, []string{"airtel", "mtn", "zamtel"}, Operators("ZM"))
	assert.Equal(t, []string{"mtn"}, Operators("GH"))

	unknown := Operators("XX")
	assert.NotNil(t, unknown)
	assert.Empty(t, unknown)
}

func TestOperatorPrefixes(t *testing.T) {
	p, ok := OperatorPrefixes("ZM", "zamtel")
	require.True(t, ok)
	assert.Equal(t, []string{"095"}, p.Mobile)
	assert.Len(t, p.Landline, 8)

	_, ok = OperatorPrefixes("ZM", "vodafone")
	assert.False(t, ok)
	_, ok = OperatorPrefixes("XX", "mtn")
	assert.False(t, ok)
}

func TestCountriesOrder(t *testing.T) {
	var isos []string
	for _, c := range Countries() {
		isos = append(isos, c.ISOCode)
	}
	assert.Equal(t, []string{"ZM", "KE", "UG", "GH"}, isos)
}

func TestLookupsDoNotExposeTable(t *testing.T) {
	countries := Countries()
	countries[0].Operators[0].Prefixes.Old[0] = "999"
	p, ok := OperatorPrefixes("ZM", "mtn")
	require.True(t, ok)
	p.New[0] = "999"

	res := Classify("0971234567")
	assert.True(t, res.IsValid)
	assert.Equal(t, "airtel", res.Operator)
	assert.Equal(t, "097", res.Prefix)
	assert.False(t, Classify("0991234567").IsValid)

	p, _ = OperatorPrefixes("ZM", "mtn")
	assert.Equal(t, []string{"076"}, p.New)
}
