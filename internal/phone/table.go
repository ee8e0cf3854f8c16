package phone

import "slices"

// PrefixType names a prefix category.
type PrefixType string

const (
	PrefixOld      PrefixType = "old"
	PrefixNew      PrefixType = "new"
	PrefixMobile   PrefixType = "mobile"
	PrefixLandline PrefixType = "landline"
)

// Prefixes holds an operator's prefix lists. Any list may be empty.
type Prefixes struct {
	Old      []string `json:"old,omitempty"`
	New      []string `json:"new,omitempty"`
	Mobile   []string `json:"mobile,omitempty"`
	Landline []string `json:"landline,omitempty"`
}

// categories returns the lists in match priority order.
func (p Prefixes) categories() [4]category {
	return [4]category{
		{PrefixOld, p.Old},
		{PrefixNew, p.New},
		{PrefixMobile, p.Mobile},
		{PrefixLandline, p.Landline},
	}
}

func (p Prefixes) clone() Prefixes {
	return Prefixes{
		Old:      slices.Clone(p.Old),
		New:      slices.Clone(p.New),
		Mobile:   slices.Clone(p.Mobile),
		Landline: slices.Clone(p.Landline),
	}
}

type category struct {
	kind     PrefixType
	prefixes []string
}

// Operator is a network operator within a country.
type Operator struct {
	Name     string   `json:"name"`
	Prefixes Prefixes `json:"prefixes"`
}

// Country is one entry of the prefix table.
type Country struct {
	Name        string     `json:"country"`
	CountryCode string     `json:"countryCode"`
	ISOCode     string     `json:"isoCode"`
	Operators   []Operator `json:"operators"`
}

// Table is an ordered prefix table. Order decides which match wins.
type Table []Country

// defaultTable is the built-in table of supported countries. It is never
// handed out directly; see Countries.
var defaultTable = Table{
	{
		Name:        "Zambia",
		CountryCode: "+260",
		ISOCode:     "ZM",
		Operators: []Operator{
			{Name: "airtel", Prefixes: Prefixes{
				Old: []string{"097", "077"},
				New: []string{"057"},
			}},
			{Name: "mtn", Prefixes: Prefixes{
				Old: []string{"095", "096", "078", "079"},
				New: []string{"076"},
			}},
			{Name: "zamtel", Prefixes: Prefixes{
				Mobile:   []string{"095"},
				Landline: []string{"0211", "0212", "0213", "0214", "0215", "0216", "0217", "0218"},
			}},
		},
	},
	{
		Name:        "Kenya",
		CountryCode: "+254",
		ISOCode:     "KE",
		Operators: []Operator{
			{Name: "airtel", Prefixes: Prefixes{
				Old: []string{
					"0730", "0731", "0732", "0733", "0734", "0735", "0736", "0737", "0738", "0739",
					"0750", "0751", "0752", "0753", "0754", "0755", "0756",
				},
				New: []string{"0100", "0101", "0102"},
			}},
		},
	},
	{
		Name:        "Uganda",
		CountryCode: "+256",
		ISOCode:     "UG",
		Operators: []Operator{
			{Name: "airtel", Prefixes: Prefixes{
				Old: []string{},
				New: []string{"074"},
			}},
			{Name: "mtn", Prefixes: Prefixes{
				Old: []string{"077", "078"},
				New: []string{"076"},
			}},
		},
	},
	{
		Name:        "Ghana",
		CountryCode: "+233",
		ISOCode:     "GH",
		Operators: []Operator{
			{Name: "mtn", Prefixes: Prefixes{
				Old: []string{"024", "025", "053", "054", "055", "059"},
				New: []string{},
			}},
		},
	},
}

// Country looks up a country by ISO code.
func (t Table) Country(iso string) (Country, bool) {
	for _, c := range t {
		if c.ISOCode == iso {
			return c, true
		}
	}
	return Country{}, false
}

func (t Table) clone() Table {
	out := make(Table, len(t))
	for i, c := range t {
		ops := make([]Operator, len(c.Operators))
		for j, op := range c.Operators {
			ops[j] = Operator{Name: op.Name, Prefixes: op.Prefixes.clone()}
		}
		c.Operators = ops
		out[i] = c
	}
	return out
}
