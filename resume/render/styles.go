package render

// TextStyle captures font settings for a layout element.
type TextStyle struct {
	Family string
	Style  string
	Size   float64
	Color  [3]int
}

const (
	pageMarginMM = 18.0
	lineHeightMM = 5.5
)

// StyleMap centralizes the formatting for key CV elements.
var StyleMap = map[string]TextStyle{
	"title": {
		Family: "Helvetica",
		Style:  "B",
		Size:   24,
		Color:  [3]int{17, 17, 17},
	},
	"sectionHeading": {
		Family: "Helvetica",
		Style:  "B",
		Size:   16,
		Color:  [3]int{31, 41, 55},
	},
	"entryTitle": {
		Family: "Helvetica",
		Style:  "B",
		Size:   12,
		Color:  [3]int{17, 17, 17},
	},
	"body": {
		Family: "Helvetica",
		Size:   11,
		Color:  [3]int{17, 17, 17},
	},
	"meta": {
		Family: "Helvetica",
		Style:  "I",
		Size:   10,
		Color:  [3]int{75, 85, 99},
	},
}
