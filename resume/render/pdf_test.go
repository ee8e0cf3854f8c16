package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mikemtdev/career-lift/internal/extract"
	"github.com/mikemtdev/career-lift/resume/model"
)

func sampleCV() model.CV {
	return model.CV{
		PersonalInfo: model.PersonalInfo{
			FullName: "Ada Lovelace",
			Email:    "ada@example.com",
			Phone:    "0971234567",
			Address:  "Lusaka",
			Summary:  "Analytical engineer with a taste for engines.",
		},
		Education: []model.Education{
			{Institution: "University of Zambia", Degree: "BSc", Field: "Mathematics", StartDate: "2015", EndDate: "2019"},
		},
		Experience: []model.Experience{
			{Company: "Acme", Position: "Engineer", StartDate: "2020", Current: true, Description: "Built things."},
		},
		Skills: []string{"Go", "go", "SQL"},
	}
}

func TestPDFProducesReadableDocument(t *testing.T) {
	data, err := PDF("Software Engineer", sampleCV())
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Fatalf("expected pdf header, got %q", data[:8])
	}

	text, err := extract.Text(data)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	flat := strings.Join(strings.Fields(text), "")
	for _, want := range []string{"SoftwareEngineer", "PersonalInformation", "AdaLovelace", "BScinMathematics", "EngineeratAcme", "2020-Present", "Go,SQL"} {
		if !strings.Contains(flat, want) {
			t.Fatalf("expected %q in rendered text %q", want, text)
		}
	}
}

func TestPDFRequiresTitle(t *testing.T) {
	if _, err := PDF("   ", sampleCV()); err == nil {
		t.Fatal("expected error for blank title")
	}
}

func TestPDFOmitsEmptySections(t *testing.T) {
	data, err := PDF("Minimal", model.CV{PersonalInfo: model.PersonalInfo{FullName: "Solo"}})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	text, err := extract.Text(data)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if strings.Contains(text, "Education") || strings.Contains(text, "Skills") {
		t.Fatalf("expected empty sections to be omitted, got %q", text)
	}
}

func TestDateRange(t *testing.T) {
	cases := []struct {
		start, end string
		current    bool
		want       string
	}{
		{"2018", "2022", false, "2018 - 2022"},
		{"2018", "", false, "2018 - Present"},
		{"2018", "2022", true, "2018 - Present"},
		{"", "", false, "Present"},
	}
	for _, tc := range cases {
		if got := dateRange(tc.start, tc.end, tc.current); got != tc.want {
			t.Fatalf("dateRange(%q,%q,%v)=%q want %q", tc.start, tc.end, tc.current, got, tc.want)
		}
	}
}
