package render

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/mikemtdev/career-lift/resume/model"
	"github.com/mikemtdev/career-lift/resume/skills"
)

// ContentType is the MIME type of rendered CVs.
const ContentType = "application/pdf"

// PDF renders a titled CV to an A4 document.
func PDF(title string, cv model.CV) ([]byte, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.New("title is required")
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMarginMM, pageMarginMM, pageMarginMM)
	pdf.SetAutoPageBreak(true, pageMarginMM)
	pdf.SetTitle(title, true)
	pdf.SetCreator("career-lift", true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	w := &writer{pdf: pdf, tr: tr}
	pdf.AddPage()

	w.apply("title")
	pdf.CellFormat(0, 12, tr(title), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	w.personalInfo(cv.PersonalInfo)
	if len(cv.Education) > 0 {
		w.education(cv.Education)
	}
	if len(cv.Experience) > 0 {
		w.experience(cv.Experience)
	}
	if line := skills.Line(cv.Skills); line != "" {
		w.heading("Skills")
		w.apply("body")
		w.paragraph(line)
	}

	if pdf.Err() {
		return nil, fmt.Errorf("render pdf: %w", pdf.Error())
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

type writer struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func (w *writer) apply(name string) {
	style := StyleMap[name]
	w.pdf.SetFont(style.Family, style.Style, style.Size)
	w.pdf.SetTextColor(style.Color[0], style.Color[1], style.Color[2])
}

func (w *writer) heading(text string) {
	w.pdf.Ln(3)
	w.apply("sectionHeading")
	w.pdf.CellFormat(0, 9, w.tr(text), "B", 1, "L", false, 0, "")
	w.pdf.Ln(2)
}

func (w *writer) paragraph(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	w.pdf.MultiCell(0, lineHeightMM, w.tr(text), "", "L", false)
}

func (w *writer) personalInfo(info model.PersonalInfo) {
	w.heading("Personal Information")
	w.apply("body")
	w.labelled("Name", info.FullName)
	w.labelled("Email", info.Email)
	w.labelled("Phone", info.Phone)
	w.labelled("Address", info.Address)
	if summary := strings.TrimSpace(info.Summary); summary != "" {
		w.pdf.Ln(2)
		w.paragraph(summary)
	}
}

func (w *writer) labelled(label, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	w.paragraph(label + ": " + value)
}

func (w *writer) education(entries []model.Education) {
	w.heading("Education")
	for i, edu := range entries {
		if i > 0 {
			w.pdf.Ln(3)
		}
		w.apply("entryTitle")
		w.paragraph(joinNonEmpty(" in ", edu.Degree, edu.Field))
		w.apply("body")
		w.paragraph(edu.Institution)
		w.apply("meta")
		w.paragraph(dateRange(edu.StartDate, edu.EndDate, false))
		w.apply("body")
		w.paragraph(edu.Description)
	}
}

func (w *writer) experience(entries []model.Experience) {
	w.heading("Experience")
	for i, exp := range entries {
		if i > 0 {
			w.pdf.Ln(3)
		}
		w.apply("entryTitle")
		w.paragraph(joinNonEmpty(" at ", exp.Position, exp.Company))
		w.apply("meta")
		w.paragraph(dateRange(exp.StartDate, exp.EndDate, exp.Ongoing()))
		w.apply("body")
		w.paragraph(exp.Description)
	}
}

func dateRange(start, end string, current bool) string {
	start = strings.TrimSpace(start)
	end = strings.TrimSpace(end)
	if current || end == "" {
		end = "Present"
	}
	if start == "" {
		return end
	}
	return start + " - " + end
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
