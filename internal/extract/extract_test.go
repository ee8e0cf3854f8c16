package extract

import (
	"errors"
	"strings"
	"testing"

	"github.com/mikemtdev/career-lift/resume/model"
	"github.com/mikemtdev/career-lift/resume/render"
)

func TestInspectRenderedCV(t *testing.T) {
	data, err := render.PDF("Data Analyst", model.CV{
		PersonalInfo: model.PersonalInfo{FullName: "Grace Hopper", Email: "grace@example.com", Phone: "0961234567"},
		Skills:       []string{"COBOL", "Compilers"},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	info, err := Inspect(data)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if info.Pages != 1 {
		t.Fatalf("expected 1 page, got %d", info.Pages)
	}
	if !strings.Contains(squash(info.Text), "GraceHopper") {
		t.Fatalf("expected name in text, got %q", info.Text)
	}

	pages, err := PageCount(data)
	if err != nil || pages != info.Pages {
		t.Fatalf("PageCount mismatch: %d %v", pages, err)
	}
}

func TestOpenRejectsEmptyAndGarbage(t *testing.T) {
	if _, err := PageCount(nil); !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
	if _, err := Text([]byte("not a pdf")); err == nil {
		t.Fatal("expected error for non-pdf payload")
	}
}

func squash(s string) string {
	return strings.Join(strings.Fields(s), "")
}
