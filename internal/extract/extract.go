package extract

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrEmpty is returned for zero-length payloads.
var ErrEmpty = errors.New("empty pdf data")

// Info summarizes a PDF document.
type Info struct {
	Pages int
	Text  string
}

// PageCount returns the number of pages in a PDF payload.
func PageCount(data []byte) (int, error) {
	r, err := open(data)
	if err != nil {
		return 0, err
	}
	return r.NumPage(), nil
}

// Text extracts the plain text of every page.
func Text(data []byte) (string, error) {
	r, err := open(data)
	if err != nil {
		return "", err
	}
	return plainText(r)
}

// Inspect returns page count and text in one pass over the document.
func Inspect(data []byte) (Info, error) {
	r, err := open(data)
	if err != nil {
		return Info{}, err
	}
	text, err := plainText(r)
	if err != nil {
		return Info{}, err
	}
	return Info{Pages: r.NumPage(), Text: text}, nil
}

func open(data []byte) (*pdf.Reader, error) {
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	return r, nil
}

func plainText(r *pdf.Reader) (string, error) {
	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}
