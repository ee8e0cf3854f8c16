package contract

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/mikemtdev/career-lift/resume/model"
)

//go:embed cv.schema.json
var cvSchemaJSON []byte

var (
	schemaOnce sync.Once
	cvSchema   *gojsonschema.Schema
	schemaErr  error
)

// FieldError is a single schema violation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every violation found in a document.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "invalid cv document: " + strings.Join(parts, "; ")
}

// ErrMalformed is returned when the payload is not a JSON object.
var ErrMalformed = errors.New("cv document must be a JSON object")

func loadSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		cvSchema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(cvSchemaJSON))
		if schemaErr != nil {
			schemaErr = fmt.Errorf("load cv schema: %w", schemaErr)
		}
	})
	return cvSchema, schemaErr
}

// Validate checks raw JSON against the CV document schema.
func Validate(raw []byte) error {
	schema, err := loadSchema()
	if err != nil {
		return err
	}
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed[0] != '{' {
		return ErrMalformed
	}
	result, err := schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return ErrMalformed
	}
	if result.Valid() {
		return nil
	}
	fields := make([]FieldError, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		fields = append(fields, FieldError{Field: desc.Field(), Message: desc.Description()})
	}
	sort.SliceStable(fields, func(i, j int) bool { return fields[i].Field < fields[j].Field })
	return &ValidationError{Fields: fields}
}

// Decode validates raw JSON and decodes it into a Document.
func Decode(raw []byte) (model.Document, error) {
	if err := Validate(raw); err != nil {
		return model.Document{}, err
	}
	var doc model.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return model.Document{}, fmt.Errorf("decode cv document: %w", err)
	}
	doc.CV = doc.CV.Normalized()
	return doc, nil
}
