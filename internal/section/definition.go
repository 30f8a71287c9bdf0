package section

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
)

// Compile-time interface check.
var _ Section = (*Definition[Point])(nil)

var (
	// ErrEmptyOutput is returned when the backend produced no text at all.
	ErrEmptyOutput = errors.New("empty backend output")

	// ErrMalformedJSON is returned when backend text is not a JSON document.
	ErrMalformedJSON = errors.New("backend output is not valid JSON")
)

// ValidationError reports backend output that is valid JSON but does not
// conform to the section's schema.
type ValidationError struct {
	Section string
	Err     error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("section %s: output does not match schema: %v", e.Section, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// PromptFunc builds a prompt for a subject.
type PromptFunc func(subject string) string

// Definition is a Section whose parsed data has the Go type T. The schema is
// resolved once at construction so an invalid schema is a startup error.
type Definition[T any] struct {
	id       string
	title    string
	prompt   PromptFunc
	schema   *jsonschema.Schema
	resolved *jsonschema.Resolved
	fields   []Field
}

// Define builds a Definition. It fails if the id is empty, the prompt is nil
// or the schema cannot be resolved.
func Define[T any](id, title string, prompt PromptFunc, schema *jsonschema.Schema, fields ...Field) (*Definition[T], error) {
	if strings.TrimSpace(id) == "" {
		return nil, errors.New("section: id is required")
	}
	if prompt == nil {
		return nil, fmt.Errorf("section: prompt is required for %s", id)
	}
	if schema == nil {
		return nil, fmt.Errorf("section: schema is required for %s", id)
	}
	resolved, err := schema.Resolve(nil)
	if err != nil {
		return nil, fmt.Errorf("section: resolve schema for %s: %w", id, err)
	}
	return &Definition[T]{
		id:       id,
		title:    title,
		prompt:   prompt,
		schema:   schema,
		resolved: resolved,
		fields:   fields,
	}, nil
}

// MustDefine is like Define but panics on error. It is meant for package-level
// section declarations.
func MustDefine[T any](id, title string, prompt PromptFunc, schema *jsonschema.Schema, fields ...Field) *Definition[T] {
	d, err := Define[T](id, title, prompt, schema, fields...)
	if err != nil {
		panic(err)
	}
	return d
}

func (d *Definition[T]) ID() string                   { return d.id }
func (d *Definition[T]) Title() string                { return d.title }
func (d *Definition[T]) Prompt(subject string) string { return d.prompt(subject) }
func (d *Definition[T]) Schema() *jsonschema.Schema   { return d.schema }

// Fields returns a copy of the display metadata.
func (d *Definition[T]) Fields() []Field {
	out := make([]Field, len(d.fields))
	copy(out, d.fields)
	return out
}

// Parse implements Section. The returned value has dynamic type T.
func (d *Definition[T]) Parse(text string) (any, error) {
	v, err := d.Decode(text)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Decode validates text against the schema and decodes it into T.
//
// The document is decoded generically first, validated, then re-encoded and
// decoded into T, so that values like 7.0 reach integer fields as 7.
func (d *Definition[T]) Decode(text string) (T, error) {
	var zero T

	raw := extractJSON(text)
	if raw == "" {
		return zero, ErrEmptyOutput
	}

	var doc any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}
	if err := d.resolved.Validate(doc); err != nil {
		return zero, &ValidationError{Section: d.id, Err: err}
	}

	normalized, err := json.Marshal(doc)
	if err != nil {
		return zero, fmt.Errorf("section %s: re-encode output: %w", d.id, err)
	}
	var out T
	if err := json.Unmarshal(normalized, &out); err != nil {
		return zero, fmt.Errorf("section %s: decode output: %w", d.id, err)
	}
	return out, nil
}

// extractJSON trims whitespace and a surrounding markdown code fence, which
// models emit despite being asked not to.
func extractJSON(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		// Drop the info string ("json", "JSON", ...).
		s = s[nl+1:]
	} else {
		s = ""
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
