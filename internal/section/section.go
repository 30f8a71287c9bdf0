// Package section defines the independently-executable analysis units that
// make up a snapshot, together with the ordered registry that resolves a
// caller's selection into the sections to run.
package section

import (
	"github.com/google/jsonschema-go/jsonschema"
)

// Section is the interface that every analysis unit implements. A Section is
// immutable once constructed and safe for concurrent use.
type Section interface {
	// ID returns the stable, unique key of the section (e.g. "sentiment").
	ID() string

	// Title returns the human-readable display name.
	Title() string

	// Prompt builds a self-contained prompt for the given subject. It is a
	// pure function of its input.
	Prompt(subject string) string

	// Schema returns the JSON schema the backend output must satisfy.
	Schema() *jsonschema.Schema

	// Parse validates raw backend text against the schema and decodes it
	// into the section's typed data.
	Parse(text string) (any, error)

	// Fields returns display metadata for the section's output fields.
	Fields() []Field
}

// FieldKind describes how a field of a section's output is presented.
type FieldKind string

const (
	FieldText        FieldKind = "text"
	FieldProgress    FieldKind = "progress"
	FieldList        FieldKind = "list"
	FieldComplexList FieldKind = "complex_list"
)

// Field is display metadata for one output field. The engine never reads it.
type Field struct {
	Key   string    `json:"key"`
	Label string    `json:"label"`
	Kind  FieldKind `json:"kind"`
	Max   int       `json:"max,omitempty"`
}

// Point is a claim with its supporting explanation, used by the list fields
// of SWOT-style sections.
type Point struct {
	Point       string `json:"point"`
	Explanation string `json:"explanation"`
}
