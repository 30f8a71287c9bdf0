package section

import "github.com/google/jsonschema-go/jsonschema"

// Schema building blocks shared by the built-in sections. Scores are integers
// on a 1-10 scale; enumerations are closed sets of lowercase strings.

const (
	minScore = 1
	maxScore = 10
)

func objectSchema(props map[string]*jsonschema.Schema, order ...string) *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:          "object",
		Properties:    props,
		Required:      order,
		PropertyOrder: order,
	}
}

func scoreSchema(desc string) *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "integer",
		Description: desc,
		Minimum:     jsonschema.Ptr(float64(minScore)),
		Maximum:     jsonschema.Ptr(float64(maxScore)),
	}
}

func textSchema(desc string) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "string", Description: desc}
}

func enumSchema(desc string, values ...string) *jsonschema.Schema {
	enum := make([]any, len(values))
	for i, v := range values {
		enum[i] = v
	}
	return &jsonschema.Schema{Type: "string", Description: desc, Enum: enum}
}

func stringListSchema(desc string) *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "array",
		Description: desc,
		Items:       &jsonschema.Schema{Type: "string"},
	}
}

func pointListSchema(desc string) *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "array",
		Description: desc,
		Items: objectSchema(map[string]*jsonschema.Schema{
			"point":       {Type: "string"},
			"explanation": {Type: "string"},
		}, "point", "explanation"),
	}
}
