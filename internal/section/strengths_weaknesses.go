package section

import "github.com/google/jsonschema-go/jsonschema"

// StrengthsWeaknesses is the parsed output of the strengths_weaknesses section.
type StrengthsWeaknesses struct {
	Strengths  []Point `json:"strengths"`
	Weaknesses []Point `json:"weaknesses"`
	Summary    string  `json:"summary"`
}

// StrengthsWeaknessesSection lists perceived strengths and weaknesses.
var StrengthsWeaknessesSection = MustDefine[StrengthsWeaknesses](
	"strengths_weaknesses",
	"Strengths & Weaknesses",
	templatePrompt("strengths_weaknesses"),
	objectSchema(map[string]*jsonschema.Schema{
		"strengths":  pointListSchema("perceived strengths"),
		"weaknesses": pointListSchema("perceived weaknesses"),
		"summary":    textSchema("overall assessment"),
	}, "strengths", "weaknesses", "summary"),
	Field{Key: "summary", Label: "Executive Summary", Kind: FieldText},
	Field{Key: "strengths", Label: "Key Strengths", Kind: FieldComplexList},
	Field{Key: "weaknesses", Label: "Areas for Improvement", Kind: FieldComplexList},
)
