package section

import "github.com/google/jsonschema-go/jsonschema"

// BrandRecognition is the parsed output of the brand_recognition section.
type BrandRecognition struct {
	Score      int      `json:"score"`
	Visibility string   `json:"visibility"`
	Reasoning  string   `json:"reasoning"`
	KeyFactors []string `json:"keyFactors"`
}

// BrandRecognitionSection evaluates how visible and recognizable a brand is
// to AI answer engines.
var BrandRecognitionSection = MustDefine[BrandRecognition](
	"brand_recognition",
	"Brand Recognition",
	templatePrompt("brand_recognition"),
	objectSchema(map[string]*jsonschema.Schema{
		"score":      scoreSchema("recognition score"),
		"visibility": enumSchema("visibility level", "high", "medium", "low"),
		"reasoning":  textSchema("how AI systems perceive the brand's recognition"),
		"keyFactors": stringListSchema("factors driving recognition"),
	}, "score", "visibility", "reasoning", "keyFactors"),
	Field{Key: "score", Label: "Recognition Score", Kind: FieldProgress, Max: maxScore},
	Field{Key: "visibility", Label: "Visibility", Kind: FieldText},
	Field{Key: "keyFactors", Label: "Key Factors", Kind: FieldList},
	Field{Key: "reasoning", Label: "AI Analysis", Kind: FieldText},
)
