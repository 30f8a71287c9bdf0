package section

import "github.com/google/jsonschema-go/jsonschema"

// OpportunitiesThreats is the parsed output of the opportunities_threats section.
type OpportunitiesThreats struct {
	Opportunities []Point `json:"opportunities"`
	Threats       []Point `json:"threats"`
	Outlook       string  `json:"outlook"`
}

// OpportunitiesThreatsSection projects forward-looking opportunities and threats.
var OpportunitiesThreatsSection = MustDefine[OpportunitiesThreats](
	"opportunities_threats",
	"Opportunities & Threats",
	templatePrompt("opportunities_threats"),
	objectSchema(map[string]*jsonschema.Schema{
		"opportunities": pointListSchema("forward-looking opportunities"),
		"threats":       pointListSchema("forward-looking threats"),
		"outlook":       textSchema("strategic outlook"),
	}, "opportunities", "threats", "outlook"),
	Field{Key: "outlook", Label: "Strategic Outlook", Kind: FieldText},
	Field{Key: "opportunities", Label: "Opportunities", Kind: FieldComplexList},
	Field{Key: "threats", Label: "Threats", Kind: FieldComplexList},
)
