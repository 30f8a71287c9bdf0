package section

import "github.com/google/jsonschema-go/jsonschema"

// MarketCompetition is the parsed output of the market_competition section.
type MarketCompetition struct {
	Score        int      `json:"score"`
	Position     string   `json:"position"`
	Competitors  []string `json:"competitors"`
	ShareOfVoice string   `json:"shareOfVoice"`
	Reasoning    string   `json:"reasoning"`
}

// MarketCompetitionSection evaluates competitive positioning and share of
// voice in AI-generated answers.
var MarketCompetitionSection = MustDefine[MarketCompetition](
	"market_competition",
	"Market Competition",
	templatePrompt("market_competition"),
	objectSchema(map[string]*jsonschema.Schema{
		"score":        scoreSchema("market score"),
		"position":     enumSchema("market position", "leader", "challenger", "niche", "emerging"),
		"competitors":  stringListSchema("key competitors"),
		"shareOfVoice": textSchema("share of voice relative to competitors"),
		"reasoning":    textSchema("competitive positioning rationale"),
	}, "score", "position", "competitors", "shareOfVoice", "reasoning"),
	Field{Key: "score", Label: "Market Score", Kind: FieldProgress, Max: maxScore},
	Field{Key: "position", Label: "Market Position", Kind: FieldText},
	Field{Key: "shareOfVoice", Label: "Share of Voice", Kind: FieldText},
	Field{Key: "competitors", Label: "Key Competitors", Kind: FieldList},
	Field{Key: "reasoning", Label: "Strategic Analysis", Kind: FieldText},
)
