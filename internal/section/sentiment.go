package section

import "github.com/google/jsonschema-go/jsonschema"

// Sentiment is the parsed output of the sentiment section.
type Sentiment struct {
	Score           int      `json:"score"`
	Overall         string   `json:"overall"`
	PositiveDrivers []string `json:"positiveDrivers"`
	NegativeDrivers []string `json:"negativeDrivers"`
	Reasoning       string   `json:"reasoning"`
}

// SentimentSection evaluates overall sentiment and its drivers.
var SentimentSection = MustDefine[Sentiment](
	"sentiment",
	"Sentiment Analysis",
	templatePrompt("sentiment"),
	objectSchema(map[string]*jsonschema.Schema{
		"score":           scoreSchema("sentiment score"),
		"overall":         enumSchema("overall sentiment", "positive", "neutral", "mixed", "negative"),
		"positiveDrivers": stringListSchema("positive sentiment drivers"),
		"negativeDrivers": stringListSchema("negative sentiment drivers"),
		"reasoning":       textSchema("sentiment assessment rationale"),
	}, "score", "overall", "positiveDrivers", "negativeDrivers", "reasoning"),
	Field{Key: "score", Label: "Sentiment Score", Kind: FieldProgress, Max: maxScore},
	Field{Key: "overall", Label: "Overall Sentiment", Kind: FieldText},
	Field{Key: "positiveDrivers", Label: "Positive Drivers", Kind: FieldList},
	Field{Key: "negativeDrivers", Label: "Negative Drivers", Kind: FieldList},
	Field{Key: "reasoning", Label: "Contextual Analysis", Kind: FieldText},
)
