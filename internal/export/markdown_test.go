package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dusk-indust/aeosnap/internal/section"
	"github.com/dusk-indust/aeosnap/internal/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseGolden(t *testing.T, sec section.Section, name string) any {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "..", "testdata", "responses", name))
	require.NoError(t, err)
	v, err := sec.Parse(string(data))
	require.NoError(t, err)
	return v
}

func acme(t *testing.T) snapshot.Snapshot {
	t.Helper()
	return snapshot.Snapshot{
		Subject:     "Acme Corp",
		Model:       "openai/gpt-4o-mini",
		GeneratedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Sections: map[string]snapshot.Result{
			"sentiment":            snapshot.Success(parseGolden(t, section.SentimentSection, "sentiment.json")),
			"strengths_weaknesses": snapshot.Success(parseGolden(t, section.StrengthsWeaknessesSection, "strengths_weaknesses.json")),
			"market_competition":   snapshot.Failure("generate: boom"),
			"brand_recognition":    snapshot.Success(parseGolden(t, section.BrandRecognitionSection, "brand_recognition.json")),
		},
	}
}

func TestMarkdown_Layout(t *testing.T) {
	out, err := Markdown(section.Default(), []snapshot.Snapshot{acme(t)})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "# Acme Corp\n"))
	assert.Contains(t, out, "_Model: openai/gpt-4o-mini. Generated 2026-01-02T03:04:05Z._")

	assert.Contains(t, out, "## Sentiment Analysis")
	assert.Contains(t, out, "**Sentiment Score:** ██████░░░░ 6/10")
	assert.Contains(t, out, "**Overall Sentiment:** mixed")
	assert.Contains(t, out, "- Product durability\n")
	assert.Contains(t, out, "- **Brand heritage**: Decades of presence make the name familiar.")
	assert.Contains(t, out, "> **Failed:** generate: boom")

	// registry order, not map order
	recog := strings.Index(out, "## "+section.BrandRecognitionSection.Title())
	market := strings.Index(out, "## "+section.MarketCompetitionSection.Title())
	sent := strings.Index(out, "## Sentiment Analysis")
	require.True(t, recog >= 0 && market >= 0 && sent >= 0)
	assert.Less(t, recog, market)
	assert.Less(t, market, sent)
}

func TestMarkdown_DecodedData(t *testing.T) {
	// Data decoded from JSON by an API client arrives as generic maps.
	snap := snapshot.Snapshot{
		Subject: "Acme",
		Sections: map[string]snapshot.Result{
			"sentiment": snapshot.Success(map[string]any{
				"score":           float64(8),
				"overall":         "positive",
				"positiveDrivers": []any{"Quality"},
				"negativeDrivers": []any{},
				"reasoning":       "Well liked.",
			}),
		},
	}

	out, err := Markdown(section.Default(), []snapshot.Snapshot{snap})
	require.NoError(t, err)
	assert.Contains(t, out, "**Sentiment Score:** ████████░░ 8/10")
	assert.Contains(t, out, "- Quality\n")
}

func TestMarkdown_UnknownSection(t *testing.T) {
	snap := snapshot.Snapshot{
		Subject: "Acme",
		Sections: map[string]snapshot.Result{
			"custom": snapshot.Success(map[string]any{"note": "hi"}),
		},
	}

	out, err := Markdown(section.Default(), []snapshot.Snapshot{snap})
	require.NoError(t, err)
	assert.Contains(t, out, "## custom")
	assert.Contains(t, out, "```json\n{\n  \"note\": \"hi\"\n}\n```")
}

func TestMarkdown_EmptyAndMultiple(t *testing.T) {
	snaps := []snapshot.Snapshot{
		{Subject: "Acme", Model: "a/one"},
		{Subject: "Acme", Model: "b/two"},
	}

	out, err := Markdown(section.Default(), snaps)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, "No sections were generated."))
	assert.Equal(t, 1, strings.Count(out, "\n---\n"))
}

func TestBar(t *testing.T) {
	assert.Equal(t, "░░░░░░░░░░", bar(0, 10))
	assert.Equal(t, "██████████", bar(10, 10))
	assert.Equal(t, "██████████", bar(12, 10))
	assert.Equal(t, "░░░░░░░░░░", bar(-1, 10))
	assert.Equal(t, "", bar(5, 0))
}
