package mcptools

import (
	"github.com/dusk-indust/aeosnap/internal/section"
	"github.com/dusk-indust/aeosnap/internal/snapshot"
)

// GenerateSnapshotInput is the input for the generate_snapshot MCP tool.
type GenerateSnapshotInput struct {
	Subject  string   `json:"subject" jsonschema:"name of the brand or entity to analyze"`
	Sections []string `json:"sections,omitempty" jsonschema:"section ids to run (default: all)"`
	Model    string   `json:"model,omitempty" jsonschema:"model id, e.g. gpt-4o-mini or anthropic/claude-sonnet-4 (default: server default)"`
	Models   []string `json:"models,omitempty" jsonschema:"several model ids; one snapshot is produced per model"`
}

// GenerateSnapshotOutput is the result of the generate_snapshot MCP tool.
type GenerateSnapshotOutput struct {
	Snapshots []snapshot.Snapshot `json:"snapshots"`
}

// ListSectionsInput is the input for the list_sections MCP tool.
type ListSectionsInput struct{}

// ListSectionsOutput is the result of the list_sections MCP tool.
type ListSectionsOutput struct {
	Sections []SectionSummary `json:"sections"`
}

// SectionSummary is a brief overview of one registered section.
type SectionSummary struct {
	ID     string          `json:"id"`
	Title  string          `json:"title"`
	Fields []section.Field `json:"fields"`
}
