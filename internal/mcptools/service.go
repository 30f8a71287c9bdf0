package mcptools

import (
	"context"
	"fmt"

	"github.com/dusk-indust/aeosnap/internal/api"
	"github.com/dusk-indust/aeosnap/internal/snapshot"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SnapshotService handles MCP tool calls by delegating to an Orchestrator.
type SnapshotService struct {
	orch *snapshot.Orchestrator
}

// NewSnapshotService creates a SnapshotService over orch.
func NewSnapshotService(orch *snapshot.Orchestrator) *SnapshotService {
	return &SnapshotService{orch: orch}
}

// GenerateSnapshot runs the selected sections for every requested model.
// Section failures are reported inside the snapshots, not as tool errors.
func (s *SnapshotService) GenerateSnapshot(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GenerateSnapshotInput,
) (*mcp.CallToolResult, GenerateSnapshotOutput, error) {
	req, models, err := api.SnapshotRequest{
		SubjectName:       input.Subject,
		EnabledSectionIDs: input.Sections,
		ModelIdentifier:   input.Model,
		Models:            input.Models,
	}.Normalize()
	if err != nil {
		return nil, GenerateSnapshotOutput{}, fmt.Errorf("generate_snapshot: %w", err)
	}

	return nil, GenerateSnapshotOutput{
		Snapshots: s.orch.GenerateEach(ctx, req, models),
	}, nil
}

// ListSections reports the registered sections in run order.
func (s *SnapshotService) ListSections(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ ListSectionsInput,
) (*mcp.CallToolResult, ListSectionsOutput, error) {
	all := s.orch.Registry().All()
	out := make([]SectionSummary, len(all))
	for i, sec := range all {
		out[i] = SectionSummary{ID: sec.ID(), Title: sec.Title(), Fields: sec.Fields()}
	}
	return nil, ListSectionsOutput{Sections: out}, nil
}
