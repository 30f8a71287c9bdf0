// Package api exposes the snapshot engine over HTTP/JSON and provides a
// matching client.
package api

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/dusk-indust/aeosnap/internal/section"
	"github.com/dusk-indust/aeosnap/internal/snapshot"
	"github.com/google/jsonschema-go/jsonschema"
)

// ErrInvalidRequest is returned for requests rejected before the engine runs.
var ErrInvalidRequest = errors.New("invalid request")

// SnapshotRequest is the body of POST /api/snapshot. The brand* and
// enabledSections names are accepted as aliases of subjectName and
// enabledSectionIds; models and modelIdentifier are merged.
type SnapshotRequest struct {
	SubjectName       string   `json:"subjectName,omitempty"`
	BrandName         string   `json:"brandName,omitempty"`
	EnabledSectionIDs []string `json:"enabledSectionIds,omitempty"`
	EnabledSections   []string `json:"enabledSections,omitempty"`
	ModelIdentifier   string   `json:"modelIdentifier,omitempty"`
	Models            []string `json:"models,omitempty"`
}

// SnapshotResponse is the body returned by POST /api/snapshot.
type SnapshotResponse struct {
	Snapshots []snapshot.Snapshot `json:"snapshots"`
}

// SectionInfo describes one registered section.
type SectionInfo struct {
	ID     string             `json:"id"`
	Title  string             `json:"title"`
	Fields []section.Field    `json:"fields"`
	Schema *jsonschema.Schema `json:"schema,omitempty"`
}

// SectionsResponse is the body returned by GET /api/sections.
type SectionsResponse struct {
	Sections []SectionInfo `json:"sections"`
}

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Stream event types.
const (
	EventProgress = "progress"
	EventSnapshot = "snapshot"
)

// StreamEvent is one Server-Sent Event of POST /api/snapshot/stream.
type StreamEvent struct {
	Type     string                  `json:"type"`
	Progress *snapshot.ProgressEvent `json:"progress,omitempty"`
	Snapshot *snapshot.Snapshot      `json:"snapshot,omitempty"`

	// Err is set by ReadEvents when a frame cannot be decoded.
	Err error `json:"-"`
}

// Normalize validates the request and returns the engine request plus the
// models to run. A nil models slice means "the default model".
func (r SnapshotRequest) Normalize() (snapshot.Request, []string, error) {
	subject := strings.TrimSpace(r.SubjectName)
	if subject == "" {
		subject = strings.TrimSpace(r.BrandName)
	}
	if subject == "" {
		return snapshot.Request{}, nil, fmt.Errorf("%w: subjectName is required", ErrInvalidRequest)
	}

	sections := r.EnabledSectionIDs
	if sections == nil {
		sections = r.EnabledSections
	}

	var models []string
	for _, m := range slices.Concat(r.Models, []string{r.ModelIdentifier}) {
		if m = strings.TrimSpace(m); m != "" {
			models = append(models, m)
		}
	}

	return snapshot.Request{Subject: subject, Sections: sections}, models, nil
}

// DescribeSections builds the SectionInfo list for a registry.
func DescribeSections(reg *section.Registry) []SectionInfo {
	all := reg.All()
	out := make([]SectionInfo, len(all))
	for i, s := range all {
		out[i] = SectionInfo{
			ID:     s.ID(),
			Title:  s.Title(),
			Fields: s.Fields(),
			Schema: s.Schema(),
		}
	}
	return out
}
