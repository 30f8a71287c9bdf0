package export

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dusk-indust/aeosnap/internal/section"
	"github.com/dusk-indust/aeosnap/internal/snapshot"
)

// Format names accepted by the CLI.
const (
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

const barWidth = 10

// Markdown renders snapshots as a Markdown report. Sections known to reg are
// laid out from their field metadata, in registry order; anything else is
// dumped as a JSON block.
func Markdown(reg *section.Registry, snaps []snapshot.Snapshot) (string, error) {
	var sb strings.Builder
	for i, snap := range snaps {
		if i > 0 {
			sb.WriteString("\n---\n\n")
		}
		if err := writeSnapshot(&sb, reg, snap); err != nil {
			return "", err
		}
	}
	return sb.String(), nil
}

func writeSnapshot(sb *strings.Builder, reg *section.Registry, snap snapshot.Snapshot) error {
	fmt.Fprintf(sb, "# %s\n\n", snap.Subject)
	fmt.Fprintf(sb, "_Model: %s. Generated %s._\n", snap.Model, snap.GeneratedAt.UTC().Format(time.RFC3339))

	if len(snap.Sections) == 0 {
		sb.WriteString("\nNo sections were generated.\n")
		return nil
	}

	// Registry order first, then unknown ids sorted.
	var ids []string
	seen := make(map[string]bool)
	for _, sec := range reg.All() {
		if _, ok := snap.Sections[sec.ID()]; ok {
			ids = append(ids, sec.ID())
			seen[sec.ID()] = true
		}
	}
	var extra []string
	for id := range snap.Sections {
		if !seen[id] {
			extra = append(extra, id)
		}
	}
	sort.Strings(extra)
	ids = append(ids, extra...)

	for _, id := range ids {
		res := snap.Sections[id]
		sec, known := reg.Lookup(id)

		title := id
		if known {
			title = sec.Title()
		}
		fmt.Fprintf(sb, "\n## %s\n\n", title)

		if !res.OK() {
			fmt.Fprintf(sb, "> **Failed:** %s\n", res.Error)
			continue
		}

		fields, err := toMap(res.Data)
		if err != nil {
			return fmt.Errorf("export %s: %w", id, err)
		}
		if !known {
			raw, err := json.MarshalIndent(fields, "", "  ")
			if err != nil {
				return fmt.Errorf("export %s: %w", id, err)
			}
			fmt.Fprintf(sb, "```json\n%s\n```\n", raw)
			continue
		}
		for _, f := range sec.Fields() {
			writeField(sb, f, fields[f.Key])
		}
	}
	return nil
}

func writeField(sb *strings.Builder, f section.Field, v any) {
	switch f.Kind {
	case section.FieldProgress:
		n, _ := v.(float64)
		fmt.Fprintf(sb, "**%s:** %s %g/%d\n\n", f.Label, bar(n, f.Max), n, f.Max)
	case section.FieldList:
		fmt.Fprintf(sb, "**%s:**\n", f.Label)
		for _, item := range asSlice(v) {
			fmt.Fprintf(sb, "- %v\n", item)
		}
		sb.WriteString("\n")
	case section.FieldComplexList:
		fmt.Fprintf(sb, "**%s:**\n", f.Label)
		for _, item := range asSlice(v) {
			m, _ := item.(map[string]any)
			fmt.Fprintf(sb, "- **%v**: %v\n", m["point"], m["explanation"])
		}
		sb.WriteString("\n")
	default:
		fmt.Fprintf(sb, "**%s:** %v\n\n", f.Label, v)
	}
}

// bar draws a fixed-width progress bar for n out of limit.
func bar(n float64, limit int) string {
	if limit <= 0 {
		return ""
	}
	filled := int(n / float64(limit) * barWidth)
	filled = min(max(filled, 0), barWidth)
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}

func asSlice(v any) []any {
	s, _ := v.([]any)
	return s
}

// toMap normalizes typed section data and decoded JSON to the same shape.
func toMap(data any) (map[string]any, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}
