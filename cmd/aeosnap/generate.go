package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/dusk-indust/aeosnap/internal/api"
	"github.com/dusk-indust/aeosnap/internal/export"
	"github.com/dusk-indust/aeosnap/internal/section"
	"github.com/dusk-indust/aeosnap/internal/snapshot"
	"github.com/spf13/cobra"
)

func (a *app) generateCmd() *cobra.Command {
	var (
		sections []string
		models   []string
		server   string
		format   string
	)

	cmd := &cobra.Command{
		Use:   "generate <subject>",
		Short: "Generate a snapshot and print it as JSON",
		Long: `Generate runs the selected sections for the subject and prints one JSON
snapshot per model on stdout, or a Markdown report with --format markdown.
Progress lines go to stderr.

With --server the request is sent to a running "aeosnap serve" instead of
calling the models directly.`,
		Example: `  aeosnap generate "Acme Corp"
  aeosnap generate "Acme Corp" --sections sentiment,brand_recognition --model gpt-4o-mini --model claude-sonnet-4`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != export.FormatJSON && format != export.FormatMarkdown {
				return fmt.Errorf("unknown --format %q (want json or markdown)", format)
			}
			body := api.SnapshotRequest{
				SubjectName:       args[0],
				EnabledSectionIDs: sections,
				Models:            models,
			}
			req, normModels, err := body.Normalize()
			if err != nil {
				return err
			}

			var snaps []snapshot.Snapshot
			reg := section.Default()
			if server != "" {
				snaps, err = api.NewClient(server).Generate(cmd.Context(), body)
				if err != nil {
					return err
				}
			} else {
				var mu sync.Mutex
				orch, err := a.orchestrator(cmd.Context(), snapshot.WithProgress(func(ev snapshot.ProgressEvent) {
					mu.Lock()
					defer mu.Unlock()
					fmt.Fprintf(a.stderr, "%s [%s]\n", snapshot.FormatProgress(ev), ev.Model)
				}))
				if err != nil {
					return err
				}

				reg = orch.Registry()
				label := orch.DefaultModel()
				if len(normModels) > 0 {
					label = strings.Join(normModels, ", ")
				}
				n := len(orch.Registry().Resolve(req.Sections))
				fmt.Fprintln(a.stderr, snapshot.FormatHeader(req.Subject, label, n))

				snaps = orch.GenerateEach(cmd.Context(), req, normModels)
			}

			if format == export.FormatMarkdown {
				report, err := export.Markdown(reg, snaps)
				if err != nil {
					return err
				}
				_, err = io.WriteString(a.stdout, report)
				return err
			}
			enc := json.NewEncoder(a.stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(api.SnapshotResponse{Snapshots: snaps})
		},
	}

	cmd.Flags().StringSliceVar(&sections, "sections", nil, "comma-separated section ids (default: all)")
	cmd.Flags().StringArrayVarP(&models, "model", "m", nil, "model id; repeat for one snapshot per model (default: config defaultModel)")
	cmd.Flags().StringVar(&server, "server", "", "base URL of a running aeosnap API server")
	cmd.Flags().StringVarP(&format, "format", "f", export.FormatJSON, "output format: json or markdown")
	return cmd
}

func (a *app) sectionsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "sections",
		Short: "List the available sections",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			orch, err := a.orchestrator(cmd.Context())
			if err != nil {
				return err
			}
			infos := api.DescribeSections(orch.Registry())

			if asJSON {
				enc := json.NewEncoder(a.stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(api.SectionsResponse{Sections: infos})
			}
			for _, s := range infos {
				fmt.Fprintf(a.stdout, "%-24s %s\n", s.ID, s.Title)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print sections with fields and schemas as JSON")
	return cmd
}
