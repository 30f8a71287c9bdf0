package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dusk-indust/aeosnap/internal/config"
	"github.com/dusk-indust/aeosnap/internal/generation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// version is set by goreleaser at build time.
var version = "dev"

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	root := newApp(stdout, stderr).rootCmd()
	root.SetArgs(args)
	return root.Execute()
}

// app holds the state shared by all subcommands.
type app struct {
	stdout io.Writer
	stderr io.Writer

	// Global flags.
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger

	// newGenerator builds the generation backend; tests replace it.
	newGenerator func(ctx context.Context, cfg *config.Config, logger *zap.Logger) (generation.Generator, error)
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{
		stdout:       stdout,
		stderr:       stderr,
		newGenerator: buildGenerator,
	}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "aeosnap",
		Short: "Generate AI visibility snapshots for a brand",
		Long: `aeosnap asks generative models how they perceive a brand.

Each snapshot runs a set of independent analysis sections (recognition,
competition, sentiment, strengths/weaknesses, opportunities/threats)
concurrently and validates every answer against the section's JSON schema.
A failing section never hides the others.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default: ./aeosnap.yml if present)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		a.generateCmd(),
		a.sectionsCmd(),
		a.serveCmd(),
		a.mcpCmd(),
		a.versionCmd(),
	)
	return root
}

// setup loads configuration and builds the logger before any subcommand runs.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if err := config.LoadDotenv("."); err != nil {
		return err
	}

	var err error
	if a.configPath != "" {
		a.cfg, err = config.LoadFile(a.configPath)
	} else {
		a.cfg, err = config.Load(".")
	}
	if err != nil {
		return err
	}
	a.cfg.ApplyEnv(os.Getenv)
	if err := a.cfg.Validate(); err != nil {
		return err
	}

	a.logger, err = newLogger(a.cfg.Log, a.verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		// Runs without config so it works anywhere.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}
