package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dusk-indust/aeosnap/internal/api"
	"github.com/dusk-indust/aeosnap/internal/mcptools"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (a *app) serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			orch, err := a.orchestrator(ctx)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = a.cfg.Server.Addr
			}

			srv := api.NewServer(orch, api.WithLogger(a.logger))
			bound, err := srv.Start(ctx, addr)
			if err != nil {
				return err
			}
			a.logger.Info("api listening", zap.String("addr", bound.String()), zap.String("version", version))

			<-ctx.Done()

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Stop(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: config server.addr)")
	return cmd
}

func (a *app) mcpCmd() *cobra.Command {
	var httpAddr string

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Run as an MCP server (stdio by default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			orch, err := a.orchestrator(ctx)
			if err != nil {
				return err
			}
			server := mcptools.NewMCPServer(mcptools.NewSnapshotService(orch))

			if httpAddr != "" {
				a.logger.Info("mcp listening", zap.String("addr", httpAddr))
				return mcptools.RunHTTP(ctx, server, httpAddr)
			}
			return mcptools.RunStdio(ctx, server)
		},
	}

	cmd.Flags().StringVar(&httpAddr, "http", "", "serve streamable HTTP on this address instead of stdio")
	return cmd
}
