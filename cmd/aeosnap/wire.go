package main

import (
	"context"
	"fmt"

	"github.com/dusk-indust/aeosnap/internal/config"
	"github.com/dusk-indust/aeosnap/internal/generation"
	"github.com/dusk-indust/aeosnap/internal/generation/gemini"
	"github.com/dusk-indust/aeosnap/internal/section"
	"github.com/dusk-indust/aeosnap/internal/snapshot"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// newLogger builds the process logger from config. verbose forces debug.
func newLogger(cfg config.LogConfig, verbose bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	zc.Level = level
	if verbose {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	if cfg.Format == "console" {
		zc.Encoding = "console"
		zc.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}
	return zc.Build()
}

// buildGenerator wires the model gateway, its providers and middleware.
func buildGenerator(ctx context.Context, cfg *config.Config, logger *zap.Logger) (generation.Generator, error) {
	opts := []generation.GatewayOption{
		generation.WithRoutes(cfg.Models.Routes),
		generation.WithFallback(cfg.Models.Fallback),
		generation.WithStrict(cfg.Models.Strict),
		generation.WithDefaultModel(cfg.DefaultModel),
		generation.WithGatewayLogger(logger),
		generation.WithDefaultBackend(generation.NewChatClient(cfg.Backend.GatewayURL, cfg.Backend.GatewayKey)),
	}
	if cfg.Backend.GeminiKey != "" {
		gem, err := gemini.NewClient(ctx, cfg.Backend.GeminiKey, nil)
		if err != nil {
			return nil, err
		}
		opts = append(opts, generation.WithBackend("google", gem))
	}

	return generation.Chain(generation.NewGateway(opts...),
		generation.WithLogging(logger),
		generation.WithRateLimit(cfg.Backend.RateLimit.RPS, cfg.Backend.RateLimit.Burst),
		generation.WithTimeout(cfg.Backend.Timeout),
	), nil
}

// orchestrator builds the snapshot engine from the loaded config.
func (a *app) orchestrator(ctx context.Context, opts ...snapshot.Option) (*snapshot.Orchestrator, error) {
	sections, err := section.Select(a.cfg.Sections)
	if err != nil {
		return nil, err
	}
	reg, err := section.NewRegistry(sections...)
	if err != nil {
		return nil, fmt.Errorf("build registry: %w", err)
	}

	gen, err := a.newGenerator(ctx, a.cfg, a.logger)
	if err != nil {
		return nil, fmt.Errorf("build generator: %w", err)
	}

	opts = append([]snapshot.Option{
		snapshot.WithDefaultModel(a.cfg.DefaultModel),
		snapshot.WithLogger(a.logger),
	}, opts...)
	return snapshot.New(reg, gen, opts...), nil
}
