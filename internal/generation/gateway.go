package generation

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Compile-time interface check.
var _ Generator = (*Gateway)(nil)

// Target is a concrete provider/model pair, e.g. openai/gpt-4o-mini.
type Target struct {
	Provider string
	Model    string
}

// ParseTarget splits "provider/model". A bare name yields an empty provider.
func ParseTarget(id string) Target {
	id = strings.TrimSpace(id)
	if provider, model, ok := strings.Cut(id, "/"); ok {
		return Target{Provider: strings.ToLower(provider), Model: model}
	}
	return Target{Model: id}
}

// String returns the "provider/model" form.
func (t Target) String() string {
	if t.Provider == "" {
		return t.Model
	}
	return t.Provider + "/" + t.Model
}

// Route maps every model id whose name starts with Prefix to Target.
type Route struct {
	Prefix string `yaml:"prefix"`
	Target string `yaml:"target"`
}

// DefaultRoutes is the built-in routing table.
var DefaultRoutes = []Route{
	{Prefix: "claude-sonnet-4", Target: "anthropic/claude-sonnet-4"},
	{Prefix: "gemini-2.0-flash", Target: "google/gemini-2.0-flash"},
	{Prefix: "gpt-4o-mini", Target: "openai/gpt-4o-mini"},
}

// DefaultFallback is the model used for ids that match nothing.
const DefaultFallback = "openai/gpt-4o"

// DefaultProviders are the provider prefixes a full model id may carry.
var DefaultProviders = []string{"openai", "anthropic", "google"}

// Gateway resolves requested model ids to targets and dispatches each call to
// the backend registered for the target's provider, or to the default
// backend. Provider backends receive the bare model name; the default backend
// receives the full "provider/model" id.
type Gateway struct {
	routes       []Route
	providers    map[string]bool
	backends     map[string]Generator
	fallbackBE   Generator
	fallback     string
	defaultModel string
	strict       bool
	logger       *zap.Logger
}

// GatewayOption configures a Gateway.
type GatewayOption func(*Gateway)

// WithRoutes replaces the routing table.
func WithRoutes(routes []Route) GatewayOption {
	return func(g *Gateway) { g.routes = routes }
}

// WithFallback sets the model used for unrecognized ids.
func WithFallback(model string) GatewayOption {
	return func(g *Gateway) { g.fallback = model }
}

// WithStrict makes unrecognized ids fail with ErrUnknownModel instead of
// falling back.
func WithStrict(strict bool) GatewayOption {
	return func(g *Gateway) { g.strict = strict }
}

// WithDefaultModel sets the model used when a call names none.
func WithDefaultModel(model string) GatewayOption {
	return func(g *Gateway) { g.defaultModel = model }
}

// WithProviders sets the provider prefixes accepted in full model ids.
func WithProviders(providers ...string) GatewayOption {
	return func(g *Gateway) {
		g.providers = make(map[string]bool, len(providers))
		for _, p := range providers {
			g.providers[strings.ToLower(p)] = true
		}
	}
}

// WithBackend registers a backend for one provider.
func WithBackend(provider string, be Generator) GatewayOption {
	return func(g *Gateway) { g.backends[strings.ToLower(provider)] = be }
}

// WithDefaultBackend sets the backend for providers without their own.
func WithDefaultBackend(be Generator) GatewayOption {
	return func(g *Gateway) { g.fallbackBE = be }
}

// WithGatewayLogger sets the logger used for fallback warnings.
func WithGatewayLogger(l *zap.Logger) GatewayOption {
	return func(g *Gateway) { g.logger = l }
}

// NewGateway creates a Gateway with the built-in routes and fallback.
func NewGateway(opts ...GatewayOption) *Gateway {
	g := &Gateway{
		routes:   DefaultRoutes,
		backends: make(map[string]Generator),
		fallback: DefaultFallback,
		logger:   zap.NewNop(),
	}
	WithProviders(DefaultProviders...)(g)
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Resolve maps a requested model id to a Target.
//
// The name part (after an optional "provider/") is matched against the route
// prefixes first. A full id with a known provider passes through unchanged.
// Anything else falls back, or fails with ErrUnknownModel in strict mode.
func (g *Gateway) Resolve(model string) (Target, error) {
	if strings.TrimSpace(model) == "" {
		model = g.defaultModel
	}
	req := ParseTarget(model)
	if req.Model == "" {
		return Target{}, fmt.Errorf("%w: empty model id", ErrUnknownModel)
	}

	for _, r := range g.routes {
		if strings.HasPrefix(req.Model, r.Prefix) {
			return ParseTarget(r.Target), nil
		}
	}
	if req.Provider != "" && g.providers[req.Provider] {
		return req, nil
	}
	if g.strict {
		return Target{}, fmt.Errorf("%w: %q", ErrUnknownModel, model)
	}

	g.logger.Warn("unrecognized model, using fallback",
		zap.String("requested", model),
		zap.String("fallback", g.fallback))
	return ParseTarget(g.fallback), nil
}

// Generate implements Generator.
func (g *Gateway) Generate(ctx context.Context, prompt, model string) (string, error) {
	target, err := g.Resolve(model)
	if err != nil {
		return "", err
	}
	if be, ok := g.backends[target.Provider]; ok {
		return be.Generate(ctx, prompt, target.Model)
	}
	if g.fallbackBE != nil {
		return g.fallbackBE.Generate(ctx, prompt, target.String())
	}
	return "", fmt.Errorf("%w for %s", ErrNoProvider, target)
}
