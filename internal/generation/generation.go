// Package generation is the boundary to generative text backends. The
// snapshot engine only sees the Generator interface; model routing, provider
// clients and cross-cutting concerns (rate limiting, timeouts, logging) live
// here.
package generation

import (
	"context"
	"errors"
	"fmt"
)

// Generator turns a prompt into text using the named model. An empty model
// selects the implementation's default. Implementations must be safe for
// concurrent use.
type Generator interface {
	Generate(ctx context.Context, prompt, model string) (string, error)
}

// GeneratorFunc adapts a plain function to the Generator interface.
type GeneratorFunc func(ctx context.Context, prompt, model string) (string, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, prompt, model string) (string, error) {
	return f(ctx, prompt, model)
}

var (
	// ErrEmptyResponse is returned when a provider answers without any text.
	ErrEmptyResponse = errors.New("generation: empty response from provider")

	// ErrUnknownModel is returned in strict mode for a model id that matches
	// no route and no known provider.
	ErrUnknownModel = errors.New("generation: unknown model")

	// ErrNoProvider is returned when a routed model has no backend to serve it.
	ErrNoProvider = errors.New("generation: no provider configured")
)

// StatusError is a non-2xx answer from an HTTP provider.
type StatusError struct {
	Provider string
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Provider, e.Code, e.Body)
}
