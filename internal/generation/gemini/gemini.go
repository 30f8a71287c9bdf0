// Package gemini is a generation backend for the Gemini API. Only the CLI
// wiring imports it; the snapshot engine must not link genai.
package gemini

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/dusk-indust/aeosnap/internal/generation"
	"google.golang.org/genai"
)

var _ generation.Generator = (*Client)(nil)

// Client is a thin wrapper around the official genai client. It only
// makes the API call; rate limiting, timeouts and logging are applied with
// generation.Middleware.
type Client struct {
	cli *genai.Client
}

// NewClient creates a client for the Gemini API. A nil httpClient uses
// the genai default.
func NewClient(ctx context.Context, apiKey string, httpClient *http.Client) (*Client, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return &Client{cli: cli}, nil
}

// Generate asks for application/json output and returns the response text.
// model is the bare Gemini model name, e.g. gemini-2.0-flash.
func (g *Client) Generate(ctx context.Context, prompt, model string) (string, error) {
	resp, err := g.cli.Models.GenerateContent(ctx, model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
		&genai.GenerateContentConfig{ResponseMIMEType: "application/json"},
	)
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", generation.ErrEmptyResponse
	}
	return text, nil
}
