package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var _ Generator = (*ChatClient)(nil)

// DefaultGatewayURL is the OpenAI-compatible endpoint of the AI gateway.
const DefaultGatewayURL = "https://ai-gateway.vercel.sh/v1"

// maxErrorBody bounds how much of a failed response is kept in StatusError.
const maxErrorBody = 2048

// ChatClient calls an OpenAI-compatible Chat Completions API. Model ids are
// sent as given, so against a multi-provider gateway they carry the
// "provider/model" form.
type ChatClient struct {
	http    *http.Client
	baseURL string
	apiKey  string
	name    string
}

// ChatOption configures a ChatClient.
type ChatOption func(*ChatClient)

// WithChatHTTPClient sets the HTTP client used for requests.
func WithChatHTTPClient(hc *http.Client) ChatOption {
	return func(c *ChatClient) { c.http = hc }
}

// WithChatTimeout sets the HTTP client timeout. The default is none; the
// per-call bound comes from the WithTimeout middleware.
func WithChatTimeout(d time.Duration) ChatOption {
	return func(c *ChatClient) { c.http.Timeout = d }
}

// WithProviderName sets the name used in error messages.
func WithProviderName(name string) ChatOption {
	return func(c *ChatClient) { c.name = name }
}

// NewChatClient creates a client for baseURL (DefaultGatewayURL if empty).
func NewChatClient(baseURL, apiKey string, opts ...ChatOption) *ChatClient {
	if baseURL == "" {
		baseURL = DefaultGatewayURL
	}
	c := &ChatClient{
		http:    &http.Client{},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		name:    "gateway",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Generate sends prompt as a single user message and returns the first
// choice's content.
func (c *ChatClient) Generate(ctx context.Context, prompt, model string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:    model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("%s: marshal request: %w", c.name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%s: create request: %w", c.name, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: send request: %w", c.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", &StatusError{Provider: c.name, Code: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%s: decode response: %w", c.name, err)
	}
	if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
		return "", ErrEmptyResponse
	}
	return out.Choices[0].Message.Content, nil
}
