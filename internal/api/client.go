package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dusk-indust/aeosnap/internal/snapshot"
)

// Client talks to a remote aeosnap HTTP API.
type Client struct {
	http    *http.Client
	baseURL string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithHTTPClient replaces the underlying *http.Client entirely.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.http = hc
	}
}

// NewClient creates a client for the API served at baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		http:    &http.Client{Timeout: 5 * time.Minute},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// HTTPError is a non-2xx answer from the API.
type HTTPError struct {
	Code    int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("api: HTTP %d: %s", e.Code, e.Message)
}

// Generate requests one snapshot per model.
func (c *Client) Generate(ctx context.Context, req SnapshotRequest) ([]snapshot.Snapshot, error) {
	var out SnapshotResponse
	if err := c.do(ctx, http.MethodPost, "/api/snapshot", req, &out); err != nil {
		return nil, err
	}
	return out.Snapshots, nil
}

// Sections lists the sections the server has registered.
func (c *Client) Sections(ctx context.Context) ([]SectionInfo, error) {
	var out SectionsResponse
	if err := c.do(ctx, http.MethodGet, "/api/sections", nil, &out); err != nil {
		return nil, err
	}
	return out.Sections, nil
}

// Health checks that the server is up.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", nil, nil)
}

// Stream starts a streamed generation and returns its events. The channel is
// closed after the snapshot event or when ctx is cancelled.
func (c *Client) Stream(ctx context.Context, req SnapshotRequest) (<-chan StreamEvent, error) {
	resp, err := c.send(ctx, http.MethodPost, "/api/snapshot/stream", req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, readHTTPError(resp)
	}
	return ReadEvents(ctx, resp.Body), nil
}

func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	resp, err := c.send(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return readHTTPError(resp)
	}
	if result == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("api: decode %s: %w", path, err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("api: marshal request: %w", err)
		}
		rd = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return nil, fmt.Errorf("api: create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	return resp, nil
}

func readHTTPError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	var er ErrorResponse
	if json.Unmarshal(raw, &er) == nil && er.Error != "" {
		return &HTTPError{Code: resp.StatusCode, Message: er.Error}
	}
	return &HTTPError{Code: resp.StatusCode, Message: strings.TrimSpace(string(raw))}
}
