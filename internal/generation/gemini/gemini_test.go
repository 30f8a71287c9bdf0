package gemini

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/dusk-indust/aeosnap/internal/generation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// redirect sends every request to target, keeping the path.
type redirect struct{ target *url.URL }

func (r redirect) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.URL.Scheme = r.target.Scheme
	req.URL.Host = r.target.Host
	return http.DefaultTransport.RoundTrip(req)
}

func newTestGemini(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	u, err := url.Parse(ts.URL)
	require.NoError(t, err)

	g, err := NewClient(context.Background(), "test-key", &http.Client{Transport: redirect{target: u}})
	require.NoError(t, err)
	return g
}

func TestClient_Generate(t *testing.T) {
	var gotPath string
	g := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"{\"score\":7}"}]}}]}`))
	})

	out, err := g.Generate(context.Background(), "rate Acme", "gemini-2.0-flash")
	require.NoError(t, err)
	assert.Equal(t, `{"score":7}`, out)
	assert.True(t, strings.HasSuffix(gotPath, "models/gemini-2.0-flash:generateContent"), gotPath)
}

func TestClient_EmptyResponse(t *testing.T) {
	g := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"  "}]}}]}`))
	})

	_, err := g.Generate(context.Background(), "rate Acme", "gemini-2.0-flash")
	require.ErrorIs(t, err, generation.ErrEmptyResponse)
}

func TestClient_APIError(t *testing.T) {
	g := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":400,"message":"bad model","status":"INVALID_ARGUMENT"}}`))
	})

	_, err := g.Generate(context.Background(), "rate Acme", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gemini:")
}
