package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dusk-indust/aeosnap/internal/generation"
	"github.com/dusk-indust/aeosnap/internal/section"
	"github.com/dusk-indust/aeosnap/internal/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

var promptMarkers = map[string]string{
	"brand_recognition":     "visibility and recognition",
	"market_competition":    "competitive positioning",
	"sentiment":             "overall sentiment",
	"strengths_weaknesses":  "strengths and weaknesses",
	"opportunities_threats": "opportunities and threats",
}

// goldenBackend answers every built-in section with its golden response.
func goldenBackend(t *testing.T, overrides ...generation.Rule) *generation.Static {
	t.Helper()
	rules := append([]generation.Rule{}, overrides...)
	for id, marker := range promptMarkers {
		data, err := os.ReadFile(filepath.Join("..", "..", "testdata", "responses", id+".json"))
		require.NoError(t, err)
		rules = append(rules, generation.Rule{Contains: marker, Reply: string(data)})
	}
	return &generation.Static{Rules: rules}
}

func newTestServer(t *testing.T, gen generation.Generator, opts ...ServerOption) *httptest.Server {
	t.Helper()
	orch := snapshot.New(section.Default(), gen)
	ts := httptest.NewServer(NewServer(orch, opts...).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestHandleSnapshot_BrandNameAndModels(t *testing.T) {
	ts := newTestServer(t, goldenBackend(t))

	resp := postJSON(t, ts.URL+"/api/snapshot", map[string]any{
		"brandName":       "  Acme Corp ",
		"enabledSections": []string{"sentiment", "brand_recognition"},
		"models":          []string{"gpt-4o-mini", "claude-sonnet-4"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decodeBody[SnapshotResponse](t, resp)

	require.Len(t, out.Snapshots, 2)
	assert.Equal(t, "gpt-4o-mini", out.Snapshots[0].Model)
	assert.Equal(t, "claude-sonnet-4", out.Snapshots[1].Model)
	for _, s := range out.Snapshots {
		assert.Equal(t, "Acme Corp", s.Subject)
		assert.Len(t, s.Sections, 2)
		assert.True(t, s.Sections["sentiment"].OK())
		assert.False(t, s.GeneratedAt.IsZero())
	}
}

func TestHandleSnapshot_DefaultModelAndAllSections(t *testing.T) {
	ts := newTestServer(t, goldenBackend(t))

	resp := postJSON(t, ts.URL+"/api/snapshot", SnapshotRequest{SubjectName: "Acme"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decodeBody[SnapshotResponse](t, resp)

	require.Len(t, out.Snapshots, 1)
	assert.Equal(t, snapshot.DefaultModel, out.Snapshots[0].Model)
	assert.Len(t, out.Snapshots[0].Sections, 5)
}

func TestHandleSnapshot_SectionFailureStill200(t *testing.T) {
	ts := newTestServer(t, goldenBackend(t, generation.Rule{
		Contains: promptMarkers["sentiment"],
		Err:      errors.New("provider down"),
	}))

	resp := postJSON(t, ts.URL+"/api/snapshot", SnapshotRequest{SubjectName: "Acme"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var raw struct {
		Snapshots []struct {
			Sections map[string]map[string]any `json:"sections"`
		} `json:"snapshots"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&raw))
	sent := raw.Snapshots[0].Sections["sentiment"]
	assert.Equal(t, "error", sent["status"])
	assert.Contains(t, sent["error"], "provider down")
	assert.NotContains(t, sent, "data")
}

func TestHandleSnapshot_Rejects(t *testing.T) {
	gen := goldenBackend(t)
	ts := newTestServer(t, gen)

	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing subject", `{"models":["gpt-4o"]}`, "subjectName is required"},
		{"blank subject", `{"brandName":"   "}`, "subjectName is required"},
		{"malformed json", `{"brandName":`, "malformed JSON body"},
		{"wrong type", `{"brandName": 42}`, "malformed JSON body"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := http.Post(ts.URL+"/api/snapshot", "application/json", strings.NewReader(tc.body))
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Contains(t, decodeBody[ErrorResponse](t, resp).Error, tc.want)
		})
	}
	assert.Zero(t, gen.Calls(), "rejected requests must not reach the backend")
}

func TestHandleSnapshot_MethodNotAllowed(t *testing.T) {
	ts := newTestServer(t, goldenBackend(t))

	resp, err := http.Get(ts.URL + "/api/snapshot")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestHandleSections(t *testing.T) {
	ts := newTestServer(t, goldenBackend(t))

	resp, err := http.Get(ts.URL + "/api/sections")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	out := decodeBody[SectionsResponse](t, resp)
	require.Len(t, out.Sections, 5)
	assert.Equal(t, "brand_recognition", out.Sections[0].ID)
	assert.NotEmpty(t, out.Sections[0].Title)
	assert.NotEmpty(t, out.Sections[0].Fields)
	require.NotNil(t, out.Sections[0].Schema)
	assert.Equal(t, "object", out.Sections[0].Schema.Type)
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, goldenBackend(t))

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]string{"status": "ok"}, decodeBody[map[string]string](t, resp))
}

func TestAccessLog_RequestID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	ts := newTestServer(t, goldenBackend(t), WithLogger(zap.New(core)))

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	generated := resp.Header.Get(HeaderRequestID)
	assert.NotEmpty(t, generated)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	require.NoError(t, err)
	req.Header.Set(HeaderRequestID, "caller-id")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "caller-id", resp.Header.Get(HeaderRequestID))

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 2)
	assert.Equal(t, generated, entries[0].ContextMap()["request_id"])
	assert.Equal(t, "caller-id", entries[1].ContextMap()["request_id"])
	assert.Equal(t, int64(http.StatusOK), entries[1].ContextMap()["status"])
}

func TestHandleStream(t *testing.T) {
	ts := newTestServer(t, goldenBackend(t))

	resp := postJSON(t, ts.URL+"/api/snapshot/stream", SnapshotRequest{
		SubjectName:       "Acme",
		EnabledSectionIDs: []string{"sentiment", "market_competition"},
		ModelIdentifier:   "gemini-2.0-flash",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var progress []snapshot.ProgressEvent
	var final *snapshot.Snapshot
	for ev := range ReadEvents(ctx, resp.Body) {
		require.NoError(t, ev.Err)
		switch ev.Type {
		case EventProgress:
			progress = append(progress, *ev.Progress)
		case EventSnapshot:
			final = ev.Snapshot
		}
	}

	require.NotNil(t, final)
	assert.Equal(t, "gemini-2.0-flash", final.Model)
	assert.Len(t, final.Sections, 2)
	assert.Len(t, progress, 6)
	for _, p := range progress {
		assert.Equal(t, "gemini-2.0-flash", p.Model)
	}
}

func TestHandleStream_RejectsMultipleModels(t *testing.T) {
	ts := newTestServer(t, goldenBackend(t))

	resp := postJSON(t, ts.URL+"/api/snapshot/stream", SnapshotRequest{
		SubjectName: "Acme",
		Models:      []string{"a", "b"},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_StartStop(t *testing.T) {
	srv := NewServer(snapshot.New(section.Default(), goldenBackend(t)))

	addr, err := srv.Start(context.Background(), "127.0.0.1:0")
	require.NoError(t, err)

	c := NewClient("http://" + addr.String())
	require.NoError(t, c.Health(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, srv.Stop(ctx))
	assert.Error(t, c.Health(context.Background()))
}

func TestNormalize(t *testing.T) {
	t.Run("subjectName wins over brandName", func(t *testing.T) {
		req, _, err := SnapshotRequest{SubjectName: "A", BrandName: "B"}.Normalize()
		require.NoError(t, err)
		assert.Equal(t, "A", req.Subject)
	})

	t.Run("enabledSectionIds wins over enabledSections", func(t *testing.T) {
		req, _, err := SnapshotRequest{
			SubjectName:       "A",
			EnabledSectionIDs: []string{"sentiment"},
			EnabledSections:   []string{"brand_recognition"},
		}.Normalize()
		require.NoError(t, err)
		assert.Equal(t, []string{"sentiment"}, req.Sections)
	})

	t.Run("empty section list is preserved", func(t *testing.T) {
		req, _, err := SnapshotRequest{SubjectName: "A", EnabledSectionIDs: []string{}}.Normalize()
		require.NoError(t, err)
		assert.Empty(t, req.Sections)
	})

	t.Run("models merged and trimmed", func(t *testing.T) {
		_, models, err := SnapshotRequest{
			SubjectName:     "A",
			Models:          []string{" gpt-4o-mini ", ""},
			ModelIdentifier: "claude-sonnet-4",
		}.Normalize()
		require.NoError(t, err)
		assert.Equal(t, []string{"gpt-4o-mini", "claude-sonnet-4"}, models)
	})

	t.Run("does not write into the caller's models", func(t *testing.T) {
		backing := make([]string, 1, 4)
		backing[0] = "gpt-4o-mini"
		_, models, err := SnapshotRequest{SubjectName: "A", Models: backing, ModelIdentifier: "claude-sonnet-4"}.Normalize()
		require.NoError(t, err)
		assert.Equal(t, []string{"gpt-4o-mini", "claude-sonnet-4"}, models)
		assert.Equal(t, "", backing[:2][1])
	})

	t.Run("no models means default", func(t *testing.T) {
		_, models, err := SnapshotRequest{SubjectName: "A"}.Normalize()
		require.NoError(t, err)
		assert.Nil(t, models)
	})

	t.Run("missing subject", func(t *testing.T) {
		_, _, err := SnapshotRequest{}.Normalize()
		require.ErrorIs(t, err, ErrInvalidRequest)
	})
}
