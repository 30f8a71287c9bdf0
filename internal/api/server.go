package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/dusk-indust/aeosnap/internal/snapshot"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// HeaderRequestID carries the per-request correlation id.
const HeaderRequestID = "X-Request-ID"

// Server is the HTTP front end of the snapshot engine.
type Server struct {
	orch   *snapshot.Orchestrator
	logger *zap.Logger
	http   *http.Server
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithLogger sets the logger used for access and error logs.
func WithLogger(l *zap.Logger) ServerOption {
	return func(s *Server) { s.logger = l }
}

// NewServer creates a Server backed by orch.
func NewServer(orch *snapshot.Orchestrator, opts ...ServerOption) *Server {
	s := &Server{orch: orch, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /api/sections", s.handleSections)
	mux.HandleFunc("POST /api/snapshot", s.handleSnapshot)
	mux.HandleFunc("POST /api/snapshot/stream", s.handleStream)

	return s.accessLog(mux)
}

// Start binds addr and begins serving in a background goroutine. It returns
// the bound address, which differs from addr when addr uses port 0.
func (s *Server) Start(ctx context.Context, addr string) (net.Addr, error) {
	ln, err := (&net.ListenConfig{}).Listen(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("api: listen %s: %w", addr, err)
	}

	s.http = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server stopped", zap.Error(err))
		}
	}()

	return ln.Addr(), nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSections(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, SectionsResponse{Sections: DescribeSections(s.orch.Registry())})
}

// handleSnapshot produces one snapshot per requested model, in parallel.
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	req, models, ok := s.decode(w, r)
	if !ok {
		return
	}

	snaps := s.orch.GenerateEach(r.Context(), req, models)
	writeJSON(w, http.StatusOK, SnapshotResponse{Snapshots: snaps})
}

// handleStream streams progress events for a single model, followed by the
// finished snapshot.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	req, models, ok := s.decode(w, r)
	if !ok {
		return
	}
	if len(models) > 1 {
		writeError(w, http.StatusBadRequest, "stream accepts a single model")
		return
	}
	if len(models) == 1 {
		req.Model = models[0]
	}

	rep := snapshot.NewProgressReporter()
	done := make(chan snapshot.Snapshot, 1)
	go func() {
		snap := s.orch.GenerateObserved(r.Context(), req, rep.Emit)
		rep.Close()
		done <- snap
	}()

	sw := NewSSEWriter(w)
	sw.Init()
	for ev := range rep.Subscribe() {
		if err := sw.WriteEvent(StreamEvent{Type: EventProgress, Progress: &ev}); err != nil {
			s.logger.Debug("stream write failed", zap.Error(err))
		}
	}
	snap := <-done
	if err := sw.WriteEvent(StreamEvent{Type: EventSnapshot, Snapshot: &snap}); err != nil {
		s.logger.Debug("stream write failed", zap.Error(err))
	}
}

// decode reads and validates a SnapshotRequest, answering 400 on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request) (snapshot.Request, []string, bool) {
	var body SnapshotRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "malformed JSON body: "+err.Error())
		return snapshot.Request{}, nil, false
	}
	req, models, err := body.Normalize()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return snapshot.Request{}, nil, false
	}
	return req, models, true
}

// accessLog assigns a request id and logs one line per request.
func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderRequestID)
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set(HeaderRequestID, id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		s.logger.Info("request",
			zap.String("request_id", id),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("elapsed", time.Since(start)))
	})
}

// statusRecorder captures the response status and keeps streaming working.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
