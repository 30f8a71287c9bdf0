package snapshot

import (
	"context"
	"strings"
	"time"

	"github.com/dusk-indust/aeosnap/internal/generation"
	"github.com/dusk-indust/aeosnap/internal/section"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultModel is used when neither the request nor the orchestrator names a
// model.
const DefaultModel = "openai/gpt-4o-mini"

// Orchestrator resolves a Request into sections, runs them concurrently and
// assembles the Snapshot. It holds no per-call state and is safe for
// concurrent use.
type Orchestrator struct {
	reg          *section.Registry
	exec         *Executor
	defaultModel string
	logger       *zap.Logger
	onProgress   func(ProgressEvent)
	now          func() time.Time
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithDefaultModel sets the model used when a request names none.
func WithDefaultModel(model string) Option {
	return func(o *Orchestrator) {
		if strings.TrimSpace(model) != "" {
			o.defaultModel = model
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// WithProgress registers a callback for progress events of every call.
// The callback is invoked from multiple goroutines.
func WithProgress(fn func(ProgressEvent)) Option {
	return func(o *Orchestrator) { o.onProgress = fn }
}

// WithClock overrides the time source used for GeneratedAt.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// New creates an Orchestrator over reg that generates through gen.
func New(reg *section.Registry, gen generation.Generator, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		reg:          reg,
		defaultModel: DefaultModel,
		logger:       zap.NewNop(),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	o.exec = NewExecutor(gen, o.logger)
	return o
}

// Registry returns the registry the orchestrator resolves sections from.
func (o *Orchestrator) Registry() *section.Registry { return o.reg }

// DefaultModel returns the model used for requests that name none.
func (o *Orchestrator) DefaultModel() string { return o.defaultModel }

// Generate runs every section selected by req and returns the assembled
// Snapshot. It always returns a Snapshot; section failures are recorded in
// their entries.
func (o *Orchestrator) Generate(ctx context.Context, req Request) Snapshot {
	return o.GenerateObserved(ctx, req, nil)
}

// GenerateObserved is Generate with an extra per-call progress callback,
// invoked in addition to any callback set with WithProgress.
func (o *Orchestrator) GenerateObserved(ctx context.Context, req Request, onProgress func(ProgressEvent)) Snapshot {
	model := strings.TrimSpace(req.Model)
	if model == "" {
		model = o.defaultModel
	}
	sections := o.reg.Resolve(req.Sections)

	emit := func(ev ProgressEvent) {
		ev.Model = model
		if o.onProgress != nil {
			o.onProgress(ev)
		}
		if onProgress != nil {
			onProgress(ev)
		}
	}

	o.logger.Debug("generating snapshot",
		zap.String("subject", req.Subject),
		zap.String("model", model),
		zap.Int("sections", len(sections)))

	// Plain Group: a failing section must not cancel its siblings.
	results := make([]Result, len(sections))
	var g errgroup.Group
	for i, sec := range sections {
		emit(ProgressEvent{Section: sec.ID(), Status: ProgressPending})

		g.Go(func() error {
			emit(ProgressEvent{Section: sec.ID(), Status: ProgressWorking})

			res := o.exec.Execute(ctx, sec, req.Subject, model)
			results[i] = res

			if res.OK() {
				emit(ProgressEvent{Section: sec.ID(), Status: ProgressComplete})
			} else {
				emit(ProgressEvent{Section: sec.ID(), Status: ProgressFailed, Message: res.Error})
			}
			return nil
		})
	}
	_ = g.Wait()

	out := make(map[string]Result, len(sections))
	for i, sec := range sections {
		out[sec.ID()] = results[i]
	}

	return Snapshot{
		Subject:     req.Subject,
		Model:       model,
		GeneratedAt: o.now().UTC(),
		Sections:    out,
	}
}

// GenerateEach produces one Snapshot per model for the same subject and
// sections, running the models in parallel. Snapshots are returned in the
// order of models. An empty models list yields a single Snapshot for
// req.Model (or the default).
func (o *Orchestrator) GenerateEach(ctx context.Context, req Request, models []string) []Snapshot {
	if len(models) == 0 {
		return []Snapshot{o.Generate(ctx, req)}
	}

	snaps := make([]Snapshot, len(models))
	var g errgroup.Group
	for i, model := range models {
		g.Go(func() error {
			r := req
			r.Model = model
			snaps[i] = o.Generate(ctx, r)
			return nil
		})
	}
	_ = g.Wait()
	return snaps
}
