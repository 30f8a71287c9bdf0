package snapshot

import (
	"context"
	"fmt"

	"github.com/dusk-indust/aeosnap/internal/generation"
	"github.com/dusk-indust/aeosnap/internal/section"
	"go.uber.org/zap"
)

const (
	stageGenerate = "generate"
	stageParse    = "parse"
)

// Executor runs a single section: prompt, generate, validate. It never
// returns an error and never lets a panic escape; every failure becomes a
// Failure result whose message starts with the stage that failed.
type Executor struct {
	gen    generation.Generator
	logger *zap.Logger
}

// NewExecutor creates an Executor. A nil logger disables logging.
func NewExecutor(gen generation.Generator, logger *zap.Logger) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{gen: gen, logger: logger}
}

// Execute produces the Result for one section.
func (e *Executor) Execute(ctx context.Context, sec section.Section, subject, model string) (res Result) {
	stage := stageGenerate
	defer func() {
		if r := recover(); r != nil {
			res = e.fail(sec, subject, model, fmt.Sprintf("%s: panic: %v", stage, r))
		}
	}()

	prompt := sec.Prompt(subject)
	text, err := e.gen.Generate(ctx, prompt, model)
	if err != nil {
		return e.fail(sec, subject, model, fmt.Sprintf("%s: %v", stage, err))
	}

	stage = stageParse
	data, err := sec.Parse(text)
	if err != nil {
		return e.fail(sec, subject, model, fmt.Sprintf("%s: %v", stage, err))
	}
	return Success(data)
}

func (e *Executor) fail(sec section.Section, subject, model, msg string) Result {
	e.logger.Warn("section failed",
		zap.String("section", sec.ID()),
		zap.String("subject", subject),
		zap.String("model", model),
		zap.String("error", msg))
	return Failure(msg)
}
