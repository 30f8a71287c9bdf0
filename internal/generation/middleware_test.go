package generation

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestChain_Order(t *testing.T) {
	var trace []string
	tag := func(name string) Middleware {
		return func(next Generator) Generator {
			return GeneratorFunc(func(ctx context.Context, prompt, model string) (string, error) {
				trace = append(trace, name)
				return next.Generate(ctx, prompt, model)
			})
		}
	}
	inner := GeneratorFunc(func(context.Context, string, string) (string, error) {
		trace = append(trace, "inner")
		return "ok", nil
	})

	out, err := Chain(inner, tag("a"), tag("b")).Generate(context.Background(), "p", "m")
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, []string{"a", "b", "inner"}, trace)
}

func TestWithTimeout(t *testing.T) {
	slow := GeneratorFunc(func(ctx context.Context, _, _ string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})

	_, err := WithTimeout(10 * time.Millisecond)(slow).Generate(context.Background(), "p", "m")
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestWithTimeout_ZeroDisables(t *testing.T) {
	g := GeneratorFunc(func(context.Context, string, string) (string, error) { return "x", nil })
	assert.NotNil(t, WithTimeout(0)(g))
}

func TestWithRateLimit_RespectsContext(t *testing.T) {
	calls := 0
	g := WithRateLimit(0.001, 1)(GeneratorFunc(func(context.Context, string, string) (string, error) {
		calls++
		return "ok", nil
	}))

	_, err := g.Generate(context.Background(), "p", "m")
	require.NoError(t, err)

	// The bucket is now empty; the next token is far away.
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = g.Generate(ctx, "p", "m")
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestWithRateLimit_Disabled(t *testing.T) {
	g := GeneratorFunc(func(context.Context, string, string) (string, error) { return "ok", nil })
	wrapped := WithRateLimit(0, 0)(g)
	for range 5 {
		out, err := wrapped.Generate(context.Background(), "p", "m")
		require.NoError(t, err)
		assert.Equal(t, "ok", out)
	}
}

func TestWithLogging(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)

	ok := GeneratorFunc(func(context.Context, string, string) (string, error) { return "body", nil })
	bad := GeneratorFunc(func(context.Context, string, string) (string, error) { return "", errors.New("boom") })

	_, err := WithLogging(logger)(ok).Generate(context.Background(), "prompt", "openai/gpt-4o")
	require.NoError(t, err)
	_, err = WithLogging(logger)(bad).Generate(context.Background(), "prompt", "openai/gpt-4o")
	require.Error(t, err)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "generation complete", entries[0].Message)
	assert.Equal(t, "openai/gpt-4o", entries[0].ContextMap()["model"])
	assert.Equal(t, zap.WarnLevel, entries[1].Level)
	assert.True(t, strings.Contains(entries[1].ContextMap()["error"].(string), "boom"))
}
