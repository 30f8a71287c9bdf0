package generation

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Middleware decorates a Generator with a cross-cutting concern.
type Middleware func(Generator) Generator

// Chain applies middlewares in left-to-right order:
// Chain(g, A, B) => A(B(g)).
func Chain(g Generator, mws ...Middleware) Generator {
	out := g
	for i := len(mws) - 1; i >= 0; i-- {
		out = mws[i](out)
	}
	return out
}

// WithRateLimit throttles calls with a token bucket shared by every caller of
// the wrapped Generator. rps <= 0 disables limiting.
func WithRateLimit(rps float64, burst int) Middleware {
	return func(next Generator) Generator {
		if rps <= 0 {
			return next
		}
		if burst < 1 {
			burst = 1
		}
		limiter := rate.NewLimiter(rate.Limit(rps), burst)
		return GeneratorFunc(func(ctx context.Context, prompt, model string) (string, error) {
			if err := limiter.Wait(ctx); err != nil {
				return "", err
			}
			return next.Generate(ctx, prompt, model)
		})
	}
}

// WithTimeout bounds each call. d <= 0 disables the bound.
func WithTimeout(d time.Duration) Middleware {
	return func(next Generator) Generator {
		if d <= 0 {
			return next
		}
		return GeneratorFunc(func(ctx context.Context, prompt, model string) (string, error) {
			ctx, cancel := context.WithTimeout(ctx, d)
			defer cancel()
			return next.Generate(ctx, prompt, model)
		})
	}
}

// WithLogging logs every call at debug level and failures at warn level.
func WithLogging(logger *zap.Logger) Middleware {
	return func(next Generator) Generator {
		return GeneratorFunc(func(ctx context.Context, prompt, model string) (string, error) {
			start := time.Now()
			text, err := next.Generate(ctx, prompt, model)
			fields := []zap.Field{
				zap.String("model", model),
				zap.Int("prompt_bytes", len(prompt)),
				zap.Duration("elapsed", time.Since(start)),
			}
			if err != nil {
				logger.Warn("generation failed", append(fields, zap.Error(err))...)
				return "", err
			}
			logger.Debug("generation complete", append(fields, zap.Int("response_bytes", len(text)))...)
			return text, nil
		})
	}
}
