package llm

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"
)

// Middleware decorates a Predictor with a cross-cutting concern.
type Middleware func(Predictor) Predictor

// Wrap applies middlewares so that the first one is the outermost:
// Wrap(p, A, B) == A(B(p)).
func Wrap(inner Predictor, mws ...Middleware) Predictor {
	out := inner
	for i := len(mws) - 1; i >= 0; i-- {
		out = mws[i](out)
	}
	return out
}

// WithRateLimit spaces calls to at most rpm per minute. A non-positive rpm
// disables the limiter.
func WithRateLimit(rpm int) Middleware {
	return func(next Predictor) Predictor {
		if rpm <= 0 {
			return next
		}
		limiter := rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), 1)
		return PredictorFunc(func(ctx context.Context, prompt string) (string, error) {
			if err := limiter.Wait(ctx); err != nil {
				return "", err
			}
			return next.Predict(ctx, prompt)
		})
	}
}

// WithLogging logs prompt size, latency and failures at debug level.
func WithLogging(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next Predictor) Predictor {
		return PredictorFunc(func(ctx context.Context, prompt string) (string, error) {
			start := time.Now()
			out, err := next.Predict(ctx, prompt)
			if err != nil {
				logger.Debug("model call failed",
					"prompt_bytes", len(prompt),
					"duration", time.Since(start),
					"class", Classify(err).String(),
					"error", err,
				)
				return out, err
			}
			logger.Debug("model call finished",
				"prompt_bytes", len(prompt),
				"completion_bytes", len(out),
				"duration", time.Since(start),
			)
			return out, nil
		})
	}
}
