package executor

import (
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/spetersoncode/toolrun/budget"
	"github.com/spetersoncode/toolrun/debug"
	"github.com/spetersoncode/toolrun/internal/metrics"
)

// Option configures an Executor.
type Option func(*Executor)

// WithBudget charges every response's token usage to t.
func WithBudget(t *budget.Tracker) Option {
	return func(e *Executor) {
		e.budget = t
	}
}

// WithRecorder captures every request and response.
func WithRecorder(r *debug.Recorder) Option {
	return func(e *Executor) {
		e.recorder = r
	}
}

// WithLogger sets the executor logger.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Executor) {
		e.logger = l
	}
}

// WithMetrics records completion counts, latencies, timeouts and tokens.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Executor) {
		e.metrics = m
	}
}

// WithRateLimit limits provider calls to rps per second with the given burst.
// A non-positive rps disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(e *Executor) {
		if rps <= 0 {
			e.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		e.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}
