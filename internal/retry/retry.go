// Package retry runs an operation repeatedly under a per-attempt deadline.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNoAttempts is returned when MaxAttempts is zero.
var ErrNoAttempts = errors.New("retry: max attempts is zero")

// Config controls the attempt loop.
type Config struct {
	// MaxAttempts is the number of attempts. Zero is a configuration error.
	MaxAttempts int

	// Timeout bounds each attempt. Zero means unbounded.
	Timeout time.Duration

	// Fatal reports errors that end the loop without further attempts.
	// Nil treats every error as retryable.
	Fatal func(error) bool
}

// ExhaustedError is returned when every attempt failed or timed out.
type ExhaustedError struct {
	Attempts int
	Timeouts int
	// Last is the most recent error an attempt returned, nil when every
	// attempt timed out.
	Last error
}

func (e *ExhaustedError) Error() string {
	if e.Last == nil {
		return fmt.Sprintf("retry: all %d attempts timed out", e.Attempts)
	}
	return fmt.Sprintf("retry: %d attempts failed (%d timed out): %v", e.Attempts, e.Timeouts, e.Last)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Last
}

type result[T any] struct {
	value T
	err   error
}

// Do calls fn up to cfg.MaxAttempts times and returns the first success.
//
// Each attempt runs in its own goroutine with a context derived from ctx.
// An attempt still running at cfg.Timeout is abandoned: its context is
// cancelled, it is not awaited, and the next attempt starts at once.
// There is no delay between attempts.
//
// Cancellation of ctx and errors matched by cfg.Fatal are returned as-is.
// Otherwise a failed run returns *ExhaustedError.
//
// Events are sent non-blocking; pass nil to disable them.
func Do[T any](ctx context.Context, cfg Config, events chan<- Event, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if cfg.MaxAttempts <= 0 {
		return zero, ErrNoAttempts
	}

	var (
		last     error
		timeouts int
	)
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		emit(events, Event{Type: EventAttemptStart, Attempt: attempt, MaxAttempts: cfg.MaxAttempts})

		r, timedOut := runAttempt(ctx, cfg.Timeout, fn)
		if timedOut {
			timeouts++
			emit(events, Event{Type: EventAttemptTimeout, Attempt: attempt, MaxAttempts: cfg.MaxAttempts, Delay: cfg.Timeout})
			continue
		}
		if r.err == nil {
			emit(events, Event{Type: EventSuccess, Attempt: attempt, MaxAttempts: cfg.MaxAttempts})
			return r.value, nil
		}
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		last = r.err
		if cfg.Fatal != nil && cfg.Fatal(r.err) {
			emit(events, Event{Type: EventAborted, Attempt: attempt, MaxAttempts: cfg.MaxAttempts, Error: r.err})
			return zero, r.err
		}
		emit(events, Event{
			Type:        EventAttemptFailed,
			Attempt:     attempt,
			MaxAttempts: cfg.MaxAttempts,
			Error:       r.err,
			Transient:   IsTransient(r.err),
		})
	}

	emit(events, Event{Type: EventExhausted, Attempt: cfg.MaxAttempts, MaxAttempts: cfg.MaxAttempts, Error: last})
	return zero, &ExhaustedError{Attempts: cfg.MaxAttempts, Timeouts: timeouts, Last: last}
}

// runAttempt returns the attempt's result, or timedOut when the deadline
// fired first. Cancellation of ctx is reported as an error result.
func runAttempt[T any](ctx context.Context, timeout time.Duration, fn func(ctx context.Context) (T, error)) (result[T], bool) {
	attemptCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan result[T], 1)
	go func() {
		v, err := fn(attemptCtx)
		done <- result[T]{value: v, err: err}
	}()

	var deadline <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		deadline = timer.C
	}

	select {
	case r := <-done:
		return r, false
	case <-deadline:
		return result[T]{}, true
	case <-ctx.Done():
		return result[T]{err: ctx.Err()}, false
	}
}
