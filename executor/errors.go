package executor

import (
	"errors"
	"fmt"

	"github.com/spetersoncode/toolrun/internal/retry"
)

var (
	// ErrNoAttempts is returned when a retrying call is given zero attempts.
	ErrNoAttempts = retry.ErrNoAttempts

	// ErrRetryExhausted is matched by every *RetryExhaustedError.
	ErrRetryExhausted = errors.New("executor: retries exhausted")

	// ErrAllAttemptsTimedOut is matched by a *RetryExhaustedError when no
	// attempt returned before its deadline.
	ErrAllAttemptsTimedOut = errors.New("executor: all attempts timed out")

	// ErrNoContent is returned by Prompt when the response carries no text.
	ErrNoContent = errors.New("executor: response has no content")
)

// RetryExhaustedError is returned by CompleteWithRetry when every attempt
// failed or timed out.
type RetryExhaustedError struct {
	Attempts int
	Timeouts int
	// Last is the most recent error an attempt returned. It is nil when
	// every attempt timed out.
	Last error
}

func (e *RetryExhaustedError) Error() string {
	if e.Last == nil {
		return fmt.Sprintf("executor: all %d attempts timed out", e.Attempts)
	}
	return fmt.Sprintf("executor: %d attempts failed, %d timed out: %v", e.Attempts, e.Timeouts, e.Last)
}

func (e *RetryExhaustedError) Unwrap() []error {
	if e.Last == nil {
		return []error{ErrRetryExhausted, ErrAllAttemptsTimedOut}
	}
	return []error{ErrRetryExhausted, e.Last}
}
