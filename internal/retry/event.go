package retry

import "time"

// EventType identifies the kind of event occurring during retry execution.
type EventType string

const (
	// EventAttemptStart fires before each attempt.
	EventAttemptStart EventType = "attempt_start"

	// EventAttemptFailed fires after an attempt returned an error.
	EventAttemptFailed EventType = "attempt_failed"

	// EventAttemptTimeout fires when an attempt is abandoned at its deadline.
	EventAttemptTimeout EventType = "attempt_timeout"

	// EventAborted fires when a fatal error ends the loop early.
	EventAborted EventType = "aborted"

	// EventSuccess fires when an attempt succeeds.
	EventSuccess EventType = "success"

	// EventExhausted fires when all attempts are used up.
	EventExhausted EventType = "exhausted"
)

// Event represents an observable occurrence during retry execution.
type Event struct {
	Type EventType

	// Attempt is the current attempt number (1-indexed).
	Attempt     int
	MaxAttempts int

	// Error contains the error from a failed attempt.
	Error error

	// Delay is the deadline that expired (for EventAttemptTimeout).
	Delay time.Duration

	// Transient indicates whether the error looks temporary.
	Transient bool

	Timestamp time.Time
}

// emit sends an event with timestamp to the channel without blocking.
func emit(ch chan<- Event, event Event) {
	if ch == nil {
		return
	}
	event.Timestamp = time.Now()
	select {
	case ch <- event:
	default:
	}
}
