package agent

import (
	"errors"
	"fmt"

	ai "github.com/spetersoncode/toolrun"
)

// Sentinel errors for agent termination conditions.
var (
	// ErrUnsupportedResponseShape indicates a completion that is neither
	// tool calls, a refusal nor a message.
	ErrUnsupportedResponseShape = errors.New("agent: unsupported response shape")

	// ErrUnexpected indicates a terminal reply the driver does not accept,
	// such as plain text when a tool call was required.
	ErrUnexpected = errors.New("agent: unexpected reply")

	// ErrMaxStepsReached indicates the agent hit the step limit.
	ErrMaxStepsReached = errors.New("agent: maximum steps reached")

	// ErrAgentTimeout indicates the overall timeout was exceeded.
	ErrAgentTimeout = errors.New("agent: timeout exceeded")
)

// UnsupportedResponseError carries the finish reason of a response that
// could not be classified.
type UnsupportedResponseError struct {
	FinishReason ai.FinishReason
}

func (e *UnsupportedResponseError) Error() string {
	if e.FinishReason == "" {
		return "agent: unsupported response shape: no choices"
	}
	return fmt.Sprintf("agent: unsupported response shape (finish reason %q)", e.FinishReason)
}

func (e *UnsupportedResponseError) Is(target error) bool {
	return target == ErrUnsupportedResponseShape
}

// UnexpectedError carries the text of an unaccepted terminal reply.
type UnexpectedError struct {
	Text string
}

func (e *UnexpectedError) Error() string {
	return fmt.Sprintf("agent: unexpected reply: %s", e.Text)
}

func (e *UnexpectedError) Is(target error) bool {
	return target == ErrUnexpected
}
