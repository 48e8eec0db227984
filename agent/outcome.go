package agent

import ai "github.com/spetersoncode/toolrun"

// TurnKind classifies a completion.
type TurnKind string

const (
	TurnToolCalls TurnKind = "tool_calls"
	TurnRefusal   TurnKind = "refusal"
	TurnMessage   TurnKind = "message"
)

// Turn is one classified completion. ToolCalls is set for TurnToolCalls,
// Text for the other kinds.
type Turn struct {
	Kind      TurnKind
	ToolCalls []ai.ToolCall
	Text      string
}

// OutcomeKind is the decision a driver makes about a turn.
type OutcomeKind int

const (
	// OutcomeContinue issues another turn.
	OutcomeContinue OutcomeKind = iota
	// OutcomeUnexpected ends the run with a reply the driver did not want.
	OutcomeUnexpected
	// OutcomeOut ends the run with a value.
	OutcomeOut
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeContinue:
		return "continue"
	case OutcomeUnexpected:
		return "unexpected"
	case OutcomeOut:
		return "out"
	default:
		return "unknown"
	}
}

// Outcome is the result of applying a driver policy to a Turn.
type Outcome[T any] struct {
	Kind  OutcomeKind
	Text  string
	Value T
}

// Continue asks for another turn.
func Continue[T any]() Outcome[T] {
	return Outcome[T]{Kind: OutcomeContinue}
}

// Unexpected ends the run with text the driver did not accept.
func Unexpected[T any](text string) Outcome[T] {
	return Outcome[T]{Kind: OutcomeUnexpected, Text: text}
}

// Out ends the run with v.
func Out[T any](v T) Outcome[T] {
	return Outcome[T]{Kind: OutcomeOut, Value: v}
}
