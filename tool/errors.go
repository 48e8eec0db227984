package tool

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownTool is matched by every *UnknownToolError.
	ErrUnknownTool = errors.New("tool: unknown tool")

	// ErrSchemaMismatch is matched by every *SchemaMismatchError.
	ErrSchemaMismatch = errors.New("tool: arguments do not match schema")

	// ErrNoHandler is returned when invoking a tool registered without a handler.
	ErrNoHandler = errors.New("tool: no handler")
)

// UnknownToolError is returned when a call references an unregistered tool.
type UnknownToolError struct {
	Name string
	// Suggestions lists registered names close to Name, best first.
	Suggestions []string
}

func (e *UnknownToolError) Error() string {
	if len(e.Suggestions) > 0 {
		return fmt.Sprintf("tool: unknown tool %q (did you mean %q?)", e.Name, e.Suggestions[0])
	}
	return fmt.Sprintf("tool: unknown tool %q", e.Name)
}

func (e *UnknownToolError) Is(target error) bool {
	return target == ErrUnknownTool
}

// SchemaMismatchError is returned when raw arguments fail to parse or
// validate against a tool's schema. It carries the schema and the raw text
// so the failure can be diagnosed or reported back to the model.
type SchemaMismatchError struct {
	Tool    string
	Schema  string
	Raw     string
	Details []string
	Err     error
}

func (e *SchemaMismatchError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "tool: arguments for %q do not match schema", e.Tool)
	if len(e.Details) > 0 {
		b.WriteString(": ")
		b.WriteString(strings.Join(e.Details, "; "))
	} else if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *SchemaMismatchError) Unwrap() error {
	return e.Err
}

func (e *SchemaMismatchError) Is(target error) bool {
	return target == ErrSchemaMismatch
}

// IsRecoverable reports whether err is a dispatch failure the model can fix
// on its own: an unknown tool name or malformed arguments.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrUnknownTool) || errors.Is(err, ErrSchemaMismatch)
}
