package tool

import (
	"context"

	ai "github.com/spetersoncode/toolrun"
)

// Handler is a function that executes a tool call and returns a result.
// The context supports cancellation and timeout.
// The call contains the tool name, ID, and arguments as a JSON string.
// Returns the result content string, or an error if execution failed.
type Handler func(ctx context.Context, call ai.ToolCall) (string, error)

// TypedHandler is a function that executes a tool call with typed arguments.
// The args parameter is decoded from the tool call's JSON arguments after
// they validate against the tool's schema.
type TypedHandler[T any] func(ctx context.Context, args T) (string, error)
