package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/xeipuuv/gojsonschema"

	ai "github.com/spetersoncode/toolrun"
)

// Tool is the capability every registered tool provides: a descriptor to
// advertise to the model and an invocation over raw JSON arguments.
type Tool interface {
	Definition() ai.Tool
	Call(ctx context.Context, args json.RawMessage) (string, error)
}

// Option configures a tool's descriptor.
type Option func(*ai.Tool)

// Strict marks the tool for strict schema adherence on providers that support it.
func Strict() Option {
	return func(t *ai.Tool) {
		t.Strict = true
	}
}

// Typed is a tool whose arguments decode into T.
type Typed[T any] struct {
	def    ai.Tool
	schema *gojsonschema.Schema
	fn     TypedHandler[T]
}

// New creates a typed tool. The schema is generated from T.
// fn may be nil for tools that only mark a terminal answer and are never invoked.
func New[T any](name, description string, fn TypedHandler[T], opts ...Option) (*Typed[T], error) {
	params, err := ai.SchemaFor[T]()
	if err != nil {
		return nil, err
	}
	def := ai.Tool{Name: name, Description: description, Parameters: params}
	for _, opt := range opts {
		opt(&def)
	}

	compiled, err := compileSchema(def)
	if err != nil {
		return nil, err
	}
	return &Typed[T]{def: def, schema: compiled, fn: fn}, nil
}

// MustNew is like New but panics on error.
func MustNew[T any](name, description string, fn TypedHandler[T], opts ...Option) *Typed[T] {
	t, err := New(name, description, fn, opts...)
	if err != nil {
		panic(err)
	}
	return t
}

// Name returns the tool name.
func (t *Typed[T]) Name() string { return t.def.Name }

// Definition returns the tool descriptor.
func (t *Typed[T]) Definition() ai.Tool { return t.def }

// Parse validates raw arguments against the schema and decodes them into T.
// Failures are *SchemaMismatchError.
func (t *Typed[T]) Parse(raw string) (T, error) {
	var args T
	if err := validate(t.def, t.schema, raw); err != nil {
		return args, err
	}
	if err := json.Unmarshal([]byte(normalizeArgs(raw)), &args); err != nil {
		return args, &SchemaMismatchError{Tool: t.def.Name, Schema: string(t.def.Parameters), Raw: raw, Err: err}
	}
	return args, nil
}

// Call parses the arguments and invokes the handler.
func (t *Typed[T]) Call(ctx context.Context, raw json.RawMessage) (string, error) {
	args, err := t.Parse(string(raw))
	if err != nil {
		return "", err
	}
	if t.fn == nil {
		return "", fmt.Errorf("%w: %s", ErrNoHandler, t.def.Name)
	}
	return t.fn(ctx, args)
}

// Raw is a tool with a caller-supplied schema and an untyped handler.
type Raw struct {
	def     ai.Tool
	schema  *gojsonschema.Schema
	handler Handler
}

// NewRaw creates a tool from an existing descriptor and handler.
func NewRaw(def ai.Tool, handler Handler) (*Raw, error) {
	if len(def.Parameters) == 0 {
		def.Parameters = json.RawMessage(`{"type":"object","properties":{}}`)
	}
	compiled, err := compileSchema(def)
	if err != nil {
		return nil, err
	}
	return &Raw{def: def, schema: compiled, handler: handler}, nil
}

// Definition returns the tool descriptor.
func (t *Raw) Definition() ai.Tool { return t.def }

// Call validates the arguments and invokes the handler.
func (t *Raw) Call(ctx context.Context, raw json.RawMessage) (string, error) {
	args := normalizeArgs(string(raw))
	if err := validate(t.def, t.schema, args); err != nil {
		return "", err
	}
	if t.handler == nil {
		return "", fmt.Errorf("%w: %s", ErrNoHandler, t.def.Name)
	}
	return t.handler(ctx, ai.ToolCall{Name: t.def.Name, Arguments: args})
}

func compileSchema(def ai.Tool) (*gojsonschema.Schema, error) {
	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(def.Parameters))
	if err != nil {
		return nil, fmt.Errorf("tool: invalid schema for %q: %w", def.Name, err)
	}
	return s, nil
}

// normalizeArgs treats empty arguments as an empty object; some models send
// "" for tools that take no parameters.
func normalizeArgs(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return "{}"
	}
	return raw
}

func validate(def ai.Tool, schema *gojsonschema.Schema, raw string) error {
	result, err := schema.Validate(gojsonschema.NewStringLoader(normalizeArgs(raw)))
	if err != nil {
		return &SchemaMismatchError{Tool: def.Name, Schema: string(def.Parameters), Raw: raw, Err: err}
	}
	if !result.Valid() {
		return &SchemaMismatchError{
			Tool:   def.Name,
			Schema: string(def.Parameters),
			Raw:    raw,
			Details: lo.Map(result.Errors(), func(e gojsonschema.ResultError, _ int) string {
				return e.String()
			}),
		}
	}
	return nil
}
