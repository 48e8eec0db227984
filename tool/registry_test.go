package tool

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ai "github.com/spetersoncode/toolrun"
)

type searchArgs struct {
	Query string `json:"query" jsonschema:"required,description=Search query"`
	Limit int    `json:"limit,omitempty" jsonschema:"minimum=1"`
}

type calcArgs struct {
	A int `json:"a" jsonschema:"required"`
	B int `json:"b" jsonschema:"required"`
}

func searchTool(prefix string) *Typed[searchArgs] {
	return MustNew("search", "Search the web", func(ctx context.Context, args searchArgs) (string, error) {
		return prefix + args.Query, nil
	})
}

func TestRegistry_Register(t *testing.T) {
	t.Run("registers tools with Add", func(t *testing.T) {
		registry := NewRegistry().Add(
			searchTool("result: "),
			MustNew("calc", "Calculate sum", func(ctx context.Context, args calcArgs) (string, error) {
				return "calc", nil
			}),
		)

		assert.Equal(t, 2, registry.Len())
		assert.Equal(t, []string{"calc", "search"}, registry.Names())

		got, ok := registry.Get("search")
		require.True(t, ok)
		assert.Equal(t, "Search the web", got.Definition().Description)
	})

	t.Run("last registration wins", func(t *testing.T) {
		var logs bytes.Buffer
		registry := NewRegistry(WithLogger(zerolog.New(&logs).Level(zerolog.DebugLevel)))
		registry.Register(searchTool("first: "))
		registry.Register(searchTool("second: "))

		assert.Equal(t, 1, registry.Len())
		out, err := registry.Dispatch(context.Background(), "search", `{"query":"go"}`)
		require.NoError(t, err)
		assert.Equal(t, "second: go", out)
		assert.Contains(t, logs.String(), "tool replaced")
	})

	t.Run("RegisterFunc", func(t *testing.T) {
		registry := NewRegistry()
		err := RegisterFunc(registry, "calc", "Add", func(ctx context.Context, args calcArgs) (string, error) {
			return "ok", nil
		}, Strict())
		require.NoError(t, err)

		got, ok := registry.Get("calc")
		require.True(t, ok)
		assert.True(t, got.Definition().Strict)
	})

	t.Run("RegisterHandler rejects invalid schema", func(t *testing.T) {
		registry := NewRegistry()
		err := registry.RegisterHandler(ai.Tool{Name: "bad", Parameters: []byte(`{"type": 12}`)}, nil)
		assert.Error(t, err)
		assert.Zero(t, registry.Len())
	})

	t.Run("Unregister", func(t *testing.T) {
		registry := NewRegistry().Add(searchTool(""))
		registry.Unregister("search")
		registry.Unregister("missing")
		assert.Zero(t, registry.Len())
	})
}

func TestRegistry_Catalog(t *testing.T) {
	registry := NewRegistry().Add(
		MustNew("zeta", "", func(ctx context.Context, args calcArgs) (string, error) { return "", nil }),
		searchTool(""),
	)

	catalog := registry.Catalog()
	require.Len(t, catalog, 2)
	assert.Equal(t, "search", catalog[0].Name)
	assert.Equal(t, "zeta", catalog[1].Name)
	assert.JSONEq(t, string(searchTool("").Definition().Parameters), string(catalog[0].Parameters))
}

func TestRegistry_Dispatch(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	registry := NewRegistry().Add(
		searchTool("result: "),
		MustNew("fail", "Always fails", func(ctx context.Context, args calcArgs) (string, error) {
			return "", boom
		}),
	)

	t.Run("success returns text", func(t *testing.T) {
		out, err := registry.Dispatch(ctx, "search", `{"query":"golang","limit":3}`)
		require.NoError(t, err)
		assert.Equal(t, "result: golang", out)
	})

	t.Run("unknown tool", func(t *testing.T) {
		_, err := registry.Dispatch(ctx, "serch", `{}`)

		var unknown *UnknownToolError
		require.True(t, errors.As(err, &unknown))
		assert.Equal(t, "serch", unknown.Name)
		assert.Equal(t, []string{"search"}, unknown.Suggestions)
		assert.ErrorIs(t, err, ErrUnknownTool)
		assert.Contains(t, err.Error(), `did you mean "search"`)
		assert.True(t, IsRecoverable(err))
	})

	t.Run("unknown tool without suggestions", func(t *testing.T) {
		_, err := registry.Dispatch(ctx, "completely_different_name", `{}`)

		var unknown *UnknownToolError
		require.True(t, errors.As(err, &unknown))
		assert.Empty(t, unknown.Suggestions)
	})

	schemaCases := []struct {
		name string
		raw  string
	}{
		{name: "invalid json", raw: `{"query":`},
		{name: "missing required field", raw: `{"limit":2}`},
		{name: "wrong type", raw: `{"query":42}`},
		{name: "additional property", raw: `{"query":"x","extra":true}`},
		{name: "violates minimum", raw: `{"query":"x","limit":0}`},
		{name: "empty arguments", raw: ``},
	}
	for _, tc := range schemaCases {
		t.Run("schema mismatch: "+tc.name, func(t *testing.T) {
			_, err := registry.Dispatch(ctx, "search", tc.raw)

			var mismatch *SchemaMismatchError
			require.True(t, errors.As(err, &mismatch), "got %v", err)
			assert.Equal(t, "search", mismatch.Tool)
			assert.Equal(t, tc.raw, mismatch.Raw)
			assert.JSONEq(t, string(searchTool("").Definition().Parameters), mismatch.Schema)
			assert.ErrorIs(t, err, ErrSchemaMismatch)
			assert.True(t, IsRecoverable(err))
		})
	}

	t.Run("tool errors propagate unchanged", func(t *testing.T) {
		_, err := registry.Dispatch(ctx, "fail", `{"a":1,"b":2}`)
		assert.Same(t, boom, err)
		assert.False(t, IsRecoverable(err))
	})

	t.Run("Execute dispatches a call", func(t *testing.T) {
		out, err := registry.Execute(ctx, ai.ToolCall{ID: "1", Name: "search", Arguments: `{"query":"x"}`})
		require.NoError(t, err)
		assert.Equal(t, "result: x", out)
	})
}

func TestTyped_Parse(t *testing.T) {
	target := MustNew[calcArgs]("answer", "Final answer", nil)

	t.Run("valid arguments", func(t *testing.T) {
		args, err := target.Parse(`{"a":1,"b":2}`)
		require.NoError(t, err)
		assert.Equal(t, calcArgs{A: 1, B: 2}, args)
	})

	t.Run("invalid arguments", func(t *testing.T) {
		_, err := target.Parse(`{"a":"one"}`)
		assert.ErrorIs(t, err, ErrSchemaMismatch)
	})

	t.Run("call without handler", func(t *testing.T) {
		_, err := target.Call(context.Background(), []byte(`{"a":1,"b":2}`))
		assert.ErrorIs(t, err, ErrNoHandler)
	})
}

func TestRaw(t *testing.T) {
	t.Run("defaults to an empty object schema", func(t *testing.T) {
		raw, err := NewRaw(ai.Tool{Name: "ping"}, func(ctx context.Context, call ai.ToolCall) (string, error) {
			return "pong " + call.Arguments, nil
		})
		require.NoError(t, err)

		out, err := raw.Call(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, "pong {}", out)
	})

	t.Run("validates against the supplied schema", func(t *testing.T) {
		raw, err := NewRaw(ai.Tool{
			Name:       "echo",
			Parameters: []byte(`{"type":"object","properties":{"text":{"type":"string"}},"required":["text"]}`),
		}, func(ctx context.Context, call ai.ToolCall) (string, error) {
			return call.Arguments, nil
		})
		require.NoError(t, err)

		_, err = raw.Call(context.Background(), []byte(`{}`))
		assert.ErrorIs(t, err, ErrSchemaMismatch)
	})
}
