package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"testing"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ai "github.com/spetersoncode/toolrun"
	"github.com/spetersoncode/toolrun/tool"
)

type addArgs struct {
	A int `json:"a" jsonschema:"required"`
	B int `json:"b" jsonschema:"required"`
}

type echoArgs struct {
	Text string `json:"text" jsonschema:"required"`
}

func sourceRegistry() *tool.Registry {
	return tool.NewRegistry().Add(
		tool.MustNew("add", "Add numbers", func(ctx context.Context, args addArgs) (string, error) {
			return strconv.Itoa(args.A + args.B), nil
		}),
		tool.MustNew("echo", "Echo text", func(ctx context.Context, args echoArgs) (string, error) {
			return args.Text, nil
		}),
		tool.MustNew("fail", "Always fails", func(ctx context.Context, args struct{}) (string, error) {
			return "", errors.New("disk on fire")
		}),
	)
}

func startClient(t *testing.T, s *server.MCPServer) *client.Client {
	t.Helper()
	c, err := client.NewInProcessClient(s)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, c.Start(ctx))
	t.Cleanup(func() { c.Close() })

	_, err = c.Initialize(ctx, mcp.InitializeRequest{
		Params: mcp.InitializeParams{
			ProtocolVersion: mcp.LATEST_PROTOCOL_VERSION,
			ClientInfo:      mcp.Implementation{Name: "test-client", Version: "1.0.0"},
		},
	})
	require.NoError(t, err)
	return c
}

func TestToMCPTool(t *testing.T) {
	t.Run("passes the schema through", func(t *testing.T) {
		schema := json.RawMessage(`{"type":"object","properties":{"name":{"type":"string"}}}`)
		got := ToMCPTool(ai.Tool{Name: "greet", Description: "Greet someone", Parameters: schema})

		assert.Equal(t, "greet", got.Name)
		assert.Equal(t, "Greet someone", got.Description)
		assert.Equal(t, schema, got.RawInputSchema)
	})

	t.Run("missing schema becomes an empty object", func(t *testing.T) {
		got := ToMCPTool(ai.Tool{Name: "simple"})
		assert.JSONEq(t, `{"type":"object","properties":{}}`, string(got.RawInputSchema))
	})
}

func TestFromMCPTool(t *testing.T) {
	t.Run("raw schema", func(t *testing.T) {
		got := FromMCPTool(mcp.NewToolWithRawSchema("weather", "Get weather", json.RawMessage(`{"type":"object"}`)))

		assert.Equal(t, "weather", got.Name)
		assert.JSONEq(t, `{"type":"object"}`, string(got.Parameters))
	})

	t.Run("structured schema", func(t *testing.T) {
		got := FromMCPTool(mcp.NewTool("search",
			mcp.WithDescription("Search the web"),
			mcp.WithString("query", mcp.Required(), mcp.Description("Search query")),
		))

		var schema map[string]any
		require.NoError(t, json.Unmarshal(got.Parameters, &schema))
		assert.Equal(t, "object", schema["type"])
		assert.Contains(t, schema["properties"], "query")
		assert.Equal(t, []any{"query"}, schema["required"])
	})
}

func TestCallRequest(t *testing.T) {
	req := callRequest("add", `{"a": 1, "b": 2}`)
	assert.Equal(t, "add", req.Params.Name)
	assert.Equal(t, map[string]any{"a": float64(1), "b": float64(2)}, req.Params.Arguments)

	empty := callRequest("ping", "")
	assert.Nil(t, empty.Params.Arguments)
}

func TestResultText(t *testing.T) {
	t.Run("joins text content", func(t *testing.T) {
		result := &mcp.CallToolResult{Content: []mcp.Content{
			mcp.NewTextContent("one"),
			mcp.NewTextContent("two"),
		}}
		assert.Equal(t, "one\ntwo", resultText(result))
	})

	t.Run("falls back to structured content", func(t *testing.T) {
		result := &mcp.CallToolResult{StructuredContent: map[string]any{"n": 3}}
		assert.JSONEq(t, `{"n":3}`, resultText(result))
	})
}

func TestServer(t *testing.T) {
	ctx := context.Background()
	c := startClient(t, NewServer(sourceRegistry(), WithName("test-server")))

	t.Run("lists registry tools", func(t *testing.T) {
		result, err := c.ListTools(ctx, mcp.ListToolsRequest{})
		require.NoError(t, err)

		names := make([]string, len(result.Tools))
		for i, tl := range result.Tools {
			names[i] = tl.Name
		}
		assert.ElementsMatch(t, []string{"add", "echo", "fail"}, names)
	})

	t.Run("calls a tool", func(t *testing.T) {
		result, err := c.CallTool(ctx, mcp.CallToolRequest{Params: mcp.CallToolParams{
			Name:      "echo",
			Arguments: map[string]any{"text": "hello"},
		}})
		require.NoError(t, err)

		assert.False(t, result.IsError)
		assert.Equal(t, "hello", resultText(result))
	})

	t.Run("schema mismatch is an error result", func(t *testing.T) {
		result, err := c.CallTool(ctx, mcp.CallToolRequest{Params: mcp.CallToolParams{
			Name:      "add",
			Arguments: map[string]any{"a": "one"},
		}})
		require.NoError(t, err)

		assert.True(t, result.IsError)
		assert.Contains(t, resultText(result), "add")
	})

	t.Run("tool error is an error result", func(t *testing.T) {
		result, err := c.CallTool(ctx, mcp.CallToolRequest{Params: mcp.CallToolParams{Name: "fail"}})
		require.NoError(t, err)

		assert.True(t, result.IsError)
		assert.Contains(t, resultText(result), "disk on fire")
	})
}

func TestRemote(t *testing.T) {
	ctx := context.Background()

	connect := func(t *testing.T) *Remote {
		t.Helper()
		c, err := client.NewInProcessClient(NewServer(sourceRegistry()))
		require.NoError(t, err)
		remote, err := Connect(ctx, c)
		require.NoError(t, err)
		t.Cleanup(func() { remote.Close() })
		return remote
	}

	t.Run("fetches tool descriptors", func(t *testing.T) {
		remote := connect(t)

		tools := remote.Tools()
		require.Len(t, tools, 3)
		byName := map[string]ai.Tool{}
		for _, tl := range tools {
			byName[tl.Name] = tl
		}
		assert.Equal(t, "Add numbers", byName["add"].Description)
		assert.NotEmpty(t, byName["add"].Parameters)
	})

	t.Run("registered tools dispatch remotely", func(t *testing.T) {
		remote := connect(t)
		local := tool.NewRegistry()
		require.NoError(t, remote.Register(local))

		assert.Equal(t, []string{"add", "echo", "fail"}, local.Names())

		out, err := local.Dispatch(ctx, "add", `{"a": 10, "b": 5}`)
		require.NoError(t, err)
		assert.Equal(t, "15", out)
	})

	t.Run("arguments are validated locally", func(t *testing.T) {
		remote := connect(t)
		local := tool.NewRegistry()
		require.NoError(t, remote.Register(local))

		_, err := local.Dispatch(ctx, "echo", `{}`)
		assert.ErrorIs(t, err, tool.ErrSchemaMismatch)
	})

	t.Run("remote failures are tool errors", func(t *testing.T) {
		remote := connect(t)

		_, err := remote.Call(ctx, "fail", "{}")

		var toolErr *ToolError
		require.ErrorAs(t, err, &toolErr)
		assert.Equal(t, "fail", toolErr.Tool)
		assert.Contains(t, toolErr.Message, "disk on fire")
		assert.ErrorIs(t, err, ErrToolFailed)
	})

	t.Run("refresh keeps the list", func(t *testing.T) {
		remote := connect(t)
		require.NoError(t, remote.Refresh(ctx))
		assert.Len(t, remote.Tools(), 3)
	})
}
