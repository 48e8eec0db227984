package mcp

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"

	ai "github.com/spetersoncode/toolrun"
	"github.com/spetersoncode/toolrun/tool"
)

// ErrToolFailed is matched by errors a remote tool reports in its result.
var ErrToolFailed = errors.New("mcp: remote tool failed")

// ToolError carries the text of a failed remote tool call.
type ToolError struct {
	Tool    string
	Message string
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("mcp: tool %q failed: %s", e.Tool, e.Message)
}

func (e *ToolError) Is(target error) bool {
	return target == ErrToolFailed
}

// Remote is a session with an MCP server whose tools can be registered
// into a local tool.Registry. It is safe for concurrent use.
type Remote struct {
	client *client.Client

	mu    sync.RWMutex
	tools []ai.Tool
}

// DialStdio starts command as an MCP server subprocess and connects to it.
func DialStdio(ctx context.Context, command string, env []string, args ...string) (*Remote, error) {
	c, err := client.NewStdioMCPClient(command, env, args...)
	if err != nil {
		return nil, fmt.Errorf("mcp: start %s: %w", command, err)
	}
	// Stdio clients are started on creation.
	return initialize(ctx, c)
}

// Connect starts c, initializes a session and fetches the server's tool list.
func Connect(ctx context.Context, c *client.Client) (*Remote, error) {
	if err := c.Start(ctx); err != nil {
		return nil, fmt.Errorf("mcp: start client: %w", err)
	}
	return initialize(ctx, c)
}

func initialize(ctx context.Context, c *client.Client) (*Remote, error) {
	_, err := c.Initialize(ctx, mcp.InitializeRequest{
		Params: mcp.InitializeParams{
			ProtocolVersion: mcp.LATEST_PROTOCOL_VERSION,
			ClientInfo: mcp.Implementation{
				Name:    "toolrun",
				Version: "1.0.0",
			},
		},
	})
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("mcp: initialize: %w", err)
	}

	r := &Remote{client: c}
	if err := r.Refresh(ctx); err != nil {
		c.Close()
		return nil, err
	}
	return r, nil
}

// Refresh fetches the current tool list from the server.
func (r *Remote) Refresh(ctx context.Context) error {
	result, err := r.client.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		return fmt.Errorf("mcp: list tools: %w", err)
	}

	tools := make([]ai.Tool, len(result.Tools))
	for i, t := range result.Tools {
		tools[i] = FromMCPTool(t)
	}

	r.mu.Lock()
	r.tools = tools
	r.mu.Unlock()
	return nil
}

// Tools returns the descriptors from the last Refresh.
func (r *Remote) Tools() []ai.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ai.Tool, len(r.tools))
	copy(out, r.tools)
	return out
}

// Call invokes a remote tool. A result flagged as an error is returned as
// *ToolError.
func (r *Remote) Call(ctx context.Context, name, rawArgs string) (string, error) {
	result, err := r.client.CallTool(ctx, callRequest(name, rawArgs))
	if err != nil {
		return "", fmt.Errorf("mcp: call %s: %w", name, err)
	}
	text := resultText(result)
	if result.IsError {
		return "", &ToolError{Tool: name, Message: text}
	}
	return text, nil
}

// Register adds every remote tool to registry. Arguments are validated
// locally against the schema the server advertised before being sent.
func (r *Remote) Register(registry *tool.Registry) error {
	for _, def := range r.Tools() {
		name := def.Name
		err := registry.RegisterHandler(def, func(ctx context.Context, call ai.ToolCall) (string, error) {
			return r.Call(ctx, name, call.Arguments)
		})
		if err != nil {
			return fmt.Errorf("mcp: register %s: %w", name, err)
		}
	}
	return nil
}

// Close ends the session.
func (r *Remote) Close() error {
	return r.client.Close()
}
