package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/spetersoncode/toolrun/tool"
)

// ServerOption configures a Server.
type ServerOption func(*serverConfig)

type serverConfig struct {
	name    string
	version string
	logger  zerolog.Logger
}

// WithName sets the server name reported to MCP clients.
func WithName(name string) ServerOption {
	return func(c *serverConfig) {
		c.name = name
	}
}

// WithVersion sets the server version reported to MCP clients.
func WithVersion(version string) ServerOption {
	return func(c *serverConfig) {
		c.version = version
	}
}

// WithLogger sets the logger used for tool call logging.
func WithLogger(l zerolog.Logger) ServerOption {
	return func(c *serverConfig) {
		c.logger = l
	}
}

// NewServer creates an MCP server exposing every tool registered in
// registry at the time of the call. Calls go through Registry.Dispatch, so
// arguments are validated against the tool schema before the tool runs.
// Any dispatch failure is reported to the client as an error result.
func NewServer(registry *tool.Registry, opts ...ServerOption) *server.MCPServer {
	cfg := &serverConfig{
		name:    "toolrun",
		version: "1.0.0",
		logger:  log.Logger,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	s := server.NewMCPServer(
		cfg.name,
		cfg.version,
		server.WithToolCapabilities(false),
	)
	for _, def := range registry.Catalog() {
		s.AddTool(ToMCPTool(def), dispatchHandler(registry, def.Name, cfg.logger))
	}
	return s
}

func dispatchHandler(registry *tool.Registry, name string, logger zerolog.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := "{}"
		if req.Params.Arguments != nil {
			data, err := json.Marshal(req.Params.Arguments)
			if err != nil {
				return mcp.NewToolResultErrorFromErr("invalid arguments", err), nil
			}
			args = string(data)
		}

		out, err := registry.Dispatch(ctx, name, args)
		if err != nil {
			logger.Warn().Err(err).Str("tool", name).Msg("mcp tool call failed")
			return mcp.NewToolResultError(err.Error()), nil
		}
		logger.Debug().Str("tool", name).Int("bytes", len(out)).Msg("mcp tool call")
		return mcp.NewToolResultText(out), nil
	}
}

// ServeStdio serves registry over stdin/stdout until the input closes.
func ServeStdio(registry *tool.Registry, opts ...ServerOption) error {
	return server.ServeStdio(NewServer(registry, opts...))
}
