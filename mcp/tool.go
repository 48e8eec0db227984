// Package mcp bridges a tool.Registry and the Model Context Protocol.
//
// NewServer exposes every tool of a registry to MCP clients. Remote works
// the other way round: it connects to an MCP server and registers the
// server's tools into a local registry, so agents dispatch them like any
// other tool.
//
//	remote, err := mcp.DialStdio(ctx, "./file-server", nil)
//	if err != nil {
//	    return err
//	}
//	defer remote.Close()
//	if err := remote.Register(registry); err != nil {
//	    return err
//	}
package mcp

import (
	"encoding/json"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/samber/lo"

	ai "github.com/spetersoncode/toolrun"
)

// emptyObjectSchema is used for tools that declare no parameters.
var emptyObjectSchema = json.RawMessage(`{"type":"object","properties":{}}`)

// ToMCPTool converts a tool descriptor to an MCP tool. The parameters
// schema is passed through as the raw input schema.
func ToMCPTool(t ai.Tool) mcp.Tool {
	schema := t.Parameters
	if len(schema) == 0 {
		schema = emptyObjectSchema
	}
	return mcp.NewToolWithRawSchema(t.Name, t.Description, schema)
}

// FromMCPTool converts an MCP tool to a tool descriptor, preferring the raw
// input schema when the server sent one.
func FromMCPTool(t mcp.Tool) ai.Tool {
	schema := t.RawInputSchema
	if len(schema) == 0 {
		if data, err := json.Marshal(t.InputSchema); err == nil {
			schema = data
		}
	}
	return ai.Tool{
		Name:        t.Name,
		Description: t.Description,
		Parameters:  schema,
	}
}

// callRequest builds the MCP request for a tool call. Arguments that are
// not a JSON object are sent as none.
func callRequest(name, rawArgs string) mcp.CallToolRequest {
	var args map[string]any
	if strings.TrimSpace(rawArgs) != "" {
		_ = json.Unmarshal([]byte(rawArgs), &args)
	}
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

// resultText flattens a tool result to the text handed back to the model.
// Non-text content is rendered as JSON.
func resultText(result *mcp.CallToolResult) string {
	parts := lo.FilterMap(result.Content, func(c mcp.Content, _ int) (string, bool) {
		switch content := c.(type) {
		case mcp.TextContent:
			return content.Text, true
		case *mcp.TextContent:
			return content.Text, true
		default:
			data, err := json.Marshal(content)
			return string(data), err == nil
		}
	})
	if result.StructuredContent != nil && len(parts) == 0 {
		if data, err := json.Marshal(result.StructuredContent); err == nil {
			parts = append(parts, string(data))
		}
	}
	return strings.Join(parts, "\n")
}
