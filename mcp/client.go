// Package mcp implements the tool gateway client: a single shared connection to
// the external MCP tool-serving backend, exposing list/call operations.
package mcp

import (
	"context"

	"github.com/ballpark-labs/reportd/llm"
)

// ToolDefinition represents an MCP tool definition.
type ToolDefinition struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// ToolSpec converts the gateway definition into the canonical tool spec offered
// to the model. Schema fields absent from the MCP definition are left to the
// provider adapters' defaulting.
func (d ToolDefinition) ToolSpec() llm.ToolSpec {
	spec := llm.ToolSpec{
		Name:        d.Name,
		Description: d.Description,
		Schema:      llm.ToolSchema{Type: "object"},
	}
	if t, ok := d.InputSchema["type"].(string); ok && t != "" {
		spec.Schema.Type = t
	}
	if props, ok := d.InputSchema["properties"].(map[string]interface{}); ok {
		spec.Schema.Properties = props
	}
	switch req := d.InputSchema["required"].(type) {
	case []string:
		spec.Schema.Required = req
	case []interface{}:
		for _, name := range req {
			if s, ok := name.(string); ok {
				spec.Schema.Required = append(spec.Schema.Required, s)
			}
		}
	}
	return spec
}

// ToolResult is the gateway's answer to one tool invocation. Content is the
// serialized result payload; the core never interprets it beyond emptiness.
type ToolResult struct {
	Content string
	IsError bool
}

// Transport is one live connection to an MCP server. Implementations exist for
// stdio and streamable HTTP.
type Transport interface {
	// Start initializes the MCP session on the underlying connection.
	Start(ctx context.Context) error

	// ListTools returns all tools available from the MCP server.
	ListTools(ctx context.Context) ([]ToolDefinition, error)

	// CallTool invokes a tool on the MCP server with the given arguments.
	CallTool(ctx context.Context, name string, args map[string]interface{}) (*ToolResult, error)

	// Close closes the connection to the MCP server.
	Close() error
}
