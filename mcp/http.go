package mcp

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/mark3labs/mcp-go/client"
	mcpgo "github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

// HTTPTransport implements Transport over MCP's streamable HTTP protocol.
type HTTPTransport struct {
	client  *client.Client
	baseURL string
	logger  zerolog.Logger
}

// NewHTTPTransport creates a streamable HTTP transport for the given base URL.
func NewHTTPTransport(logger zerolog.Logger, baseURL string) (*HTTPTransport, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("baseURL is required for HTTP transport")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid baseURL: %w", err)
	}

	mcpClient, err := client.NewStreamableHttpClient(baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP MCP client: %w", err)
	}

	return &HTTPTransport{
		client:  mcpClient,
		baseURL: baseURL,
		logger:  logger.With().Str("component", "mcpHTTP").Str("base_url", baseURL).Logger(),
	}, nil
}

// Start initializes the MCP session. Some servers require an explicit Initialize
// exchange before Start succeeds, so a failed Start falls back to that sequence.
func (t *HTTPTransport) Start(ctx context.Context) error {
	if err := t.client.Start(ctx); err == nil {
		t.logger.Info().Msg("MCP HTTP session started")
		return nil
	}

	initReq := mcpgo.InitializeRequest{
		Params: mcpgo.InitializeParams{
			ProtocolVersion: mcpgo.LATEST_PROTOCOL_VERSION,
			Capabilities:    mcpgo.ClientCapabilities{},
			ClientInfo: mcpgo.Implementation{
				Name:    "reportd",
				Version: "1.0.0",
			},
		},
	}
	if _, err := t.client.Initialize(ctx, initReq); err != nil {
		return fmt.Errorf("failed to initialize MCP client: %w", err)
	}
	if err := t.client.Start(ctx); err != nil {
		return fmt.Errorf("failed to start MCP client: %w", err)
	}

	t.logger.Info().Msg("MCP HTTP session started after explicit initialization")
	return nil
}

// ListTools returns all tools available from the MCP server.
func (t *HTTPTransport) ListTools(ctx context.Context) ([]ToolDefinition, error) {
	result, err := t.client.ListTools(ctx, mcpgo.ListToolsRequest{})
	if err != nil {
		return nil, fmt.Errorf("failed to list tools: %w", err)
	}
	t.logger.Info().Int("tool_count", len(result.Tools)).Msg("Received tools from MCP server")
	return fromMCPTools(result.Tools), nil
}

// CallTool invokes a tool on the MCP server.
func (t *HTTPTransport) CallTool(ctx context.Context, name string, args map[string]interface{}) (*ToolResult, error) {
	result, err := t.client.CallTool(ctx, mcpgo.CallToolRequest{
		Params: mcpgo.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	})
	if err != nil {
		return nil, err
	}
	return fromMCPResult(result), nil
}

// Close closes the connection to the MCP server.
func (t *HTTPTransport) Close() error {
	if t.client != nil {
		return t.client.Close()
	}
	return nil
}

// fromMCPTools converts mcp-go tool definitions to gateway definitions.
func fromMCPTools(tools []mcpgo.Tool) []ToolDefinition {
	return lo.Map(tools, func(tool mcpgo.Tool, _ int) ToolDefinition {
		inputSchema := make(map[string]interface{})
		inputSchema["type"] = tool.InputSchema.Type
		if tool.InputSchema.Properties != nil {
			inputSchema["properties"] = tool.InputSchema.Properties
		}
		if len(tool.InputSchema.Required) > 0 {
			inputSchema["required"] = tool.InputSchema.Required
		}

		return ToolDefinition{
			Name:        tool.Name,
			Description: tool.Description,
			InputSchema: inputSchema,
		}
	})
}

// fromMCPResult collapses an mcp-go call result into a serialized ToolResult.
func fromMCPResult(result *mcpgo.CallToolResult) *ToolResult {
	var texts []string
	for _, content := range result.Content {
		if textContent, ok := mcpgo.AsTextContent(content); ok {
			texts = append(texts, textContent.Text)
		} else if contentStr := mcpgo.GetTextFromContent(content); contentStr != "" {
			texts = append(texts, contentStr)
		}
	}
	return &ToolResult{
		Content: strings.Join(texts, "\n"),
		IsError: result.IsError,
	}
}
