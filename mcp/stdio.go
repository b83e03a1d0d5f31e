package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/client"
	mcpgo "github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog"
)

// StdioTransport implements Transport over a spawned MCP server process.
type StdioTransport struct {
	client  *client.Client
	command string
	logger  zerolog.Logger
}

// NewStdioTransport creates a stdio transport for the given command line.
// A command containing spaces is split into command and leading arguments.
func NewStdioTransport(logger zerolog.Logger, command string, args, env []string) (*StdioTransport, error) {
	if command == "" {
		return nil, fmt.Errorf("command is required for stdio transport")
	}

	parts := strings.Fields(command)
	cmd := parts[0]
	cmdArgs := append(parts[1:], args...)

	logger = logger.With().Str("component", "mcpStdio").Str("command", cmd).Logger()
	logger.Info().Strs("args", cmdArgs).Msg("Creating stdio MCP transport")

	mcpClient, err := client.NewStdioMCPClient(cmd, env, cmdArgs...)
	if err != nil {
		return nil, fmt.Errorf("failed to create stdio MCP client: %w", err)
	}

	return &StdioTransport{
		client:  mcpClient,
		command: cmd,
		logger:  logger,
	}, nil
}

// Start initializes the MCP session.
func (t *StdioTransport) Start(ctx context.Context) error {
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

	// The spawned process transport is already running; only the protocol
	// handshake remains.
	if _, err := t.client.Initialize(ctx, initReq); err != nil {
		return fmt.Errorf("failed to initialize MCP client: %w", err)
	}

	t.logger.Info().Msg("MCP stdio session started")
	return nil
}

// ListTools returns all tools available from the MCP server.
func (t *StdioTransport) ListTools(ctx context.Context) ([]ToolDefinition, error) {
	result, err := t.client.ListTools(ctx, mcpgo.ListToolsRequest{})
	if err != nil {
		return nil, fmt.Errorf("failed to list tools: %w", err)
	}
	t.logger.Info().Int("tool_count", len(result.Tools)).Msg("Received tools from MCP server")
	return fromMCPTools(result.Tools), nil
}

// CallTool invokes a tool on the MCP server.
func (t *StdioTransport) CallTool(ctx context.Context, name string, args map[string]interface{}) (*ToolResult, error) {
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
func (t *StdioTransport) Close() error {
	if t.client != nil {
		return t.client.Close()
	}
	return nil
}
