package mcp

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// DialFunc establishes a new transport to the tool-serving backend.
type DialFunc func(ctx context.Context) (Transport, error)

// Gateway holds at most one live connection to the tool backend for the whole
// process. The connection is established lazily on first use; concurrent first
// callers share a single in-flight connect instead of racing independent ones.
// The connection's lifetime spans the process and is never torn down after a
// call. A failed connect resets the cached state so the next caller starts from
// scratch; there is no automatic retry.
type Gateway struct {
	dial   DialFunc
	names  *NameAdapter
	logger zerolog.Logger

	connect singleflight.Group
	mu      sync.Mutex
	conn    Transport
}

// NewGateway creates a Gateway that connects with dial on first use.
func NewGateway(dial DialFunc, logger zerolog.Logger) *Gateway {
	return &Gateway{
		dial:   dial,
		names:  NewNameAdapter(),
		logger: logger.With().Str("component", "toolGateway").Logger(),
	}
}

// transport returns the live connection, establishing it if needed.
func (g *Gateway) transport(ctx context.Context) (Transport, error) {
	g.mu.Lock()
	conn := g.conn
	g.mu.Unlock()
	if conn != nil {
		return conn, nil
	}

	v, err, shared := g.connect.Do("connect", func() (interface{}, error) {
		t, err := g.dial(ctx)
		if err != nil {
			return nil, err
		}
		if err := t.Start(ctx); err != nil {
			_ = t.Close()
			return nil, err
		}
		g.mu.Lock()
		g.conn = t
		g.mu.Unlock()
		return t, nil
	})
	if err != nil {
		// conn stays nil, so the next caller re-dials from scratch.
		return nil, fmt.Errorf("tool gateway connection failed: %w", err)
	}
	if shared {
		g.logger.Debug().Msg("Shared in-flight gateway connection")
	}
	return v.(Transport), nil
}

// ListTools lists the backend's tools with provider-safe names.
func (g *Gateway) ListTools(ctx context.Context) ([]ToolDefinition, error) {
	conn, err := g.transport(ctx)
	if err != nil {
		return nil, err
	}

	tools, err := conn.ListTools(ctx)
	if err != nil {
		return nil, err
	}

	for i := range tools {
		tools[i].Name = g.names.SafeName(tools[i].Name)
	}
	return tools, nil
}

// CallTool invokes one tool and returns its serialized result. Transport and
// protocol failures are wrapped with the tool name and returned as errors for
// the loop to convert into an error tool message. Application-level empty
// content is tolerated: logged and returned as-is, not treated as an error.
func (g *Gateway) CallTool(ctx context.Context, name string, args map[string]interface{}) (*ToolResult, error) {
	conn, err := g.transport(ctx)
	if err != nil {
		return nil, fmt.Errorf("tool %q: %w", name, err)
	}

	result, err := conn.CallTool(ctx, g.names.OriginalName(name), args)
	if err != nil {
		return nil, fmt.Errorf("tool %q: %w", name, err)
	}

	if result.Content == "" {
		g.logger.Warn().Str("tool", name).Msg("Tool returned empty content")
	}
	return result, nil
}

// Close tears down the live connection if one exists. Only the process shutdown
// path calls this.
func (g *Gateway) Close() error {
	g.mu.Lock()
	conn := g.conn
	g.conn = nil
	g.mu.Unlock()
	if conn != nil {
		return conn.Close()
	}
	return nil
}
