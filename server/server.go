// Package server exposes the report engine over HTTP. The surface is small:
// one report endpoint plus a health check, with request-scoped logging and
// request IDs handled in middleware.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/ballpark-labs/reportd/mcp"
	"github.com/ballpark-labs/reportd/report"
	"github.com/rs/zerolog"
)

// Generator runs a report request to completion and returns the HTML document.
type Generator interface {
	GenerateDocument(ctx context.Context, req *report.Request) (string, error)
}

// ToolLister exposes the tool gateway's catalog.
type ToolLister interface {
	ListTools(ctx context.Context) ([]mcp.ToolDefinition, error)
}

// Defaults fill request fields the caller left empty.
type Defaults struct {
	Model     string
	MaxTokens int64
}

type Server struct {
	engine   Generator
	tools    ToolLister
	defaults Defaults
	logger   zerolog.Logger
	mux      *http.ServeMux
}

func NewServer(engine Generator, tools ToolLister, defaults Defaults, logger zerolog.Logger) *Server {
	s := &Server{
		engine:   engine,
		tools:    tools,
		defaults: defaults,
		logger:   logger.With().Str("component", "httpServer").Logger(),
		mux:      http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("POST /v1/reports", s.handleGenerateReport)
	s.mux.HandleFunc("GET /healthz", s.handleHealthz)
}

// Handler returns the full middleware-wrapped handler chain.
func (s *Server) Handler() http.Handler {
	return s.withRequestID(s.withAccessLog(s.mux))
}

func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info().Str("addr", addr).Msg("HTTP server listening")
	return srv.ListenAndServe()
}
