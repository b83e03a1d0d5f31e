package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ballpark-labs/reportd/llm"
	"github.com/ballpark-labs/reportd/mcp"
	"github.com/ballpark-labs/reportd/report"
	"github.com/rs/zerolog"
)

type fakeEngine struct {
	doc     string
	err     error
	lastReq *report.Request
}

func (e *fakeEngine) GenerateDocument(_ context.Context, req *report.Request) (string, error) {
	e.lastReq = req
	return e.doc, e.err
}

type fakeToolLister struct {
	tools []mcp.ToolDefinition
	err   error
	calls int
}

func (l *fakeToolLister) ListTools(_ context.Context) ([]mcp.ToolDefinition, error) {
	l.calls++
	return l.tools, l.err
}

func newTestServer(engine Generator, tools ToolLister) *Server {
	return NewServer(engine, tools, Defaults{Model: "claude-sonnet-4-0", MaxTokens: 8192}, zerolog.Nop())
}

func postReport(t *testing.T, srv *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/reports", strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHandleGenerateReport_Success(t *testing.T) {
	engine := &fakeEngine{doc: "<!DOCTYPE html>\n<html><body>report</body></html>"}
	lister := &fakeToolLister{tools: []mcp.ToolDefinition{
		{Name: "lookup_player"},
		{Name: "get_standings"},
	}}
	srv := newTestServer(engine, lister)

	rec := postReport(t, srv, `{"prompt":"player report for Aaron Judge"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
	if rec.Body.String() != engine.doc {
		t.Errorf("body = %q", rec.Body.String())
	}

	// Defaults fill the fields the caller omitted; the whole catalog is offered.
	if engine.lastReq.Model != "claude-sonnet-4-0" {
		t.Errorf("model = %q", engine.lastReq.Model)
	}
	if engine.lastReq.MaxTokens != 8192 {
		t.Errorf("maxTokens = %d", engine.lastReq.MaxTokens)
	}
	if len(engine.lastReq.Tools) != 2 {
		t.Errorf("tools = %d, want full catalog", len(engine.lastReq.Tools))
	}
}

func TestHandleGenerateReport_SuppliedToolDefinitions(t *testing.T) {
	engine := &fakeEngine{doc: "<html></html>"}
	lister := &fakeToolLister{}
	srv := newTestServer(engine, lister)

	rec := postReport(t, srv, `{
		"prompt": "report",
		"availableTools": [{
			"name": "lookup_player",
			"description": "Find a player by name",
			"inputSchema": {
				"type": "object",
				"properties": {"name": {"type": "string"}},
				"required": ["name"]
			}
		}]
	}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	if len(engine.lastReq.Tools) != 1 {
		t.Fatalf("tools = %d, want 1", len(engine.lastReq.Tools))
	}
	tool := engine.lastReq.Tools[0]
	if tool.Name != "lookup_player" || tool.Description != "Find a player by name" {
		t.Errorf("tool = %+v", tool)
	}
	if _, ok := tool.Schema.Properties["name"]; !ok {
		t.Error("Supplied schema should reach the engine")
	}
	if len(tool.Schema.Required) != 1 || tool.Schema.Required[0] != "name" {
		t.Errorf("required = %v", tool.Schema.Required)
	}
	if lister.calls != 0 {
		t.Errorf("Fully specified tools should not touch the gateway, got %d catalog fetches", lister.calls)
	}
}

func TestHandleGenerateReport_NameOnlyToolsNarrowCatalog(t *testing.T) {
	engine := &fakeEngine{doc: "<html></html>"}
	lister := &fakeToolLister{tools: []mcp.ToolDefinition{
		{Name: "lookup_player", Description: "Find a player by name"},
		{Name: "get_standings"},
		{Name: "get_boxscore"},
	}}
	srv := newTestServer(engine, lister)

	rec := postReport(t, srv, `{"prompt":"report","availableTools":[{"name":"get_boxscore"},{"name":"lookup_player"}]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if len(engine.lastReq.Tools) != 2 {
		t.Fatalf("tools = %d, want 2", len(engine.lastReq.Tools))
	}
	names := []string{engine.lastReq.Tools[0].Name, engine.lastReq.Tools[1].Name}
	if names[0] != "get_boxscore" || names[1] != "lookup_player" {
		t.Errorf("names = %v; request order should be kept", names)
	}
	// Name-only entries pick up the catalog's definition.
	if engine.lastReq.Tools[1].Description != "Find a player by name" {
		t.Errorf("description = %q, want the catalog's", engine.lastReq.Tools[1].Description)
	}
}

func TestHandleGenerateReport_ModelConfigOverridesDefaults(t *testing.T) {
	engine := &fakeEngine{doc: "<html></html>"}
	srv := newTestServer(engine, &fakeToolLister{})

	rec := postReport(t, srv, `{"prompt":"report","modelConfig":{"model":"gpt-5","maxTokens":2048}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if engine.lastReq.Model != "gpt-5" || engine.lastReq.MaxTokens != 2048 {
		t.Errorf("request = %+v", engine.lastReq)
	}
}

func TestHandleGenerateReport_InvalidJSON(t *testing.T) {
	srv := newTestServer(&fakeEngine{}, &fakeToolLister{})
	rec := postReport(t, srv, `{"prompt":`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleGenerateReport_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", &report.ValidationError{Field: "prompt"}, http.StatusBadRequest},
		{"unsupported model", &llm.UnsupportedModelError{Model: "mistral"}, http.StatusBadRequest},
		{"auth", llm.NewAuthError("invalid api key", nil), http.StatusUnauthorized},
		{"rate limit", llm.NewRateLimitError("slow down", nil), http.StatusTooManyRequests},
		{"provider", llm.NewProviderError("boom", nil), http.StatusInternalServerError},
		{"plain", errors.New("unexpected"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(&fakeEngine{err: tt.err}, &fakeToolLister{})
			rec := postReport(t, srv, `{"prompt":"report"}`)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			var body errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("error body is not JSON: %v", err)
			}
			if body.Error == "" {
				t.Error("error body should carry a message")
			}
		})
	}
}

func TestHandleGenerateReport_ExtractionFailureCarriesRawResponse(t *testing.T) {
	srv := newTestServer(&fakeEngine{err: &report.ExtractionError{RawResponse: "no report, sorry"}}, &fakeToolLister{})

	rec := postReport(t, srv, `{"prompt":"report"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("error body is not JSON: %v", err)
	}
	if body.FullResponse != "no report, sorry" {
		t.Errorf("fullResponse = %q", body.FullResponse)
	}
}

func TestHandleGenerateReport_ToolCatalogUnavailable(t *testing.T) {
	srv := newTestServer(&fakeEngine{}, &fakeToolLister{err: errors.New("gateway down")})
	rec := postReport(t, srv, `{"prompt":"report"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	srv := newTestServer(&fakeEngine{doc: "<html></html>"}, &fakeToolLister{})

	rec := postReport(t, srv, `{"prompt":"report"}`)
	if rec.Header().Get(requestIDHeader) == "" {
		t.Error("Response should carry a generated request id")
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/reports", strings.NewReader(`{"prompt":"report"}`))
	req.Header.Set(requestIDHeader, "req-123")
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if got := rec.Header().Get(requestIDHeader); got != "req-123" {
		t.Errorf("Caller-supplied request id should be honored, got %q", got)
	}
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(&fakeEngine{}, &fakeToolLister{})
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}
