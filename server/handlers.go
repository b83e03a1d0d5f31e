package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/ballpark-labs/reportd/llm"
	"github.com/ballpark-labs/reportd/mcp"
	"github.com/ballpark-labs/reportd/report"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

type modelConfig struct {
	Model     string `json:"model"`
	MaxTokens int64  `json:"maxTokens"`
}

// wireToolSpec is the request-body shape of one tool definition. It mirrors the
// gateway's definition so callers can either supply full tool objects or just
// names to narrow the gateway catalog.
type wireToolSpec struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

type reportRequest struct {
	Prompt         string         `json:"prompt"`
	SystemPrompt   string         `json:"systemPrompt"`
	AvailableTools []wireToolSpec `json:"availableTools"`
	ModelConfig    modelConfig    `json:"modelConfig"`
}

type errorResponse struct {
	Error        string `json:"error"`
	FullResponse string `json:"fullResponse,omitempty"`
}

func (s *Server) handleGenerateReport(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", "")
		return
	}

	model := req.ModelConfig.Model
	if model == "" {
		model = s.defaults.Model
	}
	maxTokens := req.ModelConfig.MaxTokens
	if maxTokens == 0 {
		maxTokens = s.defaults.MaxTokens
	}

	tools, err := s.resolveTools(r, req.AvailableTools)
	if err != nil {
		s.logger.Error().Err(err).Msg("Tool catalog unavailable")
		writeError(w, http.StatusInternalServerError, err.Error(), "")
		return
	}

	doc, err := s.engine.GenerateDocument(r.Context(), &report.Request{
		Prompt:       req.Prompt,
		SystemPrompt: req.SystemPrompt,
		Tools:        tools,
		Model:        model,
		MaxTokens:    maxTokens,
	})
	if err != nil {
		s.writeEngineError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(doc))
}

// resolveTools turns the request's tool list into the specs offered to the
// model. An empty list means the whole gateway catalog. Supplied entries are
// used as given; a name-only entry is resolved against the catalog so callers
// can narrow it without repeating schemas.
func (s *Server) resolveTools(r *http.Request, supplied []wireToolSpec) ([]llm.ToolSpec, error) {
	if len(supplied) == 0 {
		defs, err := s.tools.ListTools(r.Context())
		if err != nil {
			return nil, err
		}
		specs := make([]llm.ToolSpec, 0, len(defs))
		for _, d := range defs {
			specs = append(specs, d.ToolSpec())
		}
		return specs, nil
	}

	// The catalog is fetched lazily: fully specified tools never touch the
	// gateway here.
	var catalog map[string]mcp.ToolDefinition
	specs := make([]llm.ToolSpec, 0, len(supplied))
	for _, t := range supplied {
		if t.Description == "" && t.InputSchema == nil {
			if catalog == nil {
				defs, err := s.tools.ListTools(r.Context())
				if err != nil {
					return nil, err
				}
				catalog = lo.SliceToMap(defs, func(d mcp.ToolDefinition) (string, mcp.ToolDefinition) {
					return d.Name, d
				})
			}
			if d, ok := catalog[t.Name]; ok {
				specs = append(specs, d.ToolSpec())
				continue
			}
		}
		specs = append(specs, mcp.ToolDefinition{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: t.InputSchema,
		}.ToolSpec())
	}
	return specs, nil
}

// writeEngineError maps engine failures onto HTTP statuses. Extraction failures
// carry the raw model text so callers can diagnose what came back.
func (s *Server) writeEngineError(w http.ResponseWriter, r *http.Request, err error) {
	logger := s.logger.With().Str("request_id", requestIDFrom(r)).Logger()

	var xErr *report.ExtractionError
	if errors.As(err, &xErr) {
		logger.Warn().Msg("No HTML document in model response")
		writeError(w, http.StatusUnprocessableEntity, xErr.Error(), xErr.RawResponse)
		return
	}

	switch {
	case report.IsValidationError(err), llm.IsUnsupportedModelError(err):
		writeError(w, http.StatusBadRequest, err.Error(), "")
	case llm.IsAuthError(err):
		logger.Error().Err(err).Msg("Provider rejected credentials")
		writeError(w, http.StatusUnauthorized, err.Error(), "")
	case llm.IsRateLimitError(err):
		writeError(w, http.StatusTooManyRequests, err.Error(), "")
	default:
		logger.Error().Err(err).Msg("Report generation failed")
		writeError(w, http.StatusInternalServerError, err.Error(), "")
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func writeError(w http.ResponseWriter, status int, message, fullResponse string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: message, FullResponse: fullResponse})
}

const requestIDHeader = "X-Request-Id"

func requestIDFrom(r *http.Request) string {
	return r.Header.Get(requestIDHeader)
}

// withRequestID assigns each request an ID, honoring one the caller supplied.
func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
			r.Header.Set(requestIDHeader, id)
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) withAccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("request_id", requestIDFrom(r)).
			Dur("elapsed", time.Since(start)).
			Msg("Request handled")
	})
}
