// Package report implements the conversation loop engine that turns a prompt and
// a set of MCP tools into a finished HTML report, plus the extractor that pulls
// the document out of the model's final answer.
package report

import (
	"context"
	"fmt"
	"strings"

	"github.com/ballpark-labs/reportd/llm"
	"github.com/ballpark-labs/reportd/mcp"
	"github.com/ballpark-labs/reportd/ratelimit"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// maxIterations caps the number of tool-execution rounds in one conversation.
const maxIterations = 10

// finalAnswerInstruction is the turn injected when the loop is forced to
// terminate (iteration cap or exhausted rate-limit budget).
const finalAnswerInstruction = "No further tool calls can be executed. Using the information gathered so far, provide your best possible final answer now, as a complete HTML document."

// ToolGateway is the engine's view of the tool-serving backend.
type ToolGateway interface {
	CallTool(ctx context.Context, name string, args map[string]interface{}) (*mcp.ToolResult, error)
}

// Request is the canonical, provider-agnostic report request.
type Request struct {
	Prompt       string
	SystemPrompt string
	Tools        []llm.ToolSpec
	Model        string
	MaxTokens    int64
}

// loopState tracks one conversation's progress through the call/execute cycle.
type loopState struct {
	iteration int  // completed tool-execution rounds, capped at maxIterations
	isFinal   bool // set by rate-limit truncation or the iteration cap
}

// Engine drives the bounded iterate-call/execute-tools/repeat cycle. It is an
// explicitly constructed object holding its collaborators; every collaborator is
// substitutable in tests. Independent conversations may run it concurrently;
// the only shared mutable state lives in the limiter and the gateway.
type Engine struct {
	clients llm.Resolver
	gateway ToolGateway
	limiter *ratelimit.Limiter
	logger  zerolog.Logger
}

// NewEngine creates an Engine with the given collaborators.
func NewEngine(clients llm.Resolver, gateway ToolGateway, limiter *ratelimit.Limiter, logger zerolog.Logger) *Engine {
	return &Engine{
		clients: clients,
		gateway: gateway,
		limiter: limiter,
		logger:  logger.With().Str("component", "reportEngine").Logger(),
	}
}

// GenerateDocument runs the conversation loop and extracts the HTML document
// from its final answer. No document in the answer is a terminal
// ExtractionError carrying the raw text.
func (e *Engine) GenerateDocument(ctx context.Context, req *Request) (string, error) {
	text, err := e.Generate(ctx, req)
	if err != nil {
		return "", err
	}

	doc := ExtractHTML(text)
	if doc == "" {
		return "", &ExtractionError{RawResponse: text}
	}
	return doc, nil
}

// Generate runs the conversation loop to completion and returns the model's
// final free-text answer.
//
// A provider-call error aborts the whole loop; a tool-execution error is
// recovered locally by relaying an error tool message, so the conversation
// continues. Tool calls within one turn run strictly sequentially in emission
// order, and every emitted call is answered by exactly one result message.
func (e *Engine) Generate(ctx context.Context, req *Request) (string, error) {
	if req == nil || strings.TrimSpace(req.Prompt) == "" {
		return "", &ValidationError{Field: "prompt"}
	}
	if req.Model == "" {
		return "", &ValidationError{Field: "model"}
	}

	client, err := e.clients.ClientFor(req.Model)
	if err != nil {
		return "", err
	}

	state := &loopState{}
	prompt := req.Prompt

	// Gate the opening prompt. An exhausted window doesn't reject the request
	// outright: the prompt is cut down to the remaining budget and the round is
	// marked final, so the model gets exactly one shot at an answer. The system
	// prompt still travels whole, so its cost comes out of the truncation
	// target.
	if ok, remaining := e.limiter.Check(req.Model, ratelimit.Estimate(req.SystemPrompt+prompt)); !ok {
		target := remaining - ratelimit.Estimate(req.SystemPrompt)
		if target < 0 {
			target = 0
		}
		truncated, wasCut := ratelimit.Truncate(prompt, target)
		prompt = truncated
		state.isFinal = true
		e.logger.Warn().
			Str("model", req.Model).
			Int("remaining_tokens", remaining).
			Bool("prompt_truncated", wasCut).
			Msg("Rate limit budget exhausted; round marked final")
	}

	messages := []llm.Message{llm.NewTextMessage(llm.RoleUser, prompt)}
	var lastText string

	for {
		resp, err := client.Synchronous(ctx, &llm.Request{
			Model:     req.Model,
			Messages:  messages,
			System:    req.SystemPrompt,
			Tools:     req.Tools,
			MaxTokens: req.MaxTokens,
		})
		if err != nil {
			return "", err
		}

		if text := strings.TrimSpace(resp.Text()); text != "" {
			lastText = text
		}
		messages = append(messages, llm.Message{Role: llm.RoleAssistant, Content: resp.Content})

		uses := resp.ToolUses()
		if len(uses) == 0 {
			break
		}

		if state.isFinal {
			// The final turn already happened; whatever tools the model still
			// wants are answered with halt notices instead of executions, so
			// the audit trail stays one-result-per-request.
			e.logger.Info().
				Int("discarded_calls", len(uses)).
				Msg("Discarding tool calls emitted after final turn")
			messages = append(messages, llm.NewToolResultMessage(e.discardResults(uses)))
			break
		}

		results := e.executeTools(ctx, uses)
		messages = append(messages, llm.NewToolResultMessage(results))
		state.iteration++

		if state.iteration >= maxIterations {
			e.forceFinal(state, &messages, "iteration cap reached")
			continue
		}

		// Charge the window for the tool output the next call will carry.
		cost := 0
		for _, r := range results {
			cost += ratelimit.Estimate(r.Content)
		}
		if ok, _ := e.limiter.Check(req.Model, cost); !ok {
			e.forceFinal(state, &messages, "rate limit budget exhausted")
		}
	}

	if lastText == "" {
		return "", llm.NewProviderError("model produced no text response", nil)
	}
	return lastText, nil
}

// forceFinal marks the conversation final and injects the one instruction turn
// asking for the best possible answer. Exactly one more provider call follows.
func (e *Engine) forceFinal(state *loopState, messages *[]llm.Message, reason string) {
	state.isFinal = true
	*messages = append(*messages, llm.NewTextMessage(llm.RoleUser, finalAnswerInstruction))
	e.logger.Info().
		Int("iterations", state.iteration).
		Str("reason", reason).
		Msg("Forcing final turn")
}

// executeTools runs the requested calls strictly sequentially in emission order.
// Each request yields exactly one result block: argument-decode failures and
// gateway errors become error results, never control-flow escapes.
func (e *Engine) executeTools(ctx context.Context, uses []*llm.ToolUseBlock) []llm.ToolResultBlock {
	results := make([]llm.ToolResultBlock, 0, len(uses))
	for _, use := range uses {
		results = append(results, e.executeTool(ctx, use))
	}
	return results
}

func (e *Engine) executeTool(ctx context.Context, use *llm.ToolUseBlock) llm.ToolResultBlock {
	result := llm.ToolResultBlock{ID: correlationID(use)}

	if use.RawInput != "" {
		// Model-emitted arguments are untrusted data: an undecodable payload is
		// an ordinary failed outcome fed back to the model.
		e.logger.Warn().
			Str("tool", use.Name).
			Str("raw_input", use.RawInput).
			Msg("Tool arguments failed to decode")
		result.IsError = true
		result.Content = fmt.Sprintf("failed to decode arguments for tool %q", use.Name)
		return result
	}

	toolResult, err := e.gateway.CallTool(ctx, use.Name, use.Input)
	if err != nil {
		e.logger.Warn().Err(err).Str("tool", use.Name).Msg("Tool call failed")
		result.IsError = true
		result.Content = err.Error()
		return result
	}

	result.Content = toolResult.Content
	result.IsError = toolResult.IsError
	return result
}

// discardResults answers tool calls emitted after the final turn without
// executing them.
func (e *Engine) discardResults(uses []*llm.ToolUseBlock) []llm.ToolResultBlock {
	results := make([]llm.ToolResultBlock, 0, len(uses))
	for _, use := range uses {
		results = append(results, llm.ToolResultBlock{
			ID:      correlationID(use),
			Content: "tool execution halted: the conversation has ended",
			IsError: true,
		})
	}
	return results
}

// correlationID returns the model-assigned id, minting one when the provider
// omitted it so the request/result pair stays correlated.
func correlationID(use *llm.ToolUseBlock) string {
	if use.ID != "" {
		return use.ID
	}
	return uuid.NewString()
}
