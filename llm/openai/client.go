// Package openai implements the llm.Client interface for OpenAI's chat completion
// API, the function-calling provider family: tool definitions are wrapped in
// {type: "function"} and tool-call arguments arrive as JSON-encoded strings.
package openai

import (
	"context"
	"errors"
	"fmt"

	"github.com/ballpark-labs/reportd/llm"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
)

// ModelPrefixes lists the model-id prefixes belonging to this provider family.
var ModelPrefixes = []string{"gpt", "chatgpt", "o1", "o3", "o4"}

// Client implements llm.Client for OpenAI's API.
type Client struct {
	client *openai.Client
	logger zerolog.Logger
}

// NewClient creates a new OpenAI client.
// baseURL and organization are optional; the default API endpoint is used when
// baseURL is empty.
func NewClient(apiKey, baseURL, organization string, logger zerolog.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	if organization != "" {
		config.OrgID = organization
	}

	return &Client{
		client: openai.NewClientWithConfig(config),
		logger: logger.With().Str("component", "openaiClient").Logger(),
	}, nil
}

// Synchronous implements llm.Client.Synchronous.
func (c *Client) Synchronous(ctx context.Context, req *llm.Request) (*llm.Response, error) {
	if req == nil {
		return nil, fmt.Errorf("request is required")
	}
	if req.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	chatReq := openai.ChatCompletionRequest{
		Model:    req.Model,
		Messages: ToOpenAIMessages(req.Messages),
	}

	// OpenAI carries the system prompt as a leading system-role message.
	if req.System != "" {
		systemMsg := openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		}
		chatReq.Messages = append([]openai.ChatCompletionMessage{systemMsg}, chatReq.Messages...)
	}

	if len(req.Tools) > 0 {
		chatReq.Tools = ToOpenAITools(req.Tools)
		chatReq.ToolChoice = "auto"
	}

	if req.MaxTokens > 0 {
		chatReq.MaxTokens = int(req.MaxTokens)
	}

	chatResp, err := c.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, convertOpenAIError(err)
	}

	if len(chatResp.Choices) == 0 {
		return nil, llm.NewProviderError("openai response contained no choices", nil)
	}

	choice := chatResp.Choices[0]
	content := make([]llm.ContentBlock, 0, 1+len(choice.Message.ToolCalls))

	if choice.Message.Content != "" {
		content = append(content, llm.ContentBlock{
			Type: llm.ContentBlockTypeText,
			Text: choice.Message.Content,
		})
	}

	for _, toolCall := range choice.Message.ToolCalls {
		content = append(content, llm.ContentBlock{
			Type:    llm.ContentBlockTypeToolUse,
			ToolUse: FromOpenAIToolCall(toolCall),
		})
	}

	usage := &llm.Usage{
		InputTokens:  int64(chatResp.Usage.PromptTokens),
		OutputTokens: int64(chatResp.Usage.CompletionTokens),
	}

	stopReason := "stop"
	switch choice.FinishReason {
	case openai.FinishReasonLength:
		stopReason = "max_tokens"
	case openai.FinishReasonToolCalls:
		stopReason = "tool_calls"
	}

	c.logger.Debug().
		Str("model", req.Model).
		Int64("input_tokens", usage.InputTokens).
		Int64("output_tokens", usage.OutputTokens).
		Str("stop_reason", stopReason).
		Msg("OpenAI call completed")

	return &llm.Response{
		Content:    content,
		Usage:      usage,
		StopReason: stopReason,
	}, nil
}

// convertOpenAIError maps OpenAI API errors onto the provider-neutral taxonomy.
func convertOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return llm.ClassifyStatus("openai", apiErr.HTTPStatusCode, apiErr.Message, err)
	}
	return &llm.Error{
		Type:        llm.ErrorTypeNetwork,
		Message:     "openai request failed",
		ProviderErr: err,
	}
}
