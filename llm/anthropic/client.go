// Package anthropic implements the llm.Client interface for Anthropic's Messages
// API, the block-content provider family: tool definitions use input_schema and
// tool-call arguments arrive already structured.
package anthropic

import (
	"context"
	"errors"
	"fmt"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/ballpark-labs/reportd/llm"
	"github.com/rs/zerolog"
)

// ModelPrefixes lists the model-id prefixes belonging to this provider family.
var ModelPrefixes = []string{"claude"}

// Client implements llm.Client for Anthropic's API.
type Client struct {
	client *anthropic.Client
	logger zerolog.Logger
}

// NewClient creates a new Anthropic client with the given API key.
func NewClient(apiKey string, logger zerolog.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic api key is required")
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &Client{
		client: &client,
		logger: logger.With().Str("component", "anthropicClient").Logger(),
	}, nil
}

// Synchronous implements llm.Client.Synchronous.
func (c *Client) Synchronous(ctx context.Context, req *llm.Request) (*llm.Response, error) {
	if req == nil {
		return nil, fmt.Errorf("request is required")
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(req.Model),
		MaxTokens: req.MaxTokens,
		Messages:  ToMessageParams(req.Messages),
		Tools:     ToToolUnionParams(req.Tools),
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	message, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return nil, convertAnthropicError(err)
	}

	content := make([]llm.ContentBlock, 0, len(message.Content))
	for _, blockUnion := range message.Content {
		if block, ok := FromContentBlock(blockUnion); ok {
			content = append(content, block)
		}
	}

	usage := &llm.Usage{
		InputTokens:  message.Usage.InputTokens,
		OutputTokens: message.Usage.OutputTokens,
	}

	c.logger.Debug().
		Str("model", req.Model).
		Int64("input_tokens", usage.InputTokens).
		Int64("output_tokens", usage.OutputTokens).
		Str("stop_reason", string(message.StopReason)).
		Msg("Anthropic call completed")

	return &llm.Response{
		Content:    content,
		Usage:      usage,
		StopReason: string(message.StopReason),
	}, nil
}

// convertAnthropicError maps Anthropic API errors onto the provider-neutral taxonomy.
func convertAnthropicError(err error) error {
	var apierr *anthropic.Error
	if errors.As(err, &apierr) {
		return llm.ClassifyStatus("anthropic", apierr.StatusCode, apierr.Error(), err)
	}
	return &llm.Error{
		Type:        llm.ErrorTypeNetwork,
		Message:     "anthropic request failed",
		ProviderErr: err,
	}
}
