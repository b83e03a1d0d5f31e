package anthropic

import (
	"encoding/json"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/ballpark-labs/reportd/llm"
	"github.com/samber/lo"
)

// ToToolUnionParam converts a canonical tool spec to Anthropic's tool shape.
// The conversion is total: a missing description defaults to "Execute `<name>`",
// missing schema fields default to an empty object schema.
func ToToolUnionParam(spec *llm.ToolSpec) anthropic.ToolUnionParam {
	properties := spec.Schema.Properties
	if properties == nil {
		properties = map[string]interface{}{}
	}
	required := spec.Schema.Required
	if required == nil {
		required = []string{}
	}

	toolParam := anthropic.ToolParam{
		Name:        spec.Name,
		Description: anthropic.String(spec.EffectiveDescription()),
		InputSchema: anthropic.ToolInputSchemaParam{
			Type:       "object",
			Properties: properties,
			Required:   required,
		},
	}

	return anthropic.ToolUnionParam{OfTool: &toolParam}
}

// ToToolUnionParams converts a slice of canonical tool specs.
func ToToolUnionParams(specs []llm.ToolSpec) []anthropic.ToolUnionParam {
	return lo.Map(specs, func(spec llm.ToolSpec, _ int) anthropic.ToolUnionParam {
		return ToToolUnionParam(&spec)
	})
}

// ToMessageParam converts a canonical message to an Anthropic MessageParam.
func ToMessageParam(msg llm.Message) anthropic.MessageParam {
	contentBlocks := make([]anthropic.ContentBlockParamUnion, 0, len(msg.Content))
	for _, block := range msg.Content {
		switch block.Type {
		case llm.ContentBlockTypeText:
			contentBlocks = append(contentBlocks, anthropic.NewTextBlock(block.Text))
		case llm.ContentBlockTypeToolUse:
			if block.ToolUse != nil {
				input := block.ToolUse.Input
				if input == nil {
					input = map[string]interface{}{}
				}
				contentBlocks = append(contentBlocks, anthropic.NewToolUseBlock(
					block.ToolUse.ID,
					input,
					block.ToolUse.Name,
				))
			}
		case llm.ContentBlockTypeToolResult:
			if block.ToolResult != nil {
				contentBlocks = append(contentBlocks, anthropic.NewToolResultBlock(
					block.ToolResult.ID,
					block.ToolResult.Content,
					block.ToolResult.IsError,
				))
			}
		}
	}

	switch msg.Role {
	case llm.RoleAssistant:
		return anthropic.NewAssistantMessage(contentBlocks...)
	default:
		return anthropic.NewUserMessage(contentBlocks...)
	}
}

// ToMessageParams converts a slice of canonical messages.
func ToMessageParams(msgs []llm.Message) []anthropic.MessageParam {
	return lo.Map(msgs, func(msg llm.Message, _ int) anthropic.MessageParam {
		return ToMessageParam(msg)
	})
}

// FromContentBlock converts one Anthropic response block to a canonical block.
// Unknown block kinds are dropped; the bool reports whether the block mapped.
func FromContentBlock(blockUnion anthropic.ContentBlockUnion) (llm.ContentBlock, bool) {
	switch block := blockUnion.AsAny().(type) {
	case anthropic.TextBlock:
		return llm.ContentBlock{
			Type: llm.ContentBlockTypeText,
			Text: block.Text,
		}, true
	case anthropic.ToolUseBlock:
		// Anthropic delivers tool input already structured.
		input := make(map[string]interface{})
		if block.Input != nil {
			if inputBytes, err := json.Marshal(block.Input); err == nil {
				_ = json.Unmarshal(inputBytes, &input)
			}
		}
		return llm.ContentBlock{
			Type: llm.ContentBlockTypeToolUse,
			ToolUse: &llm.ToolUseBlock{
				ID:    block.ID,
				Name:  block.Name,
				Input: input,
			},
		}, true
	default:
		return llm.ContentBlock{}, false
	}
}
