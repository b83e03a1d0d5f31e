package openai

import (
	"encoding/json"

	"github.com/ballpark-labs/reportd/llm"
	openai "github.com/sashabaranov/go-openai"
)

// ToOpenAIMessages converts canonical messages to OpenAI chat messages. A message
// whose content is tool results expands into one tool-role message per result,
// which is how the function-calling family correlates results to calls.
func ToOpenAIMessages(msgs []llm.Message) []openai.ChatCompletionMessage {
	result := make([]openai.ChatCompletionMessage, 0, len(msgs))
	for _, msg := range msgs {
		result = append(result, ToOpenAIMessage(msg)...)
	}
	return result
}

// ToOpenAIMessage converts a single canonical message. Text and tool-use blocks
// fold into one chat message; tool-result blocks each become a tool-role message.
func ToOpenAIMessage(msg llm.Message) []openai.ChatCompletionMessage {
	var role string
	switch msg.Role {
	case llm.RoleAssistant:
		role = openai.ChatMessageRoleAssistant
	case llm.RoleSystem:
		role = openai.ChatMessageRoleSystem
	default:
		role = openai.ChatMessageRoleUser
	}

	var content string
	var toolCalls []openai.ToolCall
	var toolMessages []openai.ChatCompletionMessage

	for _, block := range msg.Content {
		switch block.Type {
		case llm.ContentBlockTypeText:
			if content != "" {
				content += "\n"
			}
			content += block.Text

		case llm.ContentBlockTypeToolUse:
			if block.ToolUse == nil {
				continue
			}
			args := block.ToolUse.RawInput
			if args == "" {
				argsJSON, err := json.Marshal(block.ToolUse.Input)
				if err != nil {
					argsJSON = []byte("{}")
				}
				args = string(argsJSON)
			}
			toolCalls = append(toolCalls, openai.ToolCall{
				ID:   block.ToolUse.ID,
				Type: openai.ToolTypeFunction,
				Function: openai.FunctionCall{
					Name:      block.ToolUse.Name,
					Arguments: args,
				},
			})

		case llm.ContentBlockTypeToolResult:
			if block.ToolResult == nil {
				continue
			}
			toolMessages = append(toolMessages, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				Content:    block.ToolResult.Content,
				ToolCallID: block.ToolResult.ID,
			})
		}
	}

	var out []openai.ChatCompletionMessage
	if content != "" || len(toolCalls) > 0 {
		out = append(out, openai.ChatCompletionMessage{
			Role:      role,
			Content:   content,
			ToolCalls: toolCalls,
		})
	}
	return append(out, toolMessages...)
}

// ToOpenAITools converts canonical tool specs to OpenAI function definitions.
// The conversion is total: a missing description defaults to "Execute `<name>`",
// a missing input schema becomes an empty object schema.
func ToOpenAITools(specs []llm.ToolSpec) []openai.Tool {
	result := make([]openai.Tool, 0, len(specs))
	for i := range specs {
		result = append(result, ToOpenAITool(&specs[i]))
	}
	return result
}

// ToOpenAITool converts a single canonical tool spec.
func ToOpenAITool(spec *llm.ToolSpec) openai.Tool {
	properties := spec.Schema.Properties
	if properties == nil {
		properties = map[string]interface{}{}
	}

	schemaType := spec.Schema.Type
	if schemaType == "" {
		schemaType = "object"
	}

	parameters := map[string]interface{}{
		"type":       schemaType,
		"properties": properties,
	}
	if len(spec.Schema.Required) > 0 {
		parameters["required"] = spec.Schema.Required
	}

	return openai.Tool{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        spec.Name,
			Description: spec.EffectiveDescription(),
			Parameters:  parameters,
		},
	}
}

// FromOpenAIToolCall converts an OpenAI tool call to a canonical tool-use block.
// Function-calling arguments arrive as a JSON-encoded string; a decode failure is
// not fatal. The raw text is preserved so the loop can route a failed tool result
// back to the model.
func FromOpenAIToolCall(toolCall openai.ToolCall) *llm.ToolUseBlock {
	block := &llm.ToolUseBlock{
		ID:   toolCall.ID,
		Name: toolCall.Function.Name,
	}

	args := toolCall.Function.Arguments
	if args == "" {
		block.Input = map[string]interface{}{}
		return block
	}

	var input map[string]interface{}
	if err := json.Unmarshal([]byte(args), &input); err != nil {
		block.RawInput = args
		return block
	}
	block.Input = input
	return block
}
