package llm

import (
	"encoding/json"
)

// MessageRole represents the role of a message in a conversation.
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleSystem    MessageRole = "system"
)

// Message represents a single message in a conversation. The message history is
// append-only: once a message has been added to a conversation it is never mutated.
type Message struct {
	Role    MessageRole
	Content []ContentBlock
}

// ContentBlock represents a single content block within a message.
// It can be text, a tool use, or a tool result.
type ContentBlock struct {
	Type       ContentBlockType
	Text       string           // For text blocks
	ToolUse    *ToolUseBlock    // For tool use blocks
	ToolResult *ToolResultBlock // For tool result blocks
}

// ContentBlockType represents the type of content block.
type ContentBlockType string

const (
	ContentBlockTypeText       ContentBlockType = "text"
	ContentBlockTypeToolUse    ContentBlockType = "tool_use"
	ContentBlockTypeToolResult ContentBlockType = "tool_result"
)

// ToolUseBlock represents a tool invocation request emitted by the model.
//
// Function-calling providers deliver arguments as a JSON-encoded string. When that
// string fails to decode, Input is nil and RawInput holds the undecodable text so the
// loop can relay the failure back to the model instead of crashing.
type ToolUseBlock struct {
	ID       string
	Name     string
	Input    map[string]interface{} // Decoded input parameters
	RawInput string                 // Set only when the provider's arguments failed to decode
}

// ToolResultBlock represents the result of a tool invocation, correlated to its
// request by ID. Every ToolUseBlock produces exactly one ToolResultBlock.
type ToolResultBlock struct {
	ID      string
	Content string // Serialized result, or the error text when IsError is set
	IsError bool
}

// ToolSpec represents a tool definition that can be provided to an LLM.
type ToolSpec struct {
	Name        string
	Description string
	Schema      ToolSchema
}

// ToolSchema represents the JSON schema for a tool's input parameters.
type ToolSchema struct {
	Type       string
	Properties map[string]interface{}
	Required   []string
}

// EffectiveDescription returns the tool description, defaulting to
// "Execute `<name>`" when the spec carries none. Both provider families rely on this
// so that tool conversion is total.
func (s ToolSpec) EffectiveDescription() string {
	if s.Description == "" {
		return "Execute `" + s.Name + "`"
	}
	return s.Description
}

// Request represents a complete LLM API request.
type Request struct {
	Model     string
	Messages  []Message
	System    string
	Tools     []ToolSpec
	MaxTokens int64
}

// Response represents a complete LLM API response.
type Response struct {
	Content    []ContentBlock
	Usage      *Usage
	StopReason string
}

// Usage represents token usage information from an LLM response.
type Usage struct {
	InputTokens  int64
	OutputTokens int64
}

// Text concatenates the plain-text segments of the response.
func (r *Response) Text() string {
	var out string
	for _, block := range r.Content {
		if block.Type == ContentBlockTypeText {
			if out != "" {
				out += "\n"
			}
			out += block.Text
		}
	}
	return out
}

// ToolUses returns the tool invocation requests in the order the model emitted them.
func (r *Response) ToolUses() []*ToolUseBlock {
	var uses []*ToolUseBlock
	for _, block := range r.Content {
		if block.Type == ContentBlockTypeToolUse && block.ToolUse != nil {
			uses = append(uses, block.ToolUse)
		}
	}
	return uses
}

// NewTextMessage creates a new message with a single text content block.
func NewTextMessage(role MessageRole, text string) Message {
	return Message{
		Role: role,
		Content: []ContentBlock{
			{
				Type: ContentBlockTypeText,
				Text: text,
			},
		},
	}
}

// NewToolResultMessage creates the tool-role message carrying one result block per
// invocation request.
func NewToolResultMessage(results []ToolResultBlock) Message {
	content := make([]ContentBlock, len(results))
	for i, tr := range results {
		content[i] = ContentBlock{
			Type:       ContentBlockTypeToolResult,
			ToolResult: &tr,
		}
	}
	return Message{
		Role:    RoleUser,
		Content: content,
	}
}

// ToJSON marshals a message to JSON for debugging/logging purposes.
func (m Message) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}
