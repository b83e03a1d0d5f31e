package openai

import (
	"testing"

	"github.com/ballpark-labs/reportd/llm"
	openai "github.com/sashabaranov/go-openai"
)

func TestFromOpenAIToolCall_DecodesArguments(t *testing.T) {
	block := FromOpenAIToolCall(openai.ToolCall{
		ID:   "call_1",
		Type: openai.ToolTypeFunction,
		Function: openai.FunctionCall{
			Name:      "lookup_player",
			Arguments: `{"name":"Aaron Judge"}`,
		},
	})

	if block.ID != "call_1" || block.Name != "lookup_player" {
		t.Errorf("Unexpected block identity: %s/%s", block.ID, block.Name)
	}
	if block.RawInput != "" {
		t.Error("RawInput should be empty for decodable arguments")
	}
	if block.Input["name"] != "Aaron Judge" {
		t.Errorf("Input = %v", block.Input)
	}
}

func TestFromOpenAIToolCall_PreservesUndecodableArguments(t *testing.T) {
	raw := `{"name": "Aaron Judge"` // unterminated
	block := FromOpenAIToolCall(openai.ToolCall{
		ID:       "call_2",
		Function: openai.FunctionCall{Name: "lookup_player", Arguments: raw},
	})

	if block.Input != nil {
		t.Error("Input should be nil when arguments fail to decode")
	}
	if block.RawInput != raw {
		t.Errorf("RawInput = %q, want the original argument text", block.RawInput)
	}
}

func TestFromOpenAIToolCall_EmptyArguments(t *testing.T) {
	block := FromOpenAIToolCall(openai.ToolCall{
		ID:       "call_3",
		Function: openai.FunctionCall{Name: "get_standings"},
	})

	if block.Input == nil || len(block.Input) != 0 {
		t.Errorf("Empty arguments should decode to an empty map, got %v", block.Input)
	}
	if block.RawInput != "" {
		t.Error("RawInput should stay empty for empty arguments")
	}
}

func TestToOpenAITool_Totality(t *testing.T) {
	tool := ToOpenAITool(&llm.ToolSpec{Name: "get_boxscore"})

	if tool.Function.Name != "get_boxscore" {
		t.Errorf("Name = %q", tool.Function.Name)
	}
	if tool.Function.Description != "Execute `get_boxscore`" {
		t.Errorf("Missing description should default, got %q", tool.Function.Description)
	}

	params, ok := tool.Function.Parameters.(map[string]interface{})
	if !ok {
		t.Fatalf("Parameters should be a map, got %T", tool.Function.Parameters)
	}
	if params["type"] != "object" {
		t.Errorf("Missing schema type should default to object, got %v", params["type"])
	}
	if props, ok := params["properties"].(map[string]interface{}); !ok || props == nil {
		t.Error("Missing properties should default to an empty object")
	}
	if _, ok := params["required"]; ok {
		t.Error("Empty required list should be omitted")
	}
}

func TestToOpenAIMessage_ToolResultsExpandToToolMessages(t *testing.T) {
	msg := llm.NewToolResultMessage([]llm.ToolResultBlock{
		{ID: "call_1", Content: "result one"},
		{ID: "call_2", Content: "boom", IsError: true},
	})

	out := ToOpenAIMessage(msg)
	if len(out) != 2 {
		t.Fatalf("Expected one tool message per result, got %d messages", len(out))
	}
	for i, want := range []string{"call_1", "call_2"} {
		if out[i].Role != openai.ChatMessageRoleTool {
			t.Errorf("message %d role = %s, want tool", i, out[i].Role)
		}
		if out[i].ToolCallID != want {
			t.Errorf("message %d ToolCallID = %s, want %s", i, out[i].ToolCallID, want)
		}
	}
}

func TestToOpenAIMessage_AssistantToolCallsReserializeInput(t *testing.T) {
	msg := llm.Message{
		Role: llm.RoleAssistant,
		Content: []llm.ContentBlock{
			{Type: llm.ContentBlockTypeText, Text: "Looking that up."},
			{Type: llm.ContentBlockTypeToolUse, ToolUse: &llm.ToolUseBlock{
				ID:    "call_1",
				Name:  "lookup_player",
				Input: map[string]interface{}{"name": "Shohei Ohtani"},
			}},
		},
	}

	out := ToOpenAIMessage(msg)
	if len(out) != 1 {
		t.Fatalf("Expected one chat message, got %d", len(out))
	}
	if out[0].Role != openai.ChatMessageRoleAssistant {
		t.Errorf("role = %s", out[0].Role)
	}
	if len(out[0].ToolCalls) != 1 {
		t.Fatalf("Expected one tool call, got %d", len(out[0].ToolCalls))
	}
	if out[0].ToolCalls[0].Function.Arguments != `{"name":"Shohei Ohtani"}` {
		t.Errorf("Arguments = %s", out[0].ToolCalls[0].Function.Arguments)
	}
}

func TestToOpenAIMessage_UndecodableInputRoundTripsVerbatim(t *testing.T) {
	raw := `{"broken`
	msg := llm.Message{
		Role: llm.RoleAssistant,
		Content: []llm.ContentBlock{
			{Type: llm.ContentBlockTypeToolUse, ToolUse: &llm.ToolUseBlock{
				ID:       "call_1",
				Name:     "lookup_player",
				RawInput: raw,
			}},
		},
	}

	out := ToOpenAIMessage(msg)
	if len(out) != 1 || len(out[0].ToolCalls) != 1 {
		t.Fatalf("Unexpected message shape: %+v", out)
	}
	if out[0].ToolCalls[0].Function.Arguments != raw {
		t.Errorf("Undecodable arguments should round-trip verbatim, got %q", out[0].ToolCalls[0].Function.Arguments)
	}
}
