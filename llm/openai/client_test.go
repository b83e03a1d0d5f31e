package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ballpark-labs/reportd/llm"
	"github.com/rs/zerolog"
)

func TestNewClient_RequiresAPIKey(t *testing.T) {
	if _, err := NewClient("", "", "", zerolog.Nop()); err == nil {
		t.Error("Expected error for missing API key")
	}
}

func TestSynchronous_ToolCallResponse(t *testing.T) {
	var gotReq map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"choices": [{
				"index": 0,
				"finish_reason": "tool_calls",
				"message": {
					"role": "assistant",
					"content": "",
					"tool_calls": [{
						"id": "call_1",
						"type": "function",
						"function": {"name": "lookup_player", "arguments": "{\"name\":\"Aaron Judge\"}"}
					}]
				}
			}],
			"usage": {"prompt_tokens": 42, "completion_tokens": 7}
		}`))
	}))
	defer server.Close()

	client, err := NewClient("test-key", server.URL+"/v1", "", zerolog.Nop())
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	resp, err := client.Synchronous(context.Background(), &llm.Request{
		Model:    "gpt-5",
		Messages: []llm.Message{llm.NewTextMessage(llm.RoleUser, "player report")},
		System:   "be brief",
		Tools:    []llm.ToolSpec{{Name: "lookup_player"}},
	})
	if err != nil {
		t.Fatalf("Synchronous failed: %v", err)
	}

	uses := resp.ToolUses()
	if len(uses) != 1 {
		t.Fatalf("Expected 1 tool use, got %d", len(uses))
	}
	if uses[0].ID != "call_1" || uses[0].Name != "lookup_player" {
		t.Errorf("Tool use = %+v", uses[0])
	}
	if uses[0].Input["name"] != "Aaron Judge" {
		t.Errorf("Input = %v", uses[0].Input)
	}
	if resp.StopReason != "tool_calls" {
		t.Errorf("StopReason = %q", resp.StopReason)
	}
	if resp.Usage.InputTokens != 42 || resp.Usage.OutputTokens != 7 {
		t.Errorf("Usage = %+v", resp.Usage)
	}

	// The system prompt travels as the leading system-role message.
	messages, ok := gotReq["messages"].([]interface{})
	if !ok || len(messages) != 2 {
		t.Fatalf("Wire messages = %v", gotReq["messages"])
	}
	first := messages[0].(map[string]interface{})
	if first["role"] != "system" || first["content"] != "be brief" {
		t.Errorf("Leading message = %v", first)
	}
	if _, ok := gotReq["tools"]; !ok {
		t.Error("Tools should be on the wire")
	}
}

func TestSynchronous_RateLimitErrorIsClassified(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "rate limit reached", "type": "tokens"}}`))
	}))
	defer server.Close()

	client, err := NewClient("test-key", server.URL+"/v1", "", zerolog.Nop())
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	_, err = client.Synchronous(context.Background(), &llm.Request{
		Model:    "gpt-5",
		Messages: []llm.Message{llm.NewTextMessage(llm.RoleUser, "hi")},
	})
	if !llm.IsRateLimitError(err) {
		t.Errorf("Expected a classified rate limit error, got %v", err)
	}
}

func TestSynchronous_AuthErrorIsClassified(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"message": "invalid api key", "type": "invalid_request_error"}}`))
	}))
	defer server.Close()

	client, err := NewClient("bad-key", server.URL+"/v1", "", zerolog.Nop())
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	_, err = client.Synchronous(context.Background(), &llm.Request{
		Model:    "gpt-5",
		Messages: []llm.Message{llm.NewTextMessage(llm.RoleUser, "hi")},
	})
	if !llm.IsAuthError(err) {
		t.Errorf("Expected a classified auth error, got %v", err)
	}
}
