package llm

import (
	"context"
	"errors"
	"testing"
)

type stubClient struct {
	name string
}

func (c *stubClient) Synchronous(_ context.Context, _ *Request) (*Response, error) {
	return &Response{}, nil
}

func TestRegistry_ClientFor(t *testing.T) {
	registry := NewRegistry()
	anthropic := &stubClient{name: "anthropic"}
	openai := &stubClient{name: "openai"}
	registry.Register("anthropic", MatchPrefixes("claude"), func() (Client, error) { return anthropic, nil })
	registry.Register("openai", MatchPrefixes("gpt", "o1"), func() (Client, error) { return openai, nil })

	client, err := registry.ClientFor("claude-sonnet-4-0")
	if err != nil {
		t.Fatalf("Failed to resolve claude model: %v", err)
	}
	if client != anthropic {
		t.Error("claude model should resolve to the anthropic client")
	}

	client, err = registry.ClientFor("gpt-5")
	if err != nil {
		t.Fatalf("Failed to resolve gpt model: %v", err)
	}
	if client != openai {
		t.Error("gpt model should resolve to the openai client")
	}

	client, err = registry.ClientFor("o1-mini")
	if err != nil {
		t.Fatalf("Failed to resolve o1 model: %v", err)
	}
	if client != openai {
		t.Error("o1 model should resolve to the openai client")
	}
}

func TestRegistry_UnsupportedModel(t *testing.T) {
	registry := NewRegistry()
	registry.Register("anthropic", MatchPrefixes("claude"), func() (Client, error) { return &stubClient{}, nil })

	_, err := registry.ClientFor("mistral-large")
	if err == nil {
		t.Fatal("Expected error for unrecognized model")
	}
	if !IsUnsupportedModelError(err) {
		t.Errorf("Expected UnsupportedModelError, got %v", err)
	}
	var umErr *UnsupportedModelError
	if errors.As(err, &umErr) && umErr.Model != "mistral-large" {
		t.Errorf("Expected model 'mistral-large' in error, got %q", umErr.Model)
	}
}

func TestRegistry_FactoryRunsOncePerProvider(t *testing.T) {
	registry := NewRegistry()
	built := 0
	registry.Register("anthropic", MatchPrefixes("claude"), func() (Client, error) {
		built++
		return &stubClient{}, nil
	})

	first, err := registry.ClientFor("claude-sonnet-4-0")
	if err != nil {
		t.Fatalf("Failed to resolve model: %v", err)
	}
	second, err := registry.ClientFor("claude-haiku-4-5")
	if err != nil {
		t.Fatalf("Failed to resolve model: %v", err)
	}

	if built != 1 {
		t.Errorf("Factory ran %d times, want 1", built)
	}
	if first != second {
		t.Error("Both models of a family should share one cached client")
	}
}

func TestRegistry_FactoryErrorIsNotCached(t *testing.T) {
	registry := NewRegistry()
	fail := true
	registry.Register("anthropic", MatchPrefixes("claude"), func() (Client, error) {
		if fail {
			return nil, errors.New("missing API key")
		}
		return &stubClient{}, nil
	})

	if _, err := registry.ClientFor("claude-sonnet-4-0"); err == nil {
		t.Fatal("Expected factory error")
	}

	fail = false
	if _, err := registry.ClientFor("claude-sonnet-4-0"); err != nil {
		t.Errorf("Factory should be retried after a failure, got %v", err)
	}
}

func TestRegistry_FirstMatchWins(t *testing.T) {
	registry := NewRegistry()
	first := &stubClient{name: "first"}
	second := &stubClient{name: "second"}
	registry.Register("first", MatchPrefixes("claude"), func() (Client, error) { return first, nil })
	registry.Register("second", MatchPrefixes("claude"), func() (Client, error) { return second, nil })

	client, err := registry.ClientFor("claude-sonnet-4-0")
	if err != nil {
		t.Fatalf("Failed to resolve model: %v", err)
	}
	if client != first {
		t.Error("Registration order should decide ties")
	}
}

func TestRegistry_Providers(t *testing.T) {
	registry := NewRegistry()
	registry.Register("anthropic", MatchPrefixes("claude"), func() (Client, error) { return &stubClient{}, nil })
	registry.Register("openai", MatchPrefixes("gpt"), func() (Client, error) { return &stubClient{}, nil })

	providers := registry.Providers()
	if len(providers) != 2 || providers[0] != "anthropic" || providers[1] != "openai" {
		t.Errorf("Providers() = %v, want [anthropic openai]", providers)
	}
}

func TestMatchPrefixes(t *testing.T) {
	match := MatchPrefixes("gpt", "o1")
	if !match("gpt-5") {
		t.Error("gpt-5 should match")
	}
	if !match("o1-mini") {
		t.Error("o1-mini should match")
	}
	if match("claude-sonnet-4-0") {
		t.Error("claude-sonnet-4-0 should not match")
	}
	if match("") {
		t.Error("empty model should not match")
	}
}
