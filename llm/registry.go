package llm

import (
	"context"
	"strings"
	"sync"
)

// Client provides a provider-neutral interface for making LLM API calls.
// Implementations translate the canonical request into their vendor's wire shape,
// issue one network call, and normalize the response back into canonical content
// blocks.
type Client interface {
	Synchronous(ctx context.Context, req *Request) (*Response, error)
}

// Factory constructs a Client for a provider family. Construction is deferred
// until the first request that resolves to the family, so a missing API key for
// an unused provider never blocks startup.
type Factory func() (Client, error)

// Resolver resolves a model id to the Client of its provider family.
type Resolver interface {
	ClientFor(model string) (Client, error)
}

type registration struct {
	provider string
	match    func(model string) bool
	factory  Factory
}

// Registry resolves model ids to provider families through pattern membership.
// Families are registered by the caller (client construction here would create an
// import cycle with the provider packages). Adding a provider family is a single
// Register call; the loop engine never changes.
type Registry struct {
	mu      sync.RWMutex
	entries []registration
	cache   map[string]Client
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		cache: make(map[string]Client),
	}
}

// Register adds a provider family keyed by a model-id predicate. Registration
// order is significant: the first matching family wins.
func (r *Registry) Register(provider string, match func(model string) bool, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, registration{
		provider: provider,
		match:    match,
		factory:  factory,
	})
}

// ClientFor resolves a model id to its provider family's client, constructing and
// caching the client on first use. An unrecognized model id is fatal.
func (r *Registry) ClientFor(model string) (Client, error) {
	r.mu.RLock()
	for _, entry := range r.entries {
		if !entry.match(model) {
			continue
		}
		if client, ok := r.cache[entry.provider]; ok {
			r.mu.RUnlock()
			return client, nil
		}
		r.mu.RUnlock()
		return r.build(entry)
	}
	r.mu.RUnlock()
	return nil, &UnsupportedModelError{Model: model}
}

func (r *Registry) build(entry registration) (Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if client, ok := r.cache[entry.provider]; ok {
		return client, nil
	}
	client, err := entry.factory()
	if err != nil {
		return nil, err
	}
	r.cache[entry.provider] = client
	return client, nil
}

// Providers returns the registered provider family names in registration order.
func (r *Registry) Providers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entries))
	for _, entry := range r.entries {
		names = append(names, entry.provider)
	}
	return names
}

// MatchPrefixes builds a model-id predicate matching any of the given prefixes.
func MatchPrefixes(prefixes ...string) func(string) bool {
	return func(model string) bool {
		for _, prefix := range prefixes {
			if strings.HasPrefix(model, prefix) {
				return true
			}
		}
		return false
	}
}
