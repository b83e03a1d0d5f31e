package mcp

import (
	"strings"
	"sync"
)

// NameAdapter maps between MCP tool names (which may contain dots) and safe tool
// names (which must not, for the providers' tool-name rules).
type NameAdapter struct {
	mu             sync.RWMutex
	safeToOriginal map[string]string
	originalToSafe map[string]string
}

// NewNameAdapter creates a new name adapter.
func NewNameAdapter() *NameAdapter {
	return &NameAdapter{
		safeToOriginal: make(map[string]string),
		originalToSafe: make(map[string]string),
	}
}

// ToSafeName converts an MCP tool name to a safe name by replacing dots with
// underscores. Example: "stats.player.lookup" -> "stats_player_lookup".
func ToSafeName(original string) string {
	return strings.ReplaceAll(original, ".", "_")
}

// SafeName returns the safe name for an original name, recording the mapping.
func (a *NameAdapter) SafeName(original string) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if safe, ok := a.originalToSafe[original]; ok {
		return safe
	}
	safe := ToSafeName(original)
	a.originalToSafe[original] = safe
	a.safeToOriginal[safe] = original
	return safe
}

// OriginalName converts a safe name back to the original MCP tool name. Names
// never seen by SafeName pass through unchanged.
func (a *NameAdapter) OriginalName(safe string) string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if original, ok := a.safeToOriginal[safe]; ok {
		return original
	}
	return safe
}
