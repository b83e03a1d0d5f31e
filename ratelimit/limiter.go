// Package ratelimit implements a per-model sliding-window token budget with
// prompt truncation. Budgets are process-wide, in-memory, and best-effort; they
// do not survive a restart.
package ratelimit

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	// WindowDuration is the fixed length of a rate-limit window. The window
	// resets wholesale once its age reaches this duration.
	WindowDuration = 60 * time.Second

	// DefaultBudget is the per-window token budget applied to models without a
	// configured override.
	DefaultBudget = 200_000

	// ReservedTokens is held back from a truncation target to leave room for the
	// truncation notice and provider-side framing.
	ReservedTokens = 50

	// charsPerToken is the crude character-to-token ratio used by Estimate.
	charsPerToken = 4
)

// TruncationNotice is appended to a truncated prompt. It must stay well under
// ReservedTokens worth of characters so the truncated result fits the budget.
const TruncationNotice = "\n\n[Prompt truncated to fit the rate limit. This is your final opportunity to answer: produce the best complete report you can from the content above.]"

// window tracks one model's usage within the current rate-limit window.
type window struct {
	tokensUsed   int
	requestCount int
	startedAt    time.Time
}

// Limiter gates requests against per-model sliding windows. All methods are safe
// for concurrent use; Check performs its read-check-commit atomically so two
// concurrent requests can never jointly pass a boundary they jointly exceed.
type Limiter struct {
	mu       sync.Mutex
	windows  map[string]*window
	budgets  map[string]int // per-model overrides
	fallback int
	now      func() time.Time
	logger   zerolog.Logger
}

// NewLimiter creates a Limiter with the given per-model budget overrides.
// Models absent from budgets use defaultBudget; passing 0 selects
// DefaultBudget.
func NewLimiter(budgets map[string]int, defaultBudget int, logger zerolog.Logger) *Limiter {
	if defaultBudget <= 0 {
		defaultBudget = DefaultBudget
	}
	return &Limiter{
		windows:  make(map[string]*window),
		budgets:  budgets,
		fallback: defaultBudget,
		now:      time.Now,
		logger:   logger.With().Str("component", "rateLimiter").Logger(),
	}
}

// Estimate approximates the token cost of text as ceil(len/4). This is a
// deliberately crude proxy, not a tokenizer; it exists so gating never needs a
// provider round-trip.
func Estimate(text string) int {
	return (len(text) + charsPerToken - 1) / charsPerToken
}

// Check gates an estimated cost against the model's current window. When the
// request fits, the cost is committed and Check reports allowed. When it does
// not, nothing is committed and the returned remaining budget can size a
// truncation; a retry of the same call still sees the unchanged remainder.
func (l *Limiter) Check(model string, estimated int) (allowed bool, remaining int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[model]
	if !ok || now.Sub(w.startedAt) >= WindowDuration {
		w = &window{startedAt: now}
		l.windows[model] = w
	}

	budget := l.fallback
	if override, ok := l.budgets[model]; ok {
		budget = override
	}

	remaining = budget - w.tokensUsed
	if remaining < 0 {
		remaining = 0
	}

	if estimated <= remaining {
		w.tokensUsed += estimated
		w.requestCount++
		return true, remaining - estimated
	}

	l.logger.Warn().
		Str("model", model).
		Int("estimated_tokens", estimated).
		Int("remaining_tokens", remaining).
		Int("window_requests", w.requestCount).
		Msg("Rate limit window exhausted for model")
	return false, remaining
}

// Truncate cuts prompt down to roughly maxTokens worth of characters, holding
// back ReservedTokens and appending the truncation notice. A prompt that already
// fits is returned unchanged.
func Truncate(prompt string, maxTokens int) (string, bool) {
	if Estimate(prompt) <= maxTokens {
		return prompt, false
	}

	keepTokens := maxTokens - ReservedTokens
	if keepTokens < 0 {
		keepTokens = 0
	}
	keepChars := keepTokens * charsPerToken
	if keepChars > len(prompt) {
		keepChars = len(prompt)
	}

	return prompt[:keepChars] + TruncationNotice, true
}
