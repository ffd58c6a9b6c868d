// Package usage tracks token consumption reported by the chat API.
package usage

import "sync"

// TokenCount holds prompt and completion token counts for one API call.
type TokenCount struct {
	PromptTokens     int
	CompletionTokens int
}

// Total returns the sum of prompt and completion tokens.
func (tc TokenCount) Total() int {
	return tc.PromptTokens + tc.CompletionTokens
}

// Tracker accumulates token usage across turns. The zero value is ready to use
// and it is safe for concurrent use, since adapters record usage from the
// goroutine running the request.
type Tracker struct {
	mu    sync.Mutex
	last  TokenCount
	total TokenCount
	calls int
}

// Add records the usage of one call.
func (t *Tracker) Add(tc TokenCount) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.last = tc
	t.total.PromptTokens += tc.PromptTokens
	t.total.CompletionTokens += tc.CompletionTokens
	t.calls++
}

// Last returns the most recently recorded usage.
// The bool is false when nothing has been recorded.
func (t *Tracker) Last() (TokenCount, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.last, t.calls > 0
}

// Total returns the aggregate usage since the last Reset.
func (t *Tracker) Total() TokenCount {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.total
}

// Count returns the number of recorded calls.
func (t *Tracker) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.calls
}

// Reset clears all recorded usage. The session calls it when the
// conversation is discarded.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.last = TokenCount{}
	t.total = TokenCount{}
	t.calls = 0
}
