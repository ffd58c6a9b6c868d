// Package modeladapter defines the completion interface and the HTTP plumbing
// shared by chat-completion adapters.
//
// It contains:
//   - [Completer] interface and embeddable [ModelAdapter] base struct with HTTP helpers, auth, and custom headers
//   - [StatusError] returned for non-2xx responses
//   - [github.com/germanamz/llm7chat/pkg/modeladapter/usage]: thread-safe token usage tracker
//
// Generation settings (temperature, max tokens) live on the ModelAdapter
// struct; the model identifier is supplied per call because the session may
// switch models between turns.
package modeladapter
