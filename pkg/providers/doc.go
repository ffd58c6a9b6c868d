// Package providers holds the chat-completion adapters and the errors they
// share.
//
// It is organized into sub-packages:
//   - [github.com/germanamz/llm7chat/pkg/providers/openai]: hand-rolled client for the OpenAI-compatible /v1/chat/completions endpoint
//   - [github.com/germanamz/llm7chat/pkg/providers/openaisdk]: the same endpoint driven through the official openai-go SDK
//
// Both adapters implement [github.com/germanamz/llm7chat/pkg/modeladapter.Completer].
package providers

import "errors"

// ErrInvalidResponse is returned when a 2xx response carries no usable
// first choice.
var ErrInvalidResponse = errors.New("Invalid response format") //nolint:staticcheck // user-facing text
