// Package chats provides the provider-agnostic conversation model used by the
// chat session.
//
// It is organized into sub-packages:
//   - [github.com/germanamz/llm7chat/pkg/chats/role]: conversation roles (user, assistant)
//   - [github.com/germanamz/llm7chat/pkg/chats/content]: content parts (text, image)
//   - [github.com/germanamz/llm7chat/pkg/chats/message]: messages composed of a role and content parts
//   - [github.com/germanamz/llm7chat/pkg/chats/chat]: append-only conversation history
//
// No wire format lives here. Adapters decide how a message is serialized,
// including whether a text-only message collapses to a bare string.
package chats
