// Package message defines the Message type used in conversations.
package message

import (
	"strings"

	"github.com/germanamz/llm7chat/pkg/chats/content"
	"github.com/germanamz/llm7chat/pkg/chats/role"
)

// Message represents a single message in a conversation.
// It is a value type that copies cheaply.
type Message struct {
	Role  role.Role
	Parts []content.Part
}

// New creates a message with the given role and content parts.
func New(r role.Role, parts ...content.Part) Message {
	return Message{
		Role:  r,
		Parts: parts,
	}
}

// NewText creates a message with a single Text content part.
func NewText(r role.Role, text string) Message {
	return New(r, content.Text{Text: text})
}

// TextContent concatenates the text of all Text parts in the message.
func (m Message) TextContent() string {
	var b strings.Builder
	for _, p := range m.Parts {
		if t, ok := p.(content.Text); ok {
			b.WriteString(t.Text)
		}
	}
	return b.String()
}

// Images returns all Image parts in the message.
func (m Message) Images() []content.Image {
	var imgs []content.Image
	for _, p := range m.Parts {
		if img, ok := p.(content.Image); ok {
			imgs = append(imgs, img)
		}
	}
	return imgs
}

// IsTextOnly reports whether the message consists of exactly one Text part.
// Such messages collapse to a bare string on the wire.
func (m Message) IsTextOnly() bool {
	if len(m.Parts) != 1 {
		return false
	}
	_, ok := m.Parts[0].(content.Text)
	return ok
}
