package session

import (
	"time"

	"github.com/germanamz/llm7chat/pkg/chats/role"
)

// Entry is one rendered transcript item. The transcript is what the user
// sees; history is what the API sees. Error entries appear only here.
type Entry struct {
	ID   string
	Role role.Role
	// Text is the raw text as typed or received.
	Text string
	// Markup is Text rendered by render.HTML.
	Markup string
	// ImageURL is the data URI of the image the user staged for this turn,
	// kept for display even when the model could not receive it.
	ImageURL string
	Time     time.Time
	Kind     ErrorKind
}

// IsError reports whether the entry is an error line.
func (e Entry) IsError() bool { return e.Kind != KindNone }

// Clock returns the entry time formatted as HH:MM.
func (e Entry) Clock() string { return e.Time.Format("15:04") }
