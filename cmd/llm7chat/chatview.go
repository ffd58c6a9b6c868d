package main

import (
	"fmt"
	"strings"

	"github.com/germanamz/llm7chat/cmd/llm7chat/internal/format"
	"github.com/germanamz/llm7chat/pkg/attachment"
	"github.com/germanamz/llm7chat/pkg/chats/role"
	"github.com/germanamz/llm7chat/pkg/session"
)

// chatViewModel renders the live portion of the chat: the spinner while a
// reply is pending and the staged attachment. Transcript entries are printed
// to the terminal scrollback via tea.Println and are not part of this view.
type chatViewModel struct {
	loading    bool
	decoding   bool
	modelName  string
	attachment *attachment.Attachment
	spinnerIdx int
	width      int
}

func (m chatViewModel) View() string {
	var sb strings.Builder

	if m.attachment != nil {
		fmt.Fprintf(&sb, "  %s\n", attachStyle.Render(fmt.Sprintf("📎 %s (%s) · /detach to remove",
			format.Truncate(m.attachment.Name, max(m.width-30, 10)),
			format.FmtSize(m.attachment.Size),
		)))
	} else if m.decoding {
		fmt.Fprintf(&sb, "  %s\n", dimStyle.Render("Reading image..."))
	}

	if m.loading {
		frame := format.SpinnerFrames[m.spinnerIdx%len(format.SpinnerFrames)]
		fmt.Fprintf(&sb, "  %s %s\n",
			spinnerStyle.Render(frame),
			spinnerStyle.Render(m.modelName+" is analyzing"),
		)
	}

	return sb.String()
}

// sync copies the display state out of sess.
func (m *chatViewModel) sync(sess *session.Session) {
	c := sess.Controls()
	m.loading = c.Loading
	m.decoding = c.Decoding
	m.modelName = sess.ModelName()
	m.attachment = nil
	if a, ok := sess.Attachment(); ok {
		m.attachment = &a
	}
}

func (m *chatViewModel) advanceSpinner() {
	m.spinnerIdx++
}

// renderEntry formats one transcript entry for the scrollback.
func renderEntry(e session.Entry, modelName string) string {
	if e.IsError() {
		return errorBlockStyle.Render(e.Text)
	}

	if e.Role == role.User {
		return renderUserEntry(e)
	}

	header := answerPrefixStyle.Render(fmt.Sprintf("🤖 %s · %s >", modelName, e.Clock()))
	return answerBlockStyle.Render(header + "\n" + format.RenderMarkdown(e.Text))
}

// renderUserEntry indents continuation lines to align with the first line.
func renderUserEntry(e session.Entry) string {
	prefix := userPrefixStyle.Render(fmt.Sprintf("🧑 You · %s > ", e.Clock()))

	var sb strings.Builder
	sb.WriteString(prefix)

	lines := strings.Split(e.Text, "\n")
	sb.WriteString(lines[0])
	for _, line := range lines[1:] {
		sb.WriteString("\n  ")
		sb.WriteString(line)
	}

	if e.ImageURL != "" {
		if lines[0] != "" || len(lines) > 1 {
			sb.WriteString("\n  ")
		}
		sb.WriteString(attachStyle.Render("[image]"))
	}

	return userBlockStyle.Render(sb.String())
}
