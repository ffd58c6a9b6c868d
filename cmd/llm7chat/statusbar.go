package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/germanamz/llm7chat/cmd/llm7chat/internal/format"
	"github.com/germanamz/llm7chat/pkg/modeladapter"
	"github.com/germanamz/llm7chat/pkg/session"
)

// statusBarModel shows the current model, token usage and timing.
type statusBarModel struct {
	sess     *session.Session
	duration time.Duration
}

func newStatusBar(sess *session.Session) statusBarModel {
	return statusBarModel{sess: sess}
}

func (m statusBarModel) View() string {
	parts := []string{"Current model: " + modelStyle.Render(m.sess.ModelName())}

	if m.sess.IsMultimodal() {
		parts = append(parts, "images: /attach")
	}

	if ur, ok := m.sess.Completer().(modeladapter.UsageReporter); ok {
		total := ur.UsageTracker().Total()
		if last, hasLast := ur.UsageTracker().Last(); hasLast {
			parts = append(parts, fmt.Sprintf("last: ↑%s ↓%s · total: ↑%s ↓%s",
				format.FmtTokens(last.PromptTokens),
				format.FmtTokens(last.CompletionTokens),
				format.FmtTokens(total.PromptTokens),
				format.FmtTokens(total.CompletionTokens),
			))
		}
	}

	if m.duration > 0 {
		parts = append(parts, format.FmtDuration(m.duration))
	}

	return statusStyle.Render(" " + strings.Join(parts, " · "))
}
