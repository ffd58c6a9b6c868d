package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/germanamz/llm7chat/pkg/export"
	"github.com/germanamz/llm7chat/pkg/modeladapter"
	"github.com/germanamz/llm7chat/pkg/session"
)

var errUnknownCommand = errors.New("unknown command")

// command is a parsed slash command.
type command struct {
	name string
	arg  string
}

// parseCommand splits "/name arg" input. Text that does not start with a
// slash is not a command.
func parseCommand(text string) (command, bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return command{}, false
	}

	name, arg, _ := strings.Cut(text[1:], " ")
	return command{name: strings.ToLower(name), arg: strings.TrimSpace(arg)}, true
}

// commandOutcome is what a command did. Frontends print notice, apply
// transition and run any DecodeJob it carries.
type commandOutcome struct {
	transition *session.Transition
	notice     string
	quit       bool
	err        error
}

// runCommand executes cmd against sess. It never blocks on the network;
// staging returns a transition whose DecodeJob the caller runs.
func runCommand(_ context.Context, sess *session.Session, cmd command) commandOutcome {
	switch cmd.name {
	case "quit", "exit":
		return commandOutcome{quit: true}

	case "help":
		return commandOutcome{notice: helpText()}

	case "models":
		return commandOutcome{notice: modelList(sess)}

	case "model":
		if cmd.arg == "" {
			return commandOutcome{notice: "Current model: " + sess.ModelName()}
		}
		tr := sess.Handle(session.SelectModel{ID: cmd.arg})
		if tr.Err != nil {
			return commandOutcome{err: tr.Err}
		}
		return commandOutcome{transition: &tr, notice: "Current model: " + sess.ModelName()}

	case "attach":
		if cmd.arg == "" {
			return commandOutcome{err: errors.New("usage: /attach <path>")}
		}
		if !sess.Controls().AttachEnabled {
			return commandOutcome{err: fmt.Errorf("%s does not accept images", sess.ModelName())}
		}
		tr := sess.Handle(session.StageAttachment{Path: expandHome(cmd.arg)})
		return commandOutcome{transition: &tr}

	case "detach":
		tr := sess.Handle(session.RemoveAttachment{})
		return commandOutcome{transition: &tr, notice: "Attachment removed."}

	case "clear":
		tr := sess.Handle(session.Clear{})
		return commandOutcome{transition: &tr, notice: "Conversation cleared."}

	case "export":
		if cmd.arg == "" {
			return commandOutcome{err: errors.New("usage: /export <file.html>")}
		}
		path := expandHome(cmd.arg)
		if err := export.WriteFile(path, exportDocument(sess)); err != nil {
			return commandOutcome{err: err}
		}
		return commandOutcome{notice: "Transcript exported to " + path}
	}

	return commandOutcome{err: fmt.Errorf("%w /%s (try /help)", errUnknownCommand, cmd.name)}
}

func exportDocument(sess *session.Session) export.Document {
	doc := export.Document{
		Title:    "llm7chat: " + sess.ModelName(),
		Model:    sess.ModelName(),
		Exported: time.Now(),
		Entries:  sess.Transcript(),
	}
	if ur, ok := sess.Completer().(modeladapter.UsageReporter); ok {
		total := ur.UsageTracker().Total()
		doc.Usage = &total
	}
	return doc
}

func modelList(sess *session.Session) string {
	var sb strings.Builder
	sb.WriteString("Models:\n")
	for _, m := range sess.Catalog().Models() {
		marker := "  "
		if m.ID == sess.Model() {
			marker = "* "
		}
		fmt.Fprintf(&sb, "%s%-28s %s", marker, m.ID, m.DisplayName())
		if m.Multimodal {
			sb.WriteString(" (images)")
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func helpText() string {
	return "Commands:\n" +
		"  /model <id>       Switch model (clears the conversation)\n" +
		"  /models           List available models\n" +
		"  /attach <path>    Stage an image for the next message\n" +
		"  /detach           Remove the staged image\n" +
		"  /clear            Start a new conversation\n" +
		"  /export <file>    Save the transcript as HTML\n" +
		"  /help             Show this help message\n" +
		"  /quit             Exit the chat\n\n" +
		"Shortcuts:\n" +
		"  Enter             Send message\n" +
		"  Alt+Enter         New line\n" +
		"  Esc               Cancel the pending reply\n" +
		"  Ctrl+C            Exit"
}
