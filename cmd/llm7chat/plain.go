package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/germanamz/llm7chat/cmd/llm7chat/internal/format"
	"github.com/germanamz/llm7chat/pkg/chats/role"
	"github.com/germanamz/llm7chat/pkg/session"
)

// runPlain is the line mode used when stdin is not a terminal or -plain is
// given. Every input line is one message or one slash command; replies are
// written as raw text.
func runPlain(ctx context.Context, sess *session.Session, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	fmt.Fprintf(out, "Current model: %s\n", sess.ModelName())

	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}

		line := scanner.Text()
		if strings.TrimSpace(line) == "" && !sess.Controls().SendEnabled {
			continue
		}

		if cmd, ok := parseCommand(line); ok {
			res := runCommand(ctx, sess, cmd)
			if res.quit {
				return nil
			}
			if res.transition != nil {
				writePlain(out, applyPlain(ctx, out, sess, *res.transition), sess.ModelName())
			}
			if res.err != nil {
				fmt.Fprintf(out, "Error: %v\n", res.err)
			}
			if res.notice != "" {
				fmt.Fprintln(out, res.notice)
			}
			continue
		}

		sess.Handle(session.InputChanged{Text: line})
		tr := sess.Send(ctx)

		// The user's own line is already on the terminal or in the pipe.
		var replies []session.Entry
		for _, e := range tr.Entries {
			if e.Role != role.User {
				replies = append(replies, e)
			}
		}
		writePlain(out, session.Transition{Entries: replies, Err: tr.Err}, sess.ModelName())
	}

	return scanner.Err()
}

// applyPlain runs a staging transition's decode synchronously and reports
// the staged file.
func applyPlain(ctx context.Context, out io.Writer, sess *session.Session, tr session.Transition) session.Transition {
	if tr.Decode == nil {
		return tr
	}

	done := sess.Handle(sess.Decode(ctx, *tr.Decode))
	if a, ok := sess.Attachment(); ok && done.Err == nil {
		fmt.Fprintf(out, "Attached %s (%s)\n", a.Name, format.FmtSize(a.Size))
	}
	return done
}

func writePlain(out io.Writer, tr session.Transition, modelName string) {
	hasErrorEntry := false
	for _, e := range tr.Entries {
		if e.IsError() {
			hasErrorEntry = true
			fmt.Fprintf(out, "[%s] %s\n", e.Clock(), e.Text)
			continue
		}
		fmt.Fprintf(out, "[%s] %s: %s\n", e.Clock(), modelName, e.Text)
	}
	if tr.Err != nil && !hasErrorEntry {
		fmt.Fprintf(out, "Error: %v\n", tr.Err)
	}
}
