package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/germanamz/llm7chat/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		input string
		want  command
		ok    bool
	}{
		{"/help", command{name: "help"}, true},
		{"  /Model gpt-4.1  ", command{name: "model", arg: "gpt-4.1"}, true},
		{"/attach my cat.png", command{name: "attach", arg: "my cat.png"}, true},
		{"hello /help", command{}, false},
		{"", command{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := parseCommand(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRunCommand_Model(t *testing.T) {
	sess := testSession(t, &echoCompleter{}, "vision")
	sess.Handle(session.InputChanged{Text: "hi"})
	require.NoError(t, sess.Send(context.Background()).Err)

	out := runCommand(context.Background(), sess, command{name: "model", arg: "text"})

	require.NoError(t, out.err)
	require.NotNil(t, out.transition)
	assert.True(t, out.transition.Reset)
	assert.Equal(t, "Current model: Text Only", out.notice)
	assert.Empty(t, sess.History())
}

func TestRunCommand_ModelUnknown(t *testing.T) {
	sess := testSession(t, &echoCompleter{}, "vision")

	out := runCommand(context.Background(), sess, command{name: "model", arg: "nope"})

	require.ErrorIs(t, out.err, session.ErrUnknownModel)
	assert.Equal(t, "vision", sess.Model())
}

func TestRunCommand_ModelWithoutArgShowsCurrent(t *testing.T) {
	sess := testSession(t, &echoCompleter{}, "vision")

	out := runCommand(context.Background(), sess, command{name: "model"})
	assert.Equal(t, "Current model: Vision", out.notice)
	assert.Nil(t, out.transition)
}

func TestRunCommand_Models(t *testing.T) {
	sess := testSession(t, &echoCompleter{}, "vision")

	out := runCommand(context.Background(), sess, command{name: "models"})

	assert.Contains(t, out.notice, "* vision")
	assert.Contains(t, out.notice, "Vision (images)")
	assert.Contains(t, out.notice, "  text")
}

func TestRunCommand_AttachDisabledForTextModel(t *testing.T) {
	sess := testSession(t, &echoCompleter{}, "text")

	out := runCommand(context.Background(), sess, command{name: "attach", arg: writeTempFile(t, "a.png", pngHeader)})

	assert.ErrorContains(t, out.err, "Text Only does not accept images")
	assert.Nil(t, out.transition)
}

func TestRunCommand_AttachAndDetach(t *testing.T) {
	sess := testSession(t, &echoCompleter{}, "vision")

	out := runCommand(context.Background(), sess, command{name: "attach", arg: writeTempFile(t, "a.png", pngHeader)})
	require.NoError(t, out.err)
	require.NotNil(t, out.transition)
	require.NotNil(t, out.transition.Decode)

	sess.Handle(sess.Decode(context.Background(), *out.transition.Decode))
	_, ok := sess.Attachment()
	require.True(t, ok)

	out = runCommand(context.Background(), sess, command{name: "detach"})
	require.NoError(t, out.err)
	_, ok = sess.Attachment()
	assert.False(t, ok)
}

func TestRunCommand_AttachUsage(t *testing.T) {
	sess := testSession(t, &echoCompleter{}, "vision")

	out := runCommand(context.Background(), sess, command{name: "attach"})
	assert.ErrorContains(t, out.err, "usage: /attach")
}

func TestRunCommand_Clear(t *testing.T) {
	sess := testSession(t, &echoCompleter{}, "vision")
	sess.Handle(session.InputChanged{Text: "hi"})
	require.NoError(t, sess.Send(context.Background()).Err)

	out := runCommand(context.Background(), sess, command{name: "clear"})

	require.NotNil(t, out.transition)
	assert.True(t, out.transition.Reset)
	assert.Empty(t, sess.History())
	assert.Empty(t, sess.Transcript())
}

func TestRunCommand_Export(t *testing.T) {
	sess := testSession(t, &echoCompleter{}, "vision")
	sess.Handle(session.InputChanged{Text: "**hi**"})
	require.NoError(t, sess.Send(context.Background()).Err)

	path := filepath.Join(t.TempDir(), "chat.html")
	out := runCommand(context.Background(), sess, command{name: "export", arg: path})

	require.NoError(t, out.err)
	assert.Contains(t, out.notice, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<strong>hi</strong>")
	assert.Contains(t, string(data), "echo: <strong>hi</strong>")
}

func TestRunCommand_QuitHelpUnknown(t *testing.T) {
	sess := testSession(t, &echoCompleter{}, "vision")

	assert.True(t, runCommand(context.Background(), sess, command{name: "quit"}).quit)
	assert.True(t, runCommand(context.Background(), sess, command{name: "exit"}).quit)
	assert.Contains(t, runCommand(context.Background(), sess, command{name: "help"}).notice, "/attach <path>")

	out := runCommand(context.Background(), sess, command{name: "frobnicate"})
	require.ErrorIs(t, out.err, errUnknownCommand)
	assert.Contains(t, out.err.Error(), "/frobnicate")
}
