package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunPlain_Conversation(t *testing.T) {
	sess := testSession(t, &echoCompleter{}, "vision")

	in := strings.NewReader("hello\n\n/model text\nagain\n/quit\nnever sent\n")
	var out bytes.Buffer

	require.NoError(t, runPlain(context.Background(), sess, in, &out))

	got := out.String()
	assert.Contains(t, got, "Current model: Vision\n")
	assert.Contains(t, got, "[09:07] Vision: echo: hello\n")
	assert.Contains(t, got, "Current model: Text Only\n")
	assert.Contains(t, got, "[09:07] Text Only: echo: again\n")
	assert.NotContains(t, got, "never sent")
	assert.Len(t, sess.History(), 2, "model switch discarded the first exchange")
}

func TestRunPlain_ErrorReply(t *testing.T) {
	sess := testSession(t, &echoCompleter{err: errors.New("API request failed: 500 - boom")}, "vision")

	var out bytes.Buffer
	require.NoError(t, runPlain(context.Background(), sess, strings.NewReader("hello\n"), &out))

	assert.Contains(t, out.String(), "[09:07] Error: API request failed: 500 - boom\n")
	assert.Len(t, sess.History(), 1)
}

func TestRunPlain_AttachThenSendImageOnly(t *testing.T) {
	sess := testSession(t, &echoCompleter{}, "vision")
	path := writeTempFile(t, "cat.png", pngHeader)

	var out bytes.Buffer
	require.NoError(t, runPlain(context.Background(), sess, strings.NewReader("/attach "+path+"\n\n"), &out))

	assert.Contains(t, out.String(), "Attached cat.png (8 B)\n")

	history := sess.History()
	require.Len(t, history, 2)
	assert.Len(t, history[0].Images(), 1)
}

func TestRunPlain_RejectedAttachment(t *testing.T) {
	sess := testSession(t, &echoCompleter{}, "vision")
	path := writeTempFile(t, "notes.txt", []byte("just text"))

	var out bytes.Buffer
	require.NoError(t, runPlain(context.Background(), sess, strings.NewReader("/attach "+path+"\n"), &out))

	assert.Contains(t, out.String(), "Error: notes.txt: Please select an image file.\n")
	_, ok := sess.Attachment()
	assert.False(t, ok)
}

func TestRunPlain_UnknownCommand(t *testing.T) {
	sess := testSession(t, &echoCompleter{}, "vision")

	var out bytes.Buffer
	require.NoError(t, runPlain(context.Background(), sess, strings.NewReader("/nope\n"), &out))

	assert.Contains(t, out.String(), "Error: unknown command /nope (try /help)\n")
	assert.Empty(t, sess.History())
}
