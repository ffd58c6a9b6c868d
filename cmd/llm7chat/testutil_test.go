package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/germanamz/llm7chat/pkg/capability"
	"github.com/germanamz/llm7chat/pkg/chats/chat"
	"github.com/germanamz/llm7chat/pkg/chats/message"
	"github.com/germanamz/llm7chat/pkg/chats/role"
	"github.com/germanamz/llm7chat/pkg/session"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// echoCompleter replies with the last user text prefixed by "echo: ".
type echoCompleter struct {
	err error
}

func (e *echoCompleter) Complete(_ context.Context, _ string, c *chat.Chat) (message.Message, error) {
	if e.err != nil {
		return message.Message{}, e.err
	}
	last, _ := c.Last()
	return message.NewText(role.Assistant, "echo: "+last.TextContent()), nil
}

func testSession(t *testing.T, completer *echoCompleter, model string) *session.Session {
	t.Helper()

	catalog := capability.New(
		capability.Model{ID: "vision", Name: "Vision", Multimodal: true},
		capability.Model{ID: "text", Name: "Text Only"},
	)
	clock := time.Date(2024, 5, 1, 9, 7, 0, 0, time.UTC)

	sess, err := session.New(completer, catalog, model, session.WithClock(func() time.Time { return clock }))
	require.NoError(t, err)

	return sess
}

func writeTempFile(t *testing.T, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	return path
}
