package export

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/germanamz/llm7chat/pkg/chats/role"
	"github.com/germanamz/llm7chat/pkg/modeladapter/usage"
	"github.com/germanamz/llm7chat/pkg/render"
	"github.com/germanamz/llm7chat/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDoc() Document {
	at := time.Date(2024, 5, 1, 14, 30, 0, 0, time.UTC)

	return Document{
		Title:    "<script>alert(1)</script>",
		Model:    "GPT-4.1",
		Exported: at,
		Entries: []session.Entry{
			{Role: role.User, Text: "**hi**", Markup: render.HTML("**hi**"), Time: at, ImageURL: "data:image/png;base64,iVBORw0KGgo="},
			{Role: role.Assistant, Text: "hello", Markup: render.HTML("hello"), Time: at.Add(time.Minute)},
			{Role: role.Assistant, Text: "Error: boom", Markup: render.HTML("Error: boom"), Time: at, Kind: session.KindNetwork},
		},
		Usage: &usage.TokenCount{PromptTokens: 10, CompletionTokens: 5},
	}
}

func TestHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, HTML(&buf, sampleDoc()))

	out := buf.String()
	assert.Contains(t, out, "<!DOCTYPE html>")
	assert.Contains(t, out, "&lt;script&gt;alert(1)&lt;/script&gt;")
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "<strong>hi</strong>")
	assert.Contains(t, out, `class="message user"`)
	assert.Contains(t, out, `class="message assistant"`)
	assert.Contains(t, out, `class="message error"`)
	assert.Contains(t, out, "14:30")
	assert.Contains(t, out, "14:31")
	assert.Contains(t, out, `src="data:image/png;base64,iVBORw0KGgo="`)
	assert.Contains(t, out, "15 tokens")
}

func TestHTML_DropsNonImageURLs(t *testing.T) {
	doc := sampleDoc()
	doc.Entries = []session.Entry{{Role: role.User, ImageURL: "javascript:alert(1)"}}

	var buf bytes.Buffer
	require.NoError(t, HTML(&buf, doc))

	assert.NotContains(t, buf.String(), "<img")
}

func TestHTML_DefaultTitle(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, HTML(&buf, Document{Exported: time.Now()}))

	assert.Contains(t, buf.String(), "<title>Chat transcript</title>")
	assert.NotContains(t, buf.String(), "tokens")
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chat.html")
	require.NoError(t, WriteFile(path, sampleDoc()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<strong>hi</strong>")
}

func TestWriteFile_BadPath(t *testing.T) {
	err := WriteFile(filepath.Join(t.TempDir(), "missing", "chat.html"), sampleDoc())
	assert.ErrorContains(t, err, "export: create")
}
