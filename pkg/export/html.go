// Package export writes a session transcript to a standalone HTML file.
// It is a one-shot snapshot; nothing reads it back.
package export

import (
	"fmt"
	"html/template"
	"io"
	"os"
	"strings"
	"time"

	"github.com/germanamz/llm7chat/pkg/chats/role"
	"github.com/germanamz/llm7chat/pkg/modeladapter/usage"
	"github.com/germanamz/llm7chat/pkg/session"
)

// Document is everything an export renders.
type Document struct {
	Title    string
	Model    string
	Exported time.Time
	Entries  []session.Entry
	// Usage is the session's accumulated token count, if known.
	Usage *usage.TokenCount
}

type entryView struct {
	Role   string
	Class  string
	Clock  string
	Markup template.HTML
	Image  template.URL
}

type docView struct {
	Title    string
	Model    string
	Exported string
	Entries  []entryView
	Tokens   int
}

var page = template.Must(template.New("transcript").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<meta name="generator" content="llm7chat">
<title>{{.Title}}</title>
<style>
body{font-family:system-ui,sans-serif;max-width:48rem;margin:2rem auto;padding:0 1rem;color:#222}
header{border-bottom:1px solid #ddd;margin-bottom:1rem}
.meta{color:#666;font-size:.9rem}
.message{margin:1rem 0;padding:.75rem 1rem;border-radius:.5rem}
.user{background:#eef4ff}
.assistant{background:#f6f6f6}
.error{background:#fdecea;color:#a12}
.head{font-size:.8rem;color:#666;margin-bottom:.25rem}
pre{background:#272822;color:#f8f8f2;padding:.75rem;overflow-x:auto}
code{font-family:ui-monospace,monospace}
img{max-width:100%;max-height:20rem;display:block;margin-top:.5rem}
</style>
</head>
<body>
<header>
<h1>{{.Title}}</h1>
<p class="meta">Model: {{.Model}} · Exported {{.Exported}}{{if .Tokens}} · {{.Tokens}} tokens{{end}}</p>
</header>
<main>
{{- range .Entries}}
<div class="message {{.Class}}">
<div class="head"><strong>{{.Role}}</strong> {{.Clock}}</div>
<div class="body">{{.Markup}}</div>
{{- if .Image}}
<img src="{{.Image}}" alt="attached image">
{{- end}}
</div>
{{- end}}
</main>
</body>
</html>
`))

// HTML writes doc to w.
func HTML(w io.Writer, doc Document) error {
	view := docView{
		Title:    doc.Title,
		Model:    doc.Model,
		Exported: doc.Exported.Format("January 2, 2006 at 15:04"),
		Entries:  make([]entryView, 0, len(doc.Entries)),
	}
	if view.Title == "" {
		view.Title = "Chat transcript"
	}
	if doc.Usage != nil {
		view.Tokens = doc.Usage.Total()
	}

	for _, e := range doc.Entries {
		view.Entries = append(view.Entries, newEntryView(e))
	}

	if err := page.Execute(w, view); err != nil {
		return fmt.Errorf("export: render: %w", err)
	}

	return nil
}

// WriteFile renders doc into the file at path, replacing it.
func WriteFile(path string, doc Document) error {
	f, err := os.Create(path) //nolint:gosec // path is chosen by the local user
	if err != nil {
		return fmt.Errorf("export: create: %w", err)
	}

	if err := HTML(f, doc); err != nil {
		_ = f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("export: close: %w", err)
	}

	return nil
}

func newEntryView(e session.Entry) entryView {
	v := entryView{
		Role:  label(e.Role),
		Class: e.Role.String(),
		Clock: e.Clock(),
		// Markup is produced by render.HTML, which escapes all input.
		Markup: template.HTML(e.Markup), //nolint:gosec // escaped by render.HTML
	}
	if e.IsError() {
		v.Class = "error"
	}
	if strings.HasPrefix(e.ImageURL, "data:image/") {
		v.Image = template.URL(e.ImageURL) //nolint:gosec // data URI built by attachment.EncodeDataURI
	}
	return v
}

func label(r role.Role) string {
	switch r {
	case role.User:
		return "You"
	case role.Assistant:
		return "Assistant"
	}
	return r.String()
}
