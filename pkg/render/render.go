// Package render turns raw message text into lightly formatted HTML.
//
// Formatting is applied to the raw text directly: bold, italic and inline code
// spans are wrapped without escaping their contents. Only fenced code blocks
// are HTML-escaped, so their contents are never interpreted as markup.
package render

import (
	"regexp"
	"strings"
)

var (
	boldRe       = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italicRe     = regexp.MustCompile(`\*(.*?)\*`)
	inlineCodeRe = regexp.MustCompile("`(.*?)`")
	fenceRe      = regexp.MustCompile("(?s)```(.*?)```")
)

// htmlEscaper replaces in a single pass, so entities it inserts are never
// escaped again; the result equals replacing & first, then < > " '.
var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// EscapeHTML replaces &, <, >, " and ' with their entities.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// HTML renders raw message text:
//   - **x** → <strong>x</strong>, then *x* → <em>x</em>, then `x` → <code>x</code>
//   - ```x``` → <pre><code>escaped x</code></pre>, one leading newline dropped
//   - every newline → <br>
//
// Inline rules never match across a line break and never reach inside a
// fenced block.
func HTML(raw string) string {
	var sb strings.Builder

	last := 0
	for _, loc := range fenceRe.FindAllStringSubmatchIndex(raw, -1) {
		sb.WriteString(inline(raw[last:loc[0]]))
		sb.WriteString(codeBlock(raw[loc[2]:loc[3]]))
		last = loc[1]
	}
	sb.WriteString(inline(raw[last:]))

	return strings.ReplaceAll(sb.String(), "\n", "<br>")
}

func inline(s string) string {
	s = boldRe.ReplaceAllString(s, "<strong>${1}</strong>")
	s = italicRe.ReplaceAllString(s, "<em>${1}</em>")
	return inlineCodeRe.ReplaceAllString(s, "<code>${1}</code>")
}

func codeBlock(code string) string {
	code = strings.TrimPrefix(code, "\n")
	return "<pre><code>" + EscapeHTML(code) + "</code></pre>"
}
