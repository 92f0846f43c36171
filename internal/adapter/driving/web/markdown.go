package web

import (
	"bytes"
	stdhtml "html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	mdRenderer    goldmark.Markdown
	htmlSanitizer *bluemonday.Policy
	formStripper  *bluemonday.Policy
)

func init() {
	mdRenderer = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)

	htmlSanitizer = bluemonday.UGCPolicy()
	formStripper = bluemonday.StrictPolicy()
}

// RenderMarkdown converts a markdown string to sanitized HTML.
// Returns empty string for empty input.
func RenderMarkdown(src string) string {
	if src == "" {
		return ""
	}

	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(src), &buf); err != nil {
		return htmlSanitizer.Sanitize(src)
	}

	return htmlSanitizer.Sanitize(buf.String())
}

// cleanFormValue strips markup from a submitted form value and trims surrounding
// whitespace. Output is escaped by templ anyway; the stripping is about what gets
// stored, because the server list file is also read by release tooling that shows
// the fields unescaped. Text that does not parse as a tag, such as "a < b" or a
// query string, survives: the stripper only escapes it and the entities are
// decoded again here.
func cleanFormValue(v string) string {
	stripped := formStripper.Sanitize(strings.TrimSpace(v))
	return strings.TrimSpace(stdhtml.UnescapeString(stripped))
}
