// Package markdown renders user-authored text to sanitized HTML for API
// responses. Raw markdown stays in the database; rendering happens on read.
package markdown

import (
	"bytes"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/bloghub-dev/bloghub/shared/logger"
)

type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func New() *Renderer {
	md := goldmark.New(
		goldmark.WithRendererOptions(html.WithHardWraps()),
		goldmark.WithExtensions(extension.Strikethrough),
	)
	return &Renderer{md: md, policy: bluemonday.UGCPolicy()}
}

// Render converts markdown to HTML and strips anything the UGC policy
// disallows. On render failure it falls back to the sanitized raw text.
func (r *Renderer) Render(text string) string {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(text), &buf); err != nil {
		logger.Log.Warn("markdown render failed", "error", err)
		return r.policy.Sanitize(text)
	}
	return r.policy.Sanitize(buf.String())
}
