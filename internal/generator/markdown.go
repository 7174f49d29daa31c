package generator

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

type markdownRenderer struct {
	md goldmark.Markdown
}

// NewMarkdownRenderer creates a help renderer that links bare URLs,
// understands task lists and turns soft line breaks into <br>.
func NewMarkdownRenderer() HelpRenderer {
	return &markdownRenderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.Linkify, extension.TaskList),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		),
	}
}

func (r *markdownRenderer) Render(markdown string) (string, error) {
	if strings.TrimSpace(markdown) == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(markdown), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
