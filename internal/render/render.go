// Package render converts document bodies to HTML behind a narrow interface
// so the pipeline stays testable without the real site generator.
package render

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Renderer turns a raw markup body into HTML.
type Renderer interface {
	Render(body []byte) ([]byte, error)
}

// Goldmark is the default Renderer, CommonMark plus GFM tables and
// strikethrough.
type Goldmark struct {
	md goldmark.Markdown
}

// NewGoldmark constructs the default renderer.
func NewGoldmark() *Goldmark {
	return &Goldmark{
		md: goldmark.New(
			goldmark.WithExtensions(extension.Table, extension.Strikethrough),
		),
	}
}

// Render converts body to HTML.
func (g *Goldmark) Render(body []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := g.md.Convert(body, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
