package main

import (
	"bytes"
	"fmt"
	"html/template"
	"os"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

const noteStyle = "monokai"

// sidebarNote is an optional markdown file shown above the navigation,
// rendered once at startup.
type sidebarNote struct {
	HTML template.HTML
	CSS  template.CSS
}

// newMarkdownRenderer creates a configured goldmark renderer
func newMarkdownRenderer() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Typographer,
			highlighting.NewHighlighting(
				highlighting.WithStyle(noteStyle),
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true),
				),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		),
	)
}

// loadSidebarNote renders the markdown file at path. An empty path yields an
// empty note.
func loadSidebarNote(path string) (sidebarNote, error) {
	if path == "" {
		return sidebarNote{}, nil
	}
	source, err := os.ReadFile(path)
	if err != nil {
		return sidebarNote{}, fmt.Errorf("read sidebar note: %w", err)
	}
	return renderSidebarNote(source)
}

func renderSidebarNote(source []byte) (sidebarNote, error) {
	var buf bytes.Buffer
	if err := newMarkdownRenderer().Convert(source, &buf); err != nil {
		return sidebarNote{}, fmt.Errorf("render sidebar note: %w", err)
	}

	// Highlighted code blocks only carry class names; the matching rules come from chroma
	var css bytes.Buffer
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.WriteCSS(&css, styles.Get(noteStyle)); err != nil {
		return sidebarNote{}, fmt.Errorf("generate highlight CSS: %w", err)
	}

	return sidebarNote{
		HTML: template.HTML(buf.String()),
		CSS:  template.CSS(css.String()),
	}, nil
}
