package main

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed theme/*
var themeFS embed.FS

// pageData feeds theme/layout.html. Content is the requested page embedded
// verbatim; pages under the content root are trusted and never sanitized.
type pageData struct {
	Title        string
	SiteTitle    string
	Breadcrumb   string
	NavHTML      template.HTML
	NoteHTML     template.HTML
	Content      template.HTML
	CSS          template.CSS
	NoteCSS      template.CSS
	NavigationJS template.JS
}

// composer wraps pages with the sidebar chrome. Everything it holds is
// computed at startup and shared read-only by all requests.
type composer struct {
	layout       *template.Template
	siteTitle    string
	navHTML      template.HTML
	note         sidebarNote
	css          template.CSS
	navigationJS template.JS
}

func newComposer(nav *navigation, siteTitle string, note sidebarNote) (*composer, error) {
	cssData, err := themeFS.ReadFile("theme/sidebar.css")
	if err != nil {
		return nil, fmt.Errorf("load sidebar CSS: %w", err)
	}
	jsData, err := themeFS.ReadFile("theme/navigation.js")
	if err != nil {
		return nil, fmt.Errorf("load navigation JS: %w", err)
	}
	layoutHTML, err := themeFS.ReadFile("theme/layout.html")
	if err != nil {
		return nil, fmt.Errorf("load layout template: %w", err)
	}
	layout, err := template.New("layout").Parse(string(layoutHTML))
	if err != nil {
		return nil, fmt.Errorf("parse layout template: %w", err)
	}

	return &composer{
		layout:       layout,
		siteTitle:    siteTitle,
		navHTML:      template.HTML(nav.HTML),
		note:         note,
		css:          template.CSS(cssData),
		navigationJS: template.JS(jsData),
	}, nil
}

// compose merges page with the navigation and the breadcrumb of requestPath
// into one self-contained document.
func (c *composer) compose(page, requestPath string) (string, error) {
	crumb := breadcrumb(requestPath)
	title := crumb
	if title == "" {
		title = c.siteTitle
		crumb = c.siteTitle
	}

	data := pageData{
		Title:        title,
		SiteTitle:    c.siteTitle,
		Breadcrumb:   crumb,
		NavHTML:      c.navHTML,
		NoteHTML:     c.note.HTML,
		Content:      template.HTML(page),
		CSS:          c.css,
		NoteCSS:      c.note.CSS,
		NavigationJS: c.navigationJS,
	}

	var buf bytes.Buffer
	if err := c.layout.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute layout: %w", err)
	}
	return buf.String(), nil
}
