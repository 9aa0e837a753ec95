package main

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

// findElements returns every element below n matching tag and, when class is
// set, carrying that class
func findElements(n *html.Node, tag, class string) []*html.Node {
	var found []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag && (class == "" || hasClass(n, class)) {
			found = append(found, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return found
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func textOf(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func parseFragment(t *testing.T, markup string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(markup))
	require.NoError(t, err)
	return doc
}

func TestRenderNavbar_Deterministic(t *testing.T) {
	first, err := buildTree(testSiteFS(), "src")
	require.NoError(t, err)
	second, err := buildTree(testSiteFS(), "src")
	require.NoError(t, err)

	out := renderNavbar(first)
	assert.Equal(t, out, renderNavbar(first))
	assert.Equal(t, out, renderNavbar(second))
}

func TestRenderNavbar_Structure(t *testing.T) {
	tree, err := buildTree(testSiteFS(), "src")
	require.NoError(t, err)
	out := renderNavbar(tree)

	assert.True(t, strings.HasPrefix(out, `<ul class="navbar">`))
	assert.True(t, strings.HasSuffix(out, `</ul>`))
	// Empty folder still gets a list
	assertContains(t, out, `<span class="dropdown-toggle">Empty <span class="caret">▶</span></span><ul class="dropdown"></ul>`)

	doc := parseFragment(t, out)
	require.Len(t, findElements(doc, "ul", "navbar"), 1)
	assert.Len(t, findElements(doc, "ul", "dropdown"), 4)

	toggles := findElements(doc, "span", "dropdown-toggle")
	var labels []string
	for _, s := range toggles {
		labels = append(labels, strings.TrimSpace(strings.TrimSuffix(textOf(s), "▶")))
	}
	assert.Equal(t, []string{"Archive", "2023", "Docs", "Empty"}, labels)

	links := findElements(doc, "a", "")
	require.Len(t, links, 4)
	report := links[2]
	assert.Equal(t, "Monthly report", textOf(report))
	assert.Equal(t, "/docs/monthly-report.html", attr(report, "href"))
	assert.Equal(t, "docs/monthly-report.html", attr(report, "data-path"))
	assert.Equal(t, "Docs / Monthly report", attr(report, "data-crumb"))
	assert.True(t, hasClass(report.Parent, "nav-file"))

	// Folder items nest their children inside the same li
	docs := toggles[2].Parent
	assert.True(t, hasClass(docs, "dropdown-item"))
	assert.Len(t, findElements(docs, "a", ""), 2)
}

func TestRenderNavbar_EscapesNames(t *testing.T) {
	fsys := fstest.MapFS{
		"a&b<i>.html":      {Data: []byte("x")},
		`q"uote/page.html`: {Data: []byte("x")},
		"my notes.html":    {Data: []byte("x")},
	}
	tree, err := buildTree(fsys, "src")
	require.NoError(t, err)
	out := renderNavbar(tree)

	assertNotContains(t, out, "<i>")
	assertNotContains(t, out, `q"uote`)

	doc := parseFragment(t, out)
	assert.Empty(t, findElements(doc, "i", ""))

	links := findElements(doc, "a", "")
	require.Len(t, links, 3)
	assert.Equal(t, "A&b<i>", textOf(links[0]))
	assert.Equal(t, "a&b<i>.html", attr(links[0], "data-path"))
	assert.Equal(t, "/a&b%3Ci%3E.html", attr(links[0], "href"))
	assert.Equal(t, "/my%20notes.html", attr(links[1], "href"))
	assert.Equal(t, "My notes", attr(links[1], "data-crumb"))
	assert.Equal(t, `Q"uote / Page`, attr(links[2], "data-crumb"))
}

func TestPageHref(t *testing.T) {
	tests := []struct {
		rel  string
		want string
	}{
		{"index.html", "/index.html"},
		{"docs/monthly-report.html", "/docs/monthly-report.html"},
		{"my docs/a b.html", "/my%20docs/a%20b.html"},
		{"100%.html", "/100%25.html"},
		{"what?.html", "/what%3F.html"},
	}
	for _, tt := range tests {
		if got := pageHref(tt.rel); got != tt.want {
			t.Errorf("pageHref(%q) = %q, want %q", tt.rel, got, tt.want)
		}
	}
}
