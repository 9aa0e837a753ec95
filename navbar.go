package main

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"
	"strings"
)

// renderNavbar renders the tree as nested lists. Output only depends on the
// tree, so the same tree always renders byte-identical markup.
func renderNavbar(root *Folder) string {
	var buf bytes.Buffer
	renderNavList(root.Children, 0, &buf)
	return buf.String()
}

func renderNavList(nodes []Node, depth int, buf *bytes.Buffer) {
	// Top level gets its own class so the sidebar can style it apart from dropdowns
	class := "dropdown"
	if depth == 0 {
		class = "navbar"
	}
	fmt.Fprintf(buf, `<ul class="%s">`, class)

	for _, n := range nodes {
		switch n := n.(type) {
		case *Folder:
			buf.WriteString(`<li class="dropdown-item">`)
			fmt.Fprintf(buf, `<span class="dropdown-toggle">%s <span class="caret">▶</span></span>`,
				template.HTMLEscapeString(n.Name))
			renderNavList(n.Children, depth+1, buf)
			buf.WriteString(`</li>`)
		case *File:
			fmt.Fprintf(buf, `<li class="nav-file"><a href="%s" data-path="%s" data-crumb="%s">%s</a></li>`,
				template.HTMLEscapeString(pageHref(n.Path)),
				template.HTMLEscapeString(n.Path),
				template.HTMLEscapeString(breadcrumb(n.Path)),
				template.HTMLEscapeString(n.Name))
		}
	}

	buf.WriteString(`</ul>`)
}

// pageHref builds the link for a root-relative page path, escaping each segment.
func pageHref(rel string) string {
	segs := strings.Split(rel, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return "/" + strings.Join(segs, "/")
}
