package main

import (
	"net/url"
	"path"
	"strings"
	"unicode"
	"unicode/utf8"
)

const htmlExt = ".html"

// formatName turns a file or directory name into a sidebar label:
// "monthly-report.html" becomes "Monthly report".
// Only the first word is capitalized; the rest of the label keeps its case.
func formatName(raw string) string {
	name := strings.TrimSuffix(raw, htmlExt)
	name = strings.ReplaceAll(name, "-", " ")

	// Leading whitespace is kept as-is, the first word starts after it
	start := strings.IndexFunc(name, func(r rune) bool { return !unicode.IsSpace(r) })
	if start < 0 {
		return name
	}
	end := len(name)
	if i := strings.IndexFunc(name[start:], unicode.IsSpace); i >= 0 {
		end = start + i
	}

	first, size := utf8.DecodeRuneInString(name[start:end])
	var b strings.Builder
	b.Grow(len(name))
	b.WriteString(name[:start])
	b.WriteRune(unicode.ToUpper(first))
	b.WriteString(strings.ToLower(name[start+size : end]))
	b.WriteString(name[end:])
	return b.String()
}

// breadcrumb derives the trail shown above a page from its request path or
// root-relative path. Both the server and the nav links use it, so the
// browser never has to reimplement formatName.
func breadcrumb(p string) string {
	if decoded, err := url.PathUnescape(p); err == nil {
		p = decoded
	}
	p = path.Clean("/" + p)
	p = strings.TrimPrefix(p, "/")
	p = strings.TrimSuffix(p, htmlExt)

	var parts []string
	for _, seg := range strings.Split(p, "/") {
		if seg == "" {
			continue
		}
		parts = append(parts, formatName(seg))
	}
	return strings.Join(parts, " / ")
}
