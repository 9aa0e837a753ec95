package main

import (
	"net/url"
	"path/filepath"
	"strings"
)

const assetPrefix = "/files/"

// assetDirName is the top-level content directory shadowed by assetPrefix
// once an asset root is configured.
var assetDirName = strings.Trim(assetPrefix, "/")

type targetKind int

const (
	targetRejected targetKind = iota
	targetHTML
	targetAsset
)

type rejectReason int

const (
	reasonNone rejectReason = iota
	reasonOutOfBounds
	reasonNotFound
)

func (r rejectReason) String() string {
	switch r {
	case reasonOutOfBounds:
		return "out of bounds"
	case reasonNotFound:
		return "not found"
	default:
		return "none"
	}
}

// target is the outcome of resolving one request path.
type target struct {
	Kind   targetKind
	Path   string // absolute filesystem path, empty when rejected
	Ext    string // lower-case extension, set for assets
	Reason rejectReason
}

func rejected(reason rejectReason) target {
	return target{Kind: targetRejected, Reason: reason}
}

// resolver maps request paths onto files below the content root, or below the
// asset root for paths under /files/ when an asset root is configured.
type resolver struct {
	contentRoot string
	assetRoot   string
}

// newResolver makes both roots absolute and clean so containment checks
// compare like with like.
func newResolver(contentRoot, assetRoot string) (resolver, error) {
	var r resolver
	abs, err := filepath.Abs(contentRoot)
	if err != nil {
		return r, err
	}
	r.contentRoot = abs
	if assetRoot != "" {
		abs, err := filepath.Abs(assetRoot)
		if err != nil {
			return r, err
		}
		r.assetRoot = abs
	}
	return r, nil
}

// resolve classifies escapedPath, which must still be percent-encoded
// (r.URL.EscapedPath()) so it is decoded exactly once. It never touches the
// filesystem; missing files surface when the caller reads the target.
func (r resolver) resolve(escapedPath string) target {
	if escapedPath == "" || escapedPath == "/" {
		escapedPath = "/index.html"
	}

	decoded, err := url.PathUnescape(escapedPath)
	if err != nil || strings.ContainsRune(decoded, 0) {
		return rejected(reasonNotFound)
	}

	root, rel, isAsset := r.contentRoot, decoded, false
	if r.assetRoot != "" && strings.HasPrefix(decoded, assetPrefix) {
		root, rel, isAsset = r.assetRoot, strings.TrimPrefix(decoded, assetPrefix), true
	}

	full, ok := containedJoin(root, rel)
	if !ok {
		return rejected(reasonOutOfBounds)
	}

	if isAsset {
		return target{Kind: targetAsset, Path: full, Ext: strings.ToLower(filepath.Ext(full))}
	}
	if !strings.HasSuffix(full, htmlExt) {
		return rejected(reasonNotFound)
	}
	return target{Kind: targetHTML, Path: full}
}

// confine repeats the containment check on a resolved target after following
// symlinks, so a link inside a root cannot expose files outside it.
func (r resolver) confine(t target) target {
	root := r.contentRoot
	switch t.Kind {
	case targetHTML:
	case targetAsset:
		root = r.assetRoot
	default:
		return t
	}

	realPath, err := filepath.EvalSymlinks(t.Path)
	if err != nil {
		return rejected(reasonNotFound)
	}
	realRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		return rejected(reasonNotFound)
	}
	if !within(realRoot, realPath) {
		return rejected(reasonOutOfBounds)
	}
	return t
}

// containedJoin joins rel onto root and reports whether the cleaned result
// stays inside root.
func containedJoin(root, rel string) (string, bool) {
	full := filepath.Join(root, filepath.FromSlash(rel))
	if !within(root, full) {
		return "", false
	}
	return full, true
}

func within(root, full string) bool {
	rel, err := filepath.Rel(root, full)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	return rel != ".." && !strings.HasPrefix(rel, "../") && !filepath.IsAbs(rel)
}
