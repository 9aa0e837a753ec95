package main

import (
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
)

// Node is an entry of the navigation tree: either a *Folder or a *File.
type Node interface {
	isNode()
}

// Folder is a directory of the content root. Empty folders are kept so the
// sidebar mirrors the directory layout on disk.
type Folder struct {
	Name     string
	Children []Node
}

// File is a discovered .html page.
type File struct {
	Name    string
	Path    string // slash-separated, relative to the content root
	RawName string
}

func (*Folder) isNode() {}
func (*File) isNode()   {}

// navigation is the tree and its rendered markup, built once at startup and
// only read afterwards.
type navigation struct {
	Tree  *Folder
	HTML  string
	Pages int
}

// newNavigation builds the tree and its markup. Top-level directories named in
// reserved are left out, since their URLs belong to another route.
func newNavigation(fsys fs.FS, rootName string, reserved ...string) (*navigation, error) {
	tree, err := buildTree(fsys, rootName, reserved...)
	if err != nil {
		return nil, err
	}
	return &navigation{
		Tree:  tree,
		HTML:  renderNavbar(tree),
		Pages: len(collectFiles(tree)),
	}, nil
}

// buildTree scans fsys depth-first. Directories are always descended, except
// reserved top-level ones; of the regular files only names ending in ".html"
// are kept.
func buildTree(fsys fs.FS, rootName string, reserved ...string) (*Folder, error) {
	children, err := buildChildren(fsys, ".", reserved)
	if err != nil {
		return nil, err
	}
	return &Folder{Name: formatName(rootName), Children: children}, nil
}

func buildChildren(fsys fs.FS, dir string, reserved []string) ([]Node, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}

	nodes := make([]Node, 0, len(entries))
	for _, e := range entries {
		rel := path.Join(dir, e.Name())
		switch {
		case e.IsDir() && dir == "." && slices.Contains(reserved, e.Name()):
			continue
		case e.IsDir():
			sub, err := buildChildren(fsys, rel, nil)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, &Folder{Name: formatName(e.Name()), Children: sub})
		case e.Type().IsRegular() && strings.HasSuffix(e.Name(), htmlExt):
			nodes = append(nodes, &File{
				Name:    formatName(e.Name()),
				Path:    rel,
				RawName: e.Name(),
			})
		}
	}
	return nodes, nil
}

// collectFiles flattens the tree into its pages, in navigation order.
func collectFiles(root *Folder) []*File {
	var files []*File
	var walk func(n Node)
	walk = func(n Node) {
		switch n := n.(type) {
		case *Folder:
			for _, c := range n.Children {
				walk(c)
			}
		case *File:
			files = append(files, n)
		}
	}
	walk(root)
	return files
}
