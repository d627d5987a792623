package model

import "strings"

// FlatNode is a visited node with a path breadcrumb instead of children.
type FlatNode struct {
	Index    int    `yaml:"i"            json:"i"`
	Depth    int    `yaml:"d"            json:"d"`
	Kind     Kind   `yaml:"k"            json:"k"`
	Name     string `yaml:"n,omitempty"  json:"n,omitempty"`
	Text     string `yaml:"t,omitempty"  json:"t,omitempty"`
	Bounds   [4]int `yaml:"b"            json:"b"`
	Embedded bool   `yaml:"e,omitempty"  json:"e,omitempty"`
	Path     string `yaml:"p,omitempty"  json:"p,omitempty"`
}

// Crumb is the short label used for a node in path breadcrumbs.
func Crumb(n *Node) string {
	if n.Name != "" {
		return string(n.Kind) + ":" + n.Name
	}
	return string(n.Kind)
}

// PathTracker rebuilds " > "-joined ancestor paths from a pre-order walk.
type PathTracker struct {
	crumbs []string
}

// Visit records n at depth and returns its full path.
func (p *PathTracker) Visit(n *Node, depth int) string {
	if depth < len(p.crumbs) {
		p.crumbs = p.crumbs[:depth]
	}
	p.crumbs = append(p.crumbs, Crumb(n))
	return strings.Join(p.crumbs, " > ")
}

// FlattenTree converts the walk of a tree into a flat list in visit order.
// Each node gets a path string showing its location in the tree.
func FlattenTree(root *Node) []FlatNode {
	var result []FlatNode
	var paths PathTracker
	Walk(root, func(n *Node, depth int) {
		result = append(result, FlatNode{
			Index:    len(result) + 1,
			Depth:    depth,
			Kind:     n.Kind,
			Name:     n.Name,
			Text:     n.Text,
			Bounds:   n.Bounds().Ints(),
			Embedded: n.Embedded,
			Path:     paths.Visit(n, depth),
		})
	})
	return result
}
