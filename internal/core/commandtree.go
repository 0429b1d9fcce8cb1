package core

import (
	"sort"
	"strings"
)

// cmdNode is one segment of the command route tree. A node may carry a
// command (leaf or container-with-default) and/or children (subcommands).
type cmdNode struct {
	name     string
	cmd      *Command
	children map[string]*cmdNode
}

func newRoot() *cmdNode {
	return &cmdNode{children: map[string]*cmdNode{}}
}

// splitRoute tokenizes a route like "sheep status" into path segments.
func splitRoute(route string) []string {
	toks := strings.Fields(strings.TrimSpace(route))
	if len(toks) == 0 {
		return nil
	}
	return toks
}

// add walks (and creates) the path and installs c at the final node. A
// later add on the same route replaces the earlier command.
func (r *cmdNode) add(route []string, c Command) {
	cur := r
	for _, seg := range route {
		if cur.children == nil {
			cur.children = map[string]*cmdNode{}
		}
		next := cur.children[seg]
		if next == nil {
			next = &cmdNode{name: seg, children: map[string]*cmdNode{}}
			cur.children[seg] = next
		}
		cur = next
	}
	cc := c
	cur.cmd = &cc
}

// find returns the node at path, or nil when any segment is missing.
func (r *cmdNode) find(path []string) *cmdNode {
	cur := r
	for _, seg := range path {
		cur = cur.children[seg]
		if cur == nil {
			return nil
		}
	}
	return cur
}

func (r *cmdNode) child(name string) (*cmdNode, bool) {
	n, ok := r.children[name]
	return n, ok
}

// childNames lists direct children in sorted order so help and menu
// output stays stable.
func (r *cmdNode) childNames() []string {
	names := make([]string, 0, len(r.children))
	for name := range r.children {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
