// Package orgchart builds the org chart forest from flat records and derives
// filtered display forests from it.
package orgchart

import "orgchart/internal/directory"

// Node is one employee placed in the chart forest.
type Node struct {
	Record   directory.Record
	Children []*Node

	Level        int
	DisplayOrder int

	// ImmediateChildOfTopLevel is set on direct children of a root.
	ImmediateChildOfTopLevel bool
}

// ID returns the record id.
func (n *Node) ID() int {
	return n.Record.ID
}

// DisplayName is the person's name, falling back to the record title.
func (n *Node) DisplayName() string {
	return n.Record.DisplayName()
}

// HasChildren reports whether the node has at least one child.
func (n *Node) HasChildren() bool {
	return len(n.Children) > 0
}

// shallowCopy returns a copy of n without children.
func (n *Node) shallowCopy() *Node {
	cp := *n
	cp.Children = nil
	return &cp
}

// Clone returns a structural copy of forest. The returned nodes share record
// data with the input but no node or child slice is aliased.
func Clone(forest []*Node) []*Node {
	out := make([]*Node, 0, len(forest))
	seen := make(map[int]bool)
	for _, root := range forest {
		if cp := cloneNode(root, seen); cp != nil {
			out = append(out, cp)
		}
	}
	return out
}

func cloneNode(n *Node, seen map[int]bool) *Node {
	if n == nil || seen[n.ID()] {
		return nil
	}
	seen[n.ID()] = true
	cp := n.shallowCopy()
	for _, child := range n.Children {
		if c := cloneNode(child, seen); c != nil {
			cp.Children = append(cp.Children, c)
		}
	}
	return cp
}

// Count returns the number of distinct nodes in forest.
func Count(forest []*Node) int {
	return len(CollectIDs(forest))
}
