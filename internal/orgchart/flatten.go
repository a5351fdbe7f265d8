package orgchart

import "iter"

// Entry is one flattened node. Node is a copy with Children cleared; Level
// is the depth in the flattened forest.
type Entry struct {
	Node  Node
	Level int
}

// ID returns the entry's record id.
func (e Entry) ID() int {
	return e.Node.ID()
}

// Flatten walks forest depth-first in pre-order, skipping ids already
// emitted. The sequence can be ranged over repeatedly.
func Flatten(forest []*Node) iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		seen := make(map[int]bool)
		var walk func(n *Node, level int) bool
		walk = func(n *Node, level int) bool {
			if n == nil || seen[n.ID()] {
				return true
			}
			seen[n.ID()] = true
			cp := *n
			cp.Children = nil
			if !yield(Entry{Node: cp, Level: level}) {
				return false
			}
			for _, child := range n.Children {
				if !walk(child, level+1) {
					return false
				}
			}
			return true
		}
		for _, root := range forest {
			if !walk(root, 0) {
				return
			}
		}
	}
}

// FlattenAll collects Flatten into a slice.
func FlattenAll(forest []*Node) []Entry {
	var out []Entry
	for e := range Flatten(forest) {
		out = append(out, e)
	}
	return out
}
