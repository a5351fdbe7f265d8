package orgchart

// FindByID returns the node with id, or nil.
func FindByID(forest []*Node, id int) *Node {
	var found *Node
	walkNodes(forest, func(n *Node, _ *Node) bool {
		if n.ID() == id {
			found = n
			return false
		}
		return true
	})
	return found
}

// FindParent returns the parent of id, or nil for roots and unknown ids.
func FindParent(forest []*Node, id int) *Node {
	var parent *Node
	walkNodes(forest, func(n *Node, p *Node) bool {
		if n.ID() == id {
			parent = p
			return false
		}
		return true
	})
	return parent
}

// AncestorIDs returns the ids above id, nearest first.
func AncestorIDs(forest []*Node, id int) []int {
	parents := parentIndex(forest)
	var out []int
	seen := map[int]bool{id: true}
	for {
		pid, ok := parents[id]
		if !ok || seen[pid] {
			return out
		}
		seen[pid] = true
		out = append(out, pid)
		id = pid
	}
}

// ParentChain returns id followed by its ancestors up to the root. Unknown
// ids yield nil.
func ParentChain(forest []*Node, id int) []int {
	if FindByID(forest, id) == nil {
		return nil
	}
	return append([]int{id}, AncestorIDs(forest, id)...)
}

// SubtreeIDs returns n and all of its descendants in pre-order.
func SubtreeIDs(n *Node) []int {
	if n == nil {
		return nil
	}
	var out []int
	for e := range Flatten([]*Node{n}) {
		out = append(out, e.ID())
	}
	return out
}

// CollectIDs returns the set of ids present in forest.
func CollectIDs(forest []*Node) map[int]bool {
	ids := make(map[int]bool)
	walkNodes(forest, func(n *Node, _ *Node) bool {
		ids[n.ID()] = true
		return true
	})
	return ids
}

func parentIndex(forest []*Node) map[int]int {
	parents := make(map[int]int)
	walkNodes(forest, func(n *Node, p *Node) bool {
		if p != nil {
			parents[n.ID()] = p.ID()
		}
		return true
	})
	return parents
}

// walkNodes visits nodes in pre-order with their parent until fn returns false.
func walkNodes(forest []*Node, fn func(n, parent *Node) bool) {
	seen := make(map[int]bool)
	var walk func(n, parent *Node) bool
	walk = func(n, parent *Node) bool {
		if n == nil || seen[n.ID()] {
			return true
		}
		seen[n.ID()] = true
		if !fn(n, parent) {
			return false
		}
		for _, child := range n.Children {
			if !walk(child, n) {
				return false
			}
		}
		return true
	}
	for _, root := range forest {
		if !walk(root, nil) {
			return
		}
	}
}
