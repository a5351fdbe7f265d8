package orgchart

import (
	"orgchart/internal/debug"
	"orgchart/internal/directory"
)

// Builder constructs the chart forest from flat records.
type Builder struct {
	// NewResolver overrides manager resolution. Nil uses NewResolver.
	NewResolver ResolverFactory
}

// NewBuilder creates a new Builder instance.
func NewBuilder() *Builder {
	return &Builder{}
}

// BuildStats describes the repairs Build made to the input.
type BuildStats struct {
	Records     int
	Duplicates  int
	Dangling    int
	CycleBreaks int
}

// Build converts records into a forest of roots. Every distinct record id
// appears exactly once. Records whose manager cannot be resolved become
// roots, and manager cycles are broken by promoting one member to root.
func (b Builder) Build(records []directory.Record) []*Node {
	roots, _ := b.BuildWithStats(records)
	return roots
}

// BuildWithStats is Build plus a summary of the repairs applied.
func (b Builder) BuildWithStats(records []directory.Record) ([]*Node, BuildStats) {
	stats := BuildStats{Records: len(records)}
	if len(records) == 0 {
		return []*Node{}, stats
	}

	// Later duplicates replace attributes but keep the first-seen position.
	order := make([]int, 0, len(records))
	latest := make(map[int]directory.Record, len(records))
	for _, rec := range records {
		if _, dup := latest[rec.ID]; dup {
			stats.Duplicates++
		} else {
			order = append(order, rec.ID)
		}
		latest[rec.ID] = rec
	}

	deduped := make([]directory.Record, 0, len(order))
	position := make(map[int]int, len(order))
	nodeMap := make(map[int]*Node, len(order))
	for i, id := range order {
		rec := latest[id]
		deduped = append(deduped, rec)
		position[id] = i
		nodeMap[id] = &Node{Record: rec}
	}

	factory := b.NewResolver
	if factory == nil {
		factory = NewResolver
	}
	resolver := factory(deduped)

	parentOf := make(map[int]int, len(order))
	for _, id := range order {
		ref, ok := nodeMap[id].Record.PrimaryManager()
		if !ok {
			continue
		}
		pid, found := resolver.Resolve(ref)
		if !found || pid == id {
			stats.Dangling++
			debug.Logw("manager unresolved, promoting to root", "id", id, "manager", ref.Name)
			continue
		}
		if _, known := nodeMap[pid]; !known {
			stats.Dangling++
			continue
		}
		parentOf[id] = pid
	}

	stats.CycleBreaks = breakCycles(order, parentOf, position)

	var roots []*Node
	for _, id := range order {
		node := nodeMap[id]
		pid, hasParent := parentOf[id]
		if !hasParent {
			roots = append(roots, node)
			continue
		}
		parent := nodeMap[pid]
		alreadyChild := false
		for _, existing := range parent.Children {
			if existing.ID() == id {
				alreadyChild = true
				break
			}
		}
		if !alreadyChild {
			parent.Children = append(parent.Children, node)
		}
	}

	roots = dedupeRoots(roots)
	for _, root := range roots {
		cleanTree(root, make(map[int]bool))
		for _, child := range root.Children {
			child.ImmediateChildOfTopLevel = true
		}
	}

	debug.Logw("hierarchy built",
		"records", stats.Records,
		"roots", len(roots),
		"duplicates", stats.Duplicates,
		"dangling", stats.Dangling,
		"cycleBreaks", stats.CycleBreaks,
	)
	return roots, stats
}

// breakCycles removes one parent edge from every manager cycle, choosing the
// member that appears first in input order, and returns how many it broke.
func breakCycles(order []int, parentOf map[int]int, position map[int]int) int {
	const (
		unvisited = iota
		visiting
		settled
	)
	state := make(map[int]int, len(order))
	breaks := 0

	for _, start := range order {
		if state[start] != unvisited {
			continue
		}
		var path []int
		id := start
		for {
			if state[id] == settled {
				break
			}
			if state[id] == visiting {
				// id is the cycle entry; the cycle is path[idx:].
				idx := 0
				for path[idx] != id {
					idx++
				}
				promote := path[idx]
				for _, member := range path[idx+1:] {
					if position[member] < position[promote] {
						promote = member
					}
				}
				debug.Logw("manager cycle, promoting to root", "id", promote, "members", len(path)-idx)
				delete(parentOf, promote)
				breaks++
				break
			}
			state[id] = visiting
			path = append(path, id)
			pid, ok := parentOf[id]
			if !ok {
				break
			}
			id = pid
		}
		for _, member := range path {
			state[member] = settled
		}
	}
	return breaks
}

func dedupeRoots(roots []*Node) []*Node {
	seen := make(map[int]bool, len(roots))
	out := roots[:0]
	for _, root := range roots {
		if seen[root.ID()] {
			continue
		}
		seen[root.ID()] = true
		out = append(out, root)
	}
	return out
}

// cleanTree drops duplicate children and truncates any revisit within one
// root's traversal to a childless node.
func cleanTree(n *Node, visited map[int]bool) {
	visited[n.ID()] = true
	if len(n.Children) == 0 {
		return
	}
	seen := make(map[int]bool, len(n.Children))
	kept := n.Children[:0]
	for _, child := range n.Children {
		if seen[child.ID()] {
			continue
		}
		seen[child.ID()] = true
		if visited[child.ID()] {
			child.Children = nil
			kept = append(kept, child)
			continue
		}
		cleanTree(child, visited)
		kept = append(kept, child)
	}
	n.Children = kept
}
