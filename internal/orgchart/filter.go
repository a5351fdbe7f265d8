package orgchart

import (
	"slices"
	"strings"

	"orgchart/internal/debug"
	"orgchart/internal/directory"
)

// MatchesView reports whether rec is tagged with label. label must already be
// trimmed and lowercased. ViewNames match by equality; Views titles match by
// equality or substring.
func MatchesView(rec directory.Record, label string) bool {
	if label == "" {
		return false
	}
	for _, name := range rec.ViewNames {
		if strings.ToLower(strings.TrimSpace(name)) == label {
			return true
		}
	}
	for _, view := range rec.Views {
		title := strings.ToLower(strings.TrimSpace(view.Title))
		if title != "" && strings.Contains(title, label) {
			return true
		}
	}
	return false
}

// FilterByView keeps nodes tagged with label plus every ancestor of such a
// node. A blank label returns a clone of forest.
func FilterByView(forest []*Node, label string) []*Node {
	normalized := strings.ToLower(strings.TrimSpace(label))
	if normalized == "" {
		return Clone(forest)
	}
	out := prune(forest, func(n *Node) bool {
		return MatchesView(n.Record, normalized)
	})
	debug.Logw("filtered by view", "view", normalized, "kept", Count(out))
	return out
}

// Search narrows forest by free text. When any display name contains the
// term, the result is those nodes alone as flat roots with children and
// manager links cleared, in pre-order. Otherwise nodes whose department or
// location contains the term are kept with their ancestors. A blank term
// returns a clone of forest.
func Search(forest []*Node, term string) []*Node {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return Clone(forest)
	}

	var hits []*Node
	for e := range Flatten(forest) {
		if strings.Contains(strings.ToLower(e.Node.DisplayName()), needle) {
			n := e.Node
			n.Record.Managers = nil
			n.ImmediateChildOfTopLevel = false
			n.Level = 0
			hits = append(hits, &n)
		}
	}
	if len(hits) > 0 {
		debug.Logw("search matched names", "term", needle, "hits", len(hits))
		return hits
	}

	out := prune(forest, func(n *Node) bool {
		return strings.Contains(strings.ToLower(n.Record.Department), needle) ||
			strings.Contains(strings.ToLower(n.Record.Location), needle)
	})
	debug.Logw("search matched department or location", "term", needle, "kept", Count(out))
	return out
}

// FilterByCount keeps the first n nodes by DisplayOrder plus the ancestors
// needed to reach them. n <= 0 or an empty forest yields an empty forest.
func FilterByCount(forest []*Node, n int) []*Node {
	if n <= 0 || len(forest) == 0 {
		return []*Node{}
	}
	entries := FlattenAll(forest)
	slices.SortStableFunc(entries, func(a, b Entry) int {
		return a.Node.DisplayOrder - b.Node.DisplayOrder
	})
	if n > len(entries) {
		n = len(entries)
	}
	selected := make(map[int]bool, n)
	for _, e := range entries[:n] {
		selected[e.ID()] = true
	}
	return prune(forest, func(node *Node) bool {
		return selected[node.ID()]
	})
}

// prune rebuilds forest bottom-up, keeping a node when keep accepts it or any
// descendant survives. Input nodes are never modified.
func prune(forest []*Node, keep func(*Node) bool) []*Node {
	seen := make(map[int]bool)
	var walk func(n *Node) *Node
	walk = func(n *Node) *Node {
		if n == nil || seen[n.ID()] {
			return nil
		}
		seen[n.ID()] = true
		var kids []*Node
		for _, child := range n.Children {
			if kept := walk(child); kept != nil {
				kids = append(kids, kept)
			}
		}
		if len(kids) == 0 && !keep(n) {
			return nil
		}
		cp := n.shallowCopy()
		cp.Children = kids
		return cp
	}

	out := []*Node{}
	for _, root := range forest {
		if kept := walk(root); kept != nil {
			out = append(out, kept)
		}
	}
	return out
}
