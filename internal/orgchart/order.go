package orgchart

import (
	"cmp"
	"slices"
	"strings"
)

// DefaultHighAuthorityRoles sort ahead of every other root.
var DefaultHighAuthorityRoles = []string{
	"Chief Executive Officer",
	"Chief Engineering Officer",
	"Chief Operating Officer",
}

// IsExecutive reports whether title contains any of roles, ignoring case.
func IsExecutive(title string, roles []string) bool {
	lower := strings.ToLower(title)
	for _, role := range roles {
		role = strings.ToLower(strings.TrimSpace(role))
		if role != "" && strings.Contains(lower, role) {
			return true
		}
	}
	return false
}

// IsDirector reports whether title names a director role.
func IsDirector(title string) bool {
	return strings.Contains(strings.ToLower(title), "director")
}

// AssignDisplayOrder sorts roots and children in place and numbers the
// forest in pre-order. Level starts at 0 for roots and DisplayOrder is a
// single counter shared by every root. A nil roles slice uses
// DefaultHighAuthorityRoles.
func AssignDisplayOrder(forest []*Node, roles []string) []*Node {
	if roles == nil {
		roles = DefaultHighAuthorityRoles
	}
	sortRoots(forest, roles)

	counter := 0
	visited := make(map[int]bool)
	var visit func(n *Node, level int)
	visit = func(n *Node, level int) {
		if visited[n.ID()] {
			return
		}
		visited[n.ID()] = true
		n.Level = level
		n.DisplayOrder = counter
		counter++
		sortChildren(n.Children)
		for _, child := range n.Children {
			visit(child, level+1)
		}
	}
	for _, root := range forest {
		visit(root, 0)
	}
	return forest
}

func sortRoots(roots []*Node, roles []string) {
	slices.SortStableFunc(roots, func(a, b *Node) int {
		aExec := IsExecutive(a.Record.Title, roles)
		bExec := IsExecutive(b.Record.Title, roles)
		if aExec != bExec {
			if aExec {
				return -1
			}
			return 1
		}
		return cmp.Or(
			cmp.Compare(a.Record.ParentOrder, b.Record.ParentOrder),
			cmp.Compare(a.ID(), b.ID()),
		)
	})
}

func sortChildren(children []*Node) {
	slices.SortStableFunc(children, func(a, b *Node) int {
		return cmp.Or(
			cmp.Compare(a.Record.ParentOrder, b.Record.ParentOrder),
			cmp.Compare(a.Record.ChildOrder, b.Record.ChildOrder),
			cmp.Compare(a.Record.SubChildOrder, b.Record.SubChildOrder),
			cmp.Compare(a.ID(), b.ID()),
		)
	})
}
