// Package export renders chart forests for non-interactive output.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"
	"github.com/muesli/reflow/wordwrap"

	"orgchart/internal/orgchart"
)

// TreeOptions controls WriteTree.
type TreeOptions struct {
	// Width wraps labels longer than this many cells. Zero disables wrapping.
	Width int
	// Roles marks executive titles. Nil uses orgchart.DefaultHighAuthorityRoles.
	Roles []string
}

var (
	styleExecutive = lipgloss.NewStyle().Bold(true)
	styleDirector  = lipgloss.NewStyle().Underline(true)
	styleMeta      = lipgloss.NewStyle().Faint(true)
	styleEnum      = lipgloss.NewStyle().Faint(true).MarginRight(1)
)

// WriteTree prints each root as a tree, one after another.
func WriteTree(w io.Writer, roots []*orgchart.Node, opts TreeOptions) error {
	if len(roots) == 0 {
		_, err := fmt.Fprintln(w, "(no employees)")
		return err
	}
	roles := opts.Roles
	if roles == nil {
		roles = orgchart.DefaultHighAuthorityRoles
	}
	for _, root := range roots {
		t := buildTree(root, roles, opts.Width)
		if _, err := fmt.Fprintln(w, t.String()); err != nil {
			return err
		}
	}
	return nil
}

func buildTree(n *orgchart.Node, roles []string, width int) *tree.Tree {
	t := tree.Root(Label(n, roles, width)).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(styleEnum)
	for _, child := range n.Children {
		if child.HasChildren() {
			t.Child(buildTree(child, roles, width))
			continue
		}
		t.Child(Label(child, roles, width))
	}
	return t
}

// Label is the one-line description of a node used by every printer.
func Label(n *orgchart.Node, roles []string, width int) string {
	name := n.DisplayName()
	switch {
	case orgchart.IsExecutive(n.Record.Title, roles):
		name = styleExecutive.Render(name)
	case orgchart.IsDirector(n.Record.Title):
		name = styleDirector.Render(name)
	}

	var meta []string
	if title := strings.TrimSpace(n.Record.Title); title != "" {
		meta = append(meta, title)
	}
	if dept := strings.TrimSpace(n.Record.Department); dept != "" {
		meta = append(meta, dept)
	}
	if loc := strings.TrimSpace(n.Record.Location); loc != "" {
		meta = append(meta, loc)
	}

	label := name
	if len(meta) > 0 {
		label += " " + styleMeta.Render("("+strings.Join(meta, ", ")+")")
	}
	if width > 0 {
		label = wordwrap.String(label, width)
	}
	return label
}
