package ui

import (
	"fmt"
	"strings"

	"orgchart/internal/orgchart"
)

// detailMarkdown describes n for the detail pane. chain is the manager chain
// from the chart forest, n first, and team counts everyone below n there.
func detailMarkdown(n *orgchart.Node, chain []string, team int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", n.DisplayName())
	if title := strings.TrimSpace(n.Record.Title); title != "" {
		fmt.Fprintf(&b, "_%s_\n\n", title)
	}

	field := func(label, value string) {
		if strings.TrimSpace(value) != "" {
			fmt.Fprintf(&b, "- **%s:** %s\n", label, value)
		}
	}
	if p := n.Record.Person; p != nil {
		field("Email", p.Email)
	}
	field("Department", n.Record.Department)
	field("Location", n.Record.Location)
	if n.Record.Phone != 0 {
		field("Phone", fmt.Sprintf("%d", n.Record.Phone))
	}
	if len(chain) > 1 {
		field("Reports to", chain[1])
	}
	if len(n.Children) > 0 {
		field("Direct reports", fmt.Sprintf("%d", len(n.Children)))
	}
	if team > 0 {
		field("Team size", fmt.Sprintf("%d", team))
	}
	if len(chain) > 2 {
		fmt.Fprintf(&b, "\n**Chain:** %s\n", strings.Join(chain, " → "))
	}
	return b.String()
}

// reportingLines names id and its managers in the unfiltered chart and
// counts the people below id there.
func (m *App) reportingLines(id int) ([]string, int) {
	forest := m.chart.Forest()
	ids := orgchart.ParentChain(forest, id)
	names := make([]string, 0, len(ids))
	for _, cid := range ids {
		if n := orgchart.FindByID(forest, cid); n != nil {
			names = append(names, n.DisplayName())
		}
	}
	team := max(len(orgchart.SubtreeIDs(orgchart.FindByID(forest, id)))-1, 0)
	return names, team
}

// refreshDetail re-renders the detail pane for the selected row.
func (m *App) refreshDetail() {
	if !m.showDetails {
		return
	}
	n := m.selectedNode()
	if n == nil {
		m.detailID = 0
		m.viewport.SetContent(styleSubtle.Render("Nothing selected."))
		return
	}
	width := max(m.viewport.Width-2, minViewportWidth)
	render := buildMarkdownRenderer(m.outputFormat, width)
	chain, team := m.reportingLines(n.ID())
	m.viewport.SetContent(render(detailMarkdown(n, chain, team)))
	if m.detailID != n.ID() {
		m.viewport.GotoTop()
	}
	m.detailID = n.ID()
}
