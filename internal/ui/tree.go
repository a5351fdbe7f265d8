package ui

import (
	"strings"

	"orgchart/internal/debug"
	"orgchart/internal/export"
	"orgchart/internal/orgchart"

	"github.com/charmbracelet/lipgloss"
)

type treeRow struct {
	node  *orgchart.Node
	depth int
}

// applyFilters recomputes the display forest from the current filters.
func (m *App) applyFilters() {
	if m.chart == nil {
		return
	}
	filters := m.filters
	if m.showAll {
		filters.Count = m.chart.Total()
	}
	m.display = m.chart.Apply(filters)
	m.recalcVisibleRows()
	m.clampCursor()
	m.refreshDetail()
	debug.Logw("display updated",
		"view", m.filters.View,
		"search", m.filters.Search,
		"count", m.filters.Count,
		"shown", orgchart.Count(m.display.Roots),
	)
}

func (m *App) isExpanded(id int) bool {
	return m.display.Expanded[id] && !m.collapsed[id]
}

func (m *App) recalcVisibleRows() {
	m.rows = m.rows[:0]
	var walk func(nodes []*orgchart.Node, depth int)
	walk = func(nodes []*orgchart.Node, depth int) {
		for _, n := range nodes {
			m.rows = append(m.rows, treeRow{node: n, depth: depth})
			if n.HasChildren() && m.isExpanded(n.ID()) {
				walk(n.Children, depth+1)
			}
		}
	}
	walk(m.display.Roots, 0)
}

func (m *App) clampCursor() {
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *App) selectedNode() *orgchart.Node {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return nil
	}
	return m.rows[m.cursor].node
}

func (m *App) selectedID() (int, bool) {
	if n := m.selectedNode(); n != nil {
		return n.ID(), true
	}
	return 0, false
}

// selectID moves the cursor to id when it is visible.
func (m *App) selectID(id int) bool {
	for i, row := range m.rows {
		if row.node.ID() == id {
			m.cursor = i
			m.refreshDetail()
			return true
		}
	}
	return false
}

func (m *App) collapseSelected() {
	n := m.selectedNode()
	if n == nil {
		return
	}
	if n.HasChildren() && m.isExpanded(n.ID()) {
		m.collapsed[n.ID()] = true
		m.recalcVisibleRows()
		return
	}
	if parent := orgchart.FindParent(m.display.Roots, n.ID()); parent != nil {
		m.selectID(parent.ID())
	}
}

func (m *App) expandSelected() {
	n := m.selectedNode()
	if n == nil || !n.HasChildren() {
		return
	}
	delete(m.collapsed, n.ID())
	m.recalcVisibleRows()
}

func (m *App) toggleSelected() {
	n := m.selectedNode()
	if n == nil || !n.HasChildren() {
		return
	}
	if m.isExpanded(n.ID()) {
		m.collapsed[n.ID()] = true
	} else {
		delete(m.collapsed, n.ID())
	}
	m.recalcVisibleRows()
}

// adjustCount changes the employee count by delta, keeping it within
// [1, total]. A whole view counts from the number of people it shows.
func (m *App) adjustCount(delta int) {
	current := m.filters.Count
	if m.showAll {
		current = orgchart.Count(m.display.Roots)
	}
	count := max(min(current+delta, m.chart.Total()), 1)
	if !m.showAll && count == m.filters.Count {
		return
	}
	m.showAll = false
	m.filters.Count = count
	m.applyFilters()
}

func (m *App) renderRow(row treeRow, width int, selected bool) string {
	marker := "•"
	if row.node.HasChildren() {
		marker = "▸"
		if m.isExpanded(row.node.ID()) {
			marker = "▾"
		}
	}
	indent := strings.Repeat("  ", row.depth)
	prefix := indent + marker + " "
	label := export.Label(row.node, m.chart.Roles(), max(width-lipgloss.Width(prefix), minTreeWidth))
	lines := strings.Split(label, "\n")
	pad := strings.Repeat(" ", lipgloss.Width(prefix))
	for i := range lines {
		if i == 0 {
			lines[i] = prefix + lines[i]
		} else {
			lines[i] = pad + lines[i]
		}
	}
	out := strings.Join(lines, "\n")
	if selected {
		out = styleSelected.Render(out)
	}
	return out
}

// renderTree draws rows starting at treeTop so the cursor row stays within
// height lines.
func (m *App) renderTree(width, height int) string {
	if len(m.rows) == 0 {
		return styleSubtle.Render("No employees match the current filters.")
	}
	rendered := make([]string, len(m.rows))
	for i, row := range m.rows {
		rendered[i] = m.renderRow(row, width, i == m.cursor)
	}

	if m.cursor < m.treeTop {
		m.treeTop = m.cursor
	}
	for m.treeTop < m.cursor && linesBetween(rendered, m.treeTop, m.cursor) > height {
		m.treeTop++
	}

	var out []string
	used := 0
	for i := m.treeTop; i < len(rendered); i++ {
		h := lipgloss.Height(rendered[i])
		if used+h > height && used > 0 {
			break
		}
		out = append(out, rendered[i])
		used += h
	}
	return strings.Join(out, "\n")
}

func linesBetween(rendered []string, from, to int) int {
	total := 0
	for i := from; i <= to && i < len(rendered); i++ {
		total += lipgloss.Height(rendered[i])
	}
	return total
}
