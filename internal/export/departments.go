package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"orgchart/internal/orgchart"
)

var (
	styleHeader = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	styleCell   = lipgloss.NewStyle().Padding(0, 1)
)

// ExecutivesLabel heads the rows for people without a department.
const ExecutivesLabel = "Executives"

// WriteDepartments prints one table row per person, grouped by department.
// Names are indented by their depth inside the department forest.
func WriteDepartments(w io.Writer, depts orgchart.Departments) error {
	var rows [][]string
	for _, n := range depts.Executives {
		rows = append(rows, []string{ExecutivesLabel, n.DisplayName(), n.Record.Title, ""})
	}
	for _, dept := range depts.Groups {
		for e := range orgchart.Flatten(dept.Roots) {
			reportsTo := ""
			if parent := orgchart.FindParent(dept.Roots, e.ID()); parent != nil {
				reportsTo = parent.DisplayName()
			}
			name := strings.Repeat("  ", e.Level) + e.Node.DisplayName()
			rows = append(rows, []string{dept.Name, name, e.Node.Record.Title, reportsTo})
		}
	}
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "(no departments)")
		return err
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			return styleCell
		}).
		Headers("Department", "Name", "Title", "Reports To").
		Rows(rows...)

	_, err := fmt.Fprintln(w, t.String())
	return err
}

// WriteViews lists org views with their sub-views and where picking each
// one leads.
func WriteViews(w io.Writer, chart *orgchart.Chart) error {
	views := chart.Views()
	if len(views) == 0 {
		_, err := fmt.Fprintln(w, "(no views)")
		return err
	}
	for _, v := range views {
		sel := chart.Navigate(v.Title)
		line := fmt.Sprintf("%s -> %s", v.Title, sel.Screen)
		if len(sel.SubViews) > 0 {
			line += ": " + strings.Join(sel.SubViews, ", ")
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
