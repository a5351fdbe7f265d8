package ui

import (
	"fmt"
	"strings"

	"orgchart/internal/debug"
	"orgchart/internal/directory"
	"orgchart/internal/orgchart"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func viewTitles(views []directory.OrgView) []string {
	titles := make([]string, 0, len(views))
	for _, v := range views {
		if t := strings.TrimSpace(v.Title); t != "" {
			titles = append(titles, t)
		}
	}
	return titles
}

// setPicker switches to a picker screen listing options.
func (m *App) setPicker(screen orgchart.Screen, options []string) {
	m.screen = screen
	m.pickerAll = options
	m.pickerQuery = ""
	m.pickerCursor = 0
	m.pickerShown = options
}

func (m *App) filterPicker() {
	m.pickerShown = rankOptions(m.pickerAll, m.pickerQuery)
	if m.pickerCursor >= len(m.pickerShown) {
		m.pickerCursor = len(m.pickerShown) - 1
	}
	if m.pickerCursor < 0 {
		m.pickerCursor = 0
	}
}

func (m *App) pickerChoice() (string, bool) {
	if m.pickerCursor < 0 || m.pickerCursor >= len(m.pickerShown) {
		return "", false
	}
	return m.pickerShown[m.pickerCursor], true
}

// openOrgView follows Chart.Navigate for title.
func (m *App) openOrgView(title string) {
	sel := m.chart.Navigate(title)
	m.selection = sel
	debug.Logw("org view selected",
		"view", title,
		"screen", sel.Screen.String(),
		"subViews", len(sel.SubViews),
		"managers", len(sel.Managers),
	)
	switch sel.Screen {
	case orgchart.ScreenSubViews, orgchart.ScreenManagerTree:
		m.setPicker(sel.Screen, sel.SubViews)
	default:
		m.showChart(sel.View)
	}
}

// managerCards renders the managers anchoring the selected org view, each
// with the size of the team below them.
func (m *App) managerCards() []string {
	forest := m.chart.Forest()
	var cards []string
	for _, id := range m.selection.Managers {
		n := orgchart.FindByID(forest, id)
		if n == nil {
			continue
		}
		card := styleHeader.Render(n.DisplayName())
		if title := strings.TrimSpace(n.Record.Title); title != "" {
			card += styleSubtle.Render(" · " + title)
		}
		if team := len(orgchart.SubtreeIDs(n)) - 1; team > 0 {
			card += styleSubtle.Render(fmt.Sprintf(" · team of %d", team))
		}
		cards = append(cards, card)
	}
	return cards
}

// showChart switches to the chart filtered by view. A picked view is shown
// whole until the count is adjusted.
func (m *App) showChart(view string) {
	m.screen = orgchart.ScreenChart
	m.filters.View = view
	m.showAll = view != ""
	m.filters.Search = ""
	m.textInput.SetValue("")
	m.collapsed = make(map[int]bool)
	m.cursor = 0
	m.treeTop = 0
	m.applyFilters()
}

// back leaves the current screen for the one that led to it.
func (m *App) back() {
	switch m.screen {
	case orgchart.ScreenChart:
		switch m.selection.Screen {
		case orgchart.ScreenSubViews, orgchart.ScreenManagerTree:
			m.setPicker(m.selection.Screen, m.chart.SubViews(m.selection.OrgView))
			return
		}
		if len(m.chart.Views()) > 0 {
			m.setPicker(orgchart.ScreenOrgViews, viewTitles(m.chart.Views()))
		}
	case orgchart.ScreenSubViews, orgchart.ScreenManagerTree:
		m.selection = orgchart.Selection{}
		m.setPicker(orgchart.ScreenOrgViews, viewTitles(m.chart.Views()))
	}
}

// handlePickerKey treats typed runes as the filter query, so only the arrow
// keys move the cursor here.
func (m *App) handlePickerKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case msg.Type == tea.KeyRunes:
		m.pickerQuery += string(msg.Runes)
		m.filterPicker()
	case key.Matches(msg, m.keys.Up):
		if m.pickerCursor > 0 {
			m.pickerCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.pickerCursor < len(m.pickerShown)-1 {
			m.pickerCursor++
		}
	case key.Matches(msg, m.keys.Enter):
		choice, ok := m.pickerChoice()
		if !ok {
			return nil
		}
		if m.screen == orgchart.ScreenOrgViews {
			m.openOrgView(choice)
		} else {
			m.showChart(choice)
		}
	case key.Matches(msg, m.keys.Back):
		if m.pickerQuery != "" {
			m.pickerQuery = ""
			m.filterPicker()
			return nil
		}
		m.back()
	case key.Matches(msg, m.keys.Backspace):
		if r := []rune(m.pickerQuery); len(r) > 0 {
			m.pickerQuery = string(r[:len(r)-1])
			m.filterPicker()
		}
	}
	return nil
}
