// Package ui implements the interactive org chart viewer.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"orgchart/internal/debug"
	"orgchart/internal/directory"
	appErrors "orgchart/internal/errors"
	"orgchart/internal/orgchart"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	minViewportWidth  = 20
	minViewportHeight = 5
	minTreeWidth      = 18
	defaultWidth      = 80
	defaultHeight     = 24
	defaultCount      = 6
	copyToastDuration = 2 * time.Second
)

// Config configures the UI application.
type Config struct {
	Source directory.Source
	// WatchPath reloads the chart whenever this file changes. Empty disables
	// watching.
	WatchPath string
	// Filters seeds the chart filters. A non-blank View or Search skips the
	// org-view picker.
	Filters         orgchart.Filters
	ChartOptions    []orgchart.Option
	OutputFormat    string
	StartupReporter StartupReporter
	Version         string
}

// App implements the Bubble Tea model for the org chart viewer.
type App struct {
	source    directory.Source
	chartOpts []orgchart.Option
	chart     *orgchart.Chart
	display   orgchart.Display
	filters   orgchart.Filters

	// showAll ignores filters.Count until the user adjusts it.
	showAll bool

	screen       orgchart.Screen
	selection    orgchart.Selection
	pickerAll    []string
	pickerShown  []string
	pickerQuery  string
	pickerCursor int

	rows      []treeRow
	collapsed map[int]bool
	cursor    int
	treeTop   int

	textInput textinput.Model
	searching bool

	viewport    viewport.Model
	showDetails bool
	detailID    int

	spinner         spinner.Model
	refreshInFlight bool
	refreshSeq      int
	appliedSeq      int
	lastError       string
	copiedEmail     string

	watchPath string
	watcher   *directory.Watcher
	stopWatch context.CancelFunc

	keys         KeyMap
	width        int
	height       int
	outputFormat string
	version      string
	copyText     func(string) error
}

// NewApp loads the chart from cfg.Source and returns a ready model.
func NewApp(cfg Config) (*App, error) {
	if cfg.Source == nil {
		return nil, appErrors.New(appErrors.CodeConfigurationError, "no directory source configured", nil)
	}
	reporter := cfg.StartupReporter
	if reporter != nil {
		reporter.Stage(StartupStageInit, "Starting orgchart...")
	}

	chart, err := loadChart(context.Background(), cfg.Source, cfg.ChartOptions, reporter)
	if err != nil {
		return nil, err
	}

	ti := textinput.New()
	ti.Placeholder = "name, department or location"
	ti.Prompt = "/"

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	filters := cfg.Filters
	if filters.Count <= 0 {
		filters.Count = defaultCount
	}

	app := &App{
		source:       cfg.Source,
		chartOpts:    cfg.ChartOptions,
		chart:        chart,
		filters:      filters,
		collapsed:    make(map[int]bool),
		textInput:    ti,
		viewport:     viewport.New(minViewportWidth, minViewportHeight),
		spinner:      sp,
		watchPath:    strings.TrimSpace(cfg.WatchPath),
		keys:         DefaultKeyMap(),
		width:        defaultWidth,
		height:       defaultHeight,
		outputFormat: cfg.OutputFormat,
		version:      cfg.Version,
		copyText:     clipboard.WriteAll,
	}

	search := strings.TrimSpace(filters.Search)
	switch {
	case strings.TrimSpace(filters.View) != "":
		app.openOrgView(strings.TrimSpace(filters.View))
	case search == "" && len(chart.Views()) > 0:
		app.setPicker(orgchart.ScreenOrgViews, viewTitles(chart.Views()))
		app.applyFilters()
	default:
		app.showChart("")
	}
	if search != "" && app.screen == orgchart.ScreenChart {
		app.filters.Search = search
		app.textInput.SetValue(search)
		app.applyFilters()
	}

	if reporter != nil {
		reporter.Stage(StartupStageReady, "Ready!")
	}
	debug.Logw("ui ready", "screen", app.screen.String(), "people", chart.Total())
	return app, nil
}

// Screen reports the active screen.
func (m *App) Screen() orgchart.Screen {
	return m.screen
}

// Filters reports the active chart filters.
func (m *App) Filters() orgchart.Filters {
	return m.filters
}

func (m *App) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if m.watchPath != "" {
		cmds = append(cmds, startWatchCmd(m.watchPath))
	}
	return tea.Batch(cmds...)
}

func (m *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case refreshCompleteMsg:
		m.handleRefreshComplete(msg)
		return m, nil
	case watchStartedMsg:
		if msg.err != nil {
			m.lastError = fmt.Sprintf("watch failed: %v", msg.err)
			debug.Logw("watch failed", "path", m.watchPath, "error", msg.err)
			return m, nil
		}
		m.watcher = msg.watcher
		m.stopWatch = msg.cancel
		return m, waitForChangeCmd(m.watcher)
	case sourceChangedMsg:
		return m, tea.Batch(m.startRefresh(), waitForChangeCmd(m.watcher))
	case watchClosedMsg:
		m.watcher = nil
		return m, nil
	case copyToastTickMsg:
		m.copiedEmail = ""
		return m, nil
	case spinner.TickMsg:
		if !m.refreshInFlight {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeViewport()
		m.refreshDetail()
		return m, nil
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}

	if m.searching {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		m.Close()
		return tea.Quit
	}
	if m.searching {
		return m.handleSearchKey(msg)
	}
	if m.screen != orgchart.ScreenChart {
		return m.handlePickerKey(msg)
	}
	return m.handleChartKey(msg)
}

func (m *App) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.searching = false
		m.textInput.Blur()
		m.textInput.SetValue("")
		m.filters.Search = ""
		m.applyFilters()
		return nil
	case "enter":
		m.searching = false
		m.textInput.Blur()
		return nil
	}
	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	if value := m.textInput.Value(); value != m.filters.Search {
		m.filters.Search = value
		m.cursor = 0
		m.treeTop = 0
		m.applyFilters()
	}
	return cmd
}

func (m *App) handleChartKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.Close()
		return tea.Quit
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.textInput.SetValue(m.filters.Search)
		m.textInput.CursorEnd()
		return m.textInput.Focus()
	case key.Matches(msg, m.keys.Back):
		if m.filters.Search != "" {
			m.filters.Search = ""
			m.textInput.SetValue("")
			m.applyFilters()
			return nil
		}
		m.back()
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
			m.refreshDetail()
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
			m.refreshDetail()
		}
	case key.Matches(msg, m.keys.Home):
		m.cursor = 0
		m.refreshDetail()
	case key.Matches(msg, m.keys.End):
		m.cursor = max(len(m.rows)-1, 0)
		m.refreshDetail()
	case key.Matches(msg, m.keys.Left):
		m.collapseSelected()
	case key.Matches(msg, m.keys.Right):
		m.expandSelected()
	case key.Matches(msg, m.keys.Space):
		m.toggleSelected()
	case key.Matches(msg, m.keys.More):
		m.adjustCount(1)
	case key.Matches(msg, m.keys.Fewer):
		m.adjustCount(-1)
	case key.Matches(msg, m.keys.Enter), key.Matches(msg, m.keys.Details):
		m.showDetails = !m.showDetails
		m.resizeViewport()
		m.refreshDetail()
	case key.Matches(msg, m.keys.Copy):
		return m.copySelectedEmail()
	case key.Matches(msg, m.keys.Refresh):
		return m.startRefresh()
	}
	return nil
}

func (m *App) copySelectedEmail() tea.Cmd {
	n := m.selectedNode()
	if n == nil {
		return nil
	}
	if n.Record.Person == nil || strings.TrimSpace(n.Record.Person.Email) == "" {
		m.lastError = fmt.Sprintf("%s has no email", n.DisplayName())
		return nil
	}
	email := n.Record.Person.Email
	if err := m.copyText(email); err != nil {
		m.lastError = fmt.Sprintf("copy failed: %v", err)
		return nil
	}
	m.copiedEmail = email
	return scheduleCopyToastTick(copyToastDuration)
}

func (m *App) bodyHeight() int {
	return max(m.height-3, minViewportHeight)
}

func (m *App) treeWidth() int {
	if !m.showDetails {
		return m.width
	}
	return max(m.width/2, minTreeWidth)
}

func (m *App) resizeViewport() {
	w := max(m.width-m.treeWidth()-4, minViewportWidth)
	h := max(m.bodyHeight()-2, minViewportHeight)
	m.viewport.Width = w
	m.viewport.Height = h
}

func (m *App) View() string {
	header := styleHeader.Render("orgchart")
	if m.version != "" {
		header += styleSubtle.Render(" " + m.version)
	}
	header += styleSubtle.Render(" · " + m.screenTitle())

	var body string
	switch m.screen {
	case orgchart.ScreenChart:
		body = m.renderTree(m.treeWidth(), m.bodyHeight())
		if m.showDetails {
			body = lipgloss.JoinHorizontal(lipgloss.Top,
				lipgloss.NewStyle().Width(m.treeWidth()).Render(body),
				styleDetail.Render(m.viewport.View()),
			)
		}
	default:
		body = m.renderPicker(m.bodyHeight())
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, m.renderFooter())
}

func (m *App) screenTitle() string {
	switch m.screen {
	case orgchart.ScreenOrgViews:
		return "Org views"
	case orgchart.ScreenSubViews, orgchart.ScreenManagerTree:
		return m.selection.OrgView
	default:
		if m.filters.View != "" {
			return m.filters.View
		}
		return "Everyone"
	}
}

func (m *App) renderPicker(height int) string {
	var lines []string
	if m.screen == orgchart.ScreenManagerTree {
		lines = append(lines, m.managerCards()...)
		lines = append(lines, "")
	}
	if m.pickerQuery != "" {
		lines = append(lines, styleQuery.Render("filter: "+m.pickerQuery))
	}
	if len(m.pickerShown) == 0 {
		lines = append(lines, styleSubtle.Render("No views match."))
		return strings.Join(lines, "\n")
	}
	top := 0
	if m.pickerCursor >= height-len(lines) {
		top = m.pickerCursor - (height - len(lines)) + 1
	}
	for i := top; i < len(m.pickerShown) && len(lines) < height; i++ {
		line := "  " + m.pickerShown[i]
		if i == m.pickerCursor {
			line = styleSelected.Render("> " + m.pickerShown[i])
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m *App) renderFooter() string {
	var status string
	switch {
	case m.searching:
		status = m.textInput.View()
	case m.screen == orgchart.ScreenChart:
		shown := orgchart.Count(m.display.Roots)
		status = fmt.Sprintf("%d of %d shown", shown, m.display.Total)
		if m.filters.Search != "" {
			status += fmt.Sprintf(" · search %q", m.filters.Search)
		} else if m.showAll {
			status += " · count all"
		} else {
			status += fmt.Sprintf(" · count %d", m.filters.Count)
		}
	default:
		status = fmt.Sprintf("%d views", len(m.pickerShown))
	}
	if m.refreshInFlight {
		status = m.spinner.View() + " " + status
	}
	if m.copiedEmail != "" {
		status += " " + styleToast.Render(fmt.Sprintf("Copied '%s' to clipboard.", m.copiedEmail))
	}
	if m.lastError != "" {
		status += " " + styleError.Render(m.lastError)
	}

	bindings := m.keys.pickerHelp()
	if m.screen == orgchart.ScreenChart {
		bindings = m.keys.chartHelp()
	}
	seen := make(map[string]bool)
	var help []string
	for _, b := range bindings {
		h := b.Help()
		if seen[h.Key] {
			continue
		}
		seen[h.Key] = true
		help = append(help, h.Key+" "+h.Desc)
	}
	return status + "\n" + styleSubtle.Render(strings.Join(help, " · "))
}
