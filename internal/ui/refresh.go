package ui

import (
	"context"
	"fmt"
	"time"

	"orgchart/internal/debug"
	"orgchart/internal/directory"
	"orgchart/internal/orgchart"

	tea "github.com/charmbracelet/bubbletea"
)

const refreshTimeout = 10 * time.Second

func loadChart(ctx context.Context, src directory.Source, opts []orgchart.Option, reporter StartupReporter) (*orgchart.Chart, error) {
	if reporter != nil {
		reporter.Stage(StartupStageLoadingDirectory, "Loading directory...")
	}
	snap, err := directory.Fetch(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("load directory: %w", err)
	}
	if reporter != nil {
		reporter.Stage(StartupStageBuildingChart, fmt.Sprintf("Building chart from %d records...", len(snap.Records)))
	}
	return orgchart.NewChart(snap, opts...), nil
}

// refreshDataCmd fetches and rebuilds the chart off the UI goroutine. seq
// identifies the fetch so late completions can be discarded.
func refreshDataCmd(src directory.Source, opts []orgchart.Option, seq int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()

		chart, err := loadChart(ctx, src, opts, nil)
		if err != nil {
			return refreshCompleteMsg{seq: seq, err: err}
		}
		return refreshCompleteMsg{seq: seq, chart: chart}
	}
}

// startRefresh issues a new fetch. Overlapping fetches are allowed; the most
// recently issued one wins.
func (m *App) startRefresh() tea.Cmd {
	if m.source == nil {
		return nil
	}
	m.refreshSeq++
	m.refreshInFlight = true
	debug.Logw("refresh started", "seq", m.refreshSeq)
	return tea.Batch(m.spinner.Tick, refreshDataCmd(m.source, m.chartOpts, m.refreshSeq))
}

// handleRefreshComplete applies a finished fetch. A completion older than the
// last handled one is dropped, whether that one succeeded or failed.
func (m *App) handleRefreshComplete(msg refreshCompleteMsg) {
	if msg.seq >= m.refreshSeq {
		m.refreshInFlight = false
	}
	if msg.seq <= m.appliedSeq {
		debug.Logw("stale refresh ignored", "seq", msg.seq, "applied", m.appliedSeq)
		return
	}
	m.appliedSeq = msg.seq
	if msg.err != nil {
		m.lastError = fmt.Sprintf("reload failed: %v", msg.err)
		debug.Logw("refresh failed", "seq", msg.seq, "error", msg.err)
		return
	}
	m.lastError = ""
	m.applyRefresh(msg.chart)
}

// applyRefresh swaps in a new chart while keeping the cursor on the same
// person and the user's collapsed nodes.
func (m *App) applyRefresh(chart *orgchart.Chart) {
	selected, hasSelection := m.selectedID()
	m.chart = chart
	if m.selection.OrgView != "" {
		m.selection = chart.Navigate(m.selection.OrgView)
	}
	switch m.screen {
	case orgchart.ScreenOrgViews:
		m.setPicker(orgchart.ScreenOrgViews, viewTitles(chart.Views()))
	case orgchart.ScreenSubViews, orgchart.ScreenManagerTree:
		m.setPicker(m.screen, m.selection.SubViews)
	}
	m.applyFilters()
	if hasSelection {
		m.selectID(selected)
	}
	debug.Logw("refresh applied", "people", chart.Total(), "views", len(chart.Views()))
}

func startWatchCmd(path string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithCancel(context.Background())
		w, err := directory.Watch(ctx, path)
		if err != nil {
			cancel()
			return watchStartedMsg{err: err}
		}
		return watchStartedMsg{watcher: w, cancel: cancel}
	}
}

func waitForChangeCmd(w *directory.Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-w.Changes(); !ok {
			return watchClosedMsg{}
		}
		return sourceChangedMsg{}
	}
}

// Close stops the source watcher, if any.
func (m *App) Close() {
	if m.stopWatch != nil {
		m.stopWatch()
		m.stopWatch = nil
	}
}
