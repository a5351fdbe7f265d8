package ui

import (
	"context"
	"time"

	"orgchart/internal/directory"
	"orgchart/internal/orgchart"

	tea "github.com/charmbracelet/bubbletea"
)

type refreshCompleteMsg struct {
	seq   int
	chart *orgchart.Chart
	err   error
}

type watchStartedMsg struct {
	watcher *directory.Watcher
	cancel  context.CancelFunc
	err     error
}

type sourceChangedMsg struct{}

type watchClosedMsg struct{}

type copyToastTickMsg struct{}

func scheduleCopyToastTick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return copyToastTickMsg{}
	})
}
