package main

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"orgchart/internal/ui"

	"github.com/charmbracelet/bubbles/spinner"
)

type spinnerEvent struct {
	stage  ui.StartupStage
	detail string
}

// startupSpinner draws a one-line progress indicator on w while the chart
// loads. Nothing is drawn if loading finishes within delay.
type startupSpinner struct {
	writer io.Writer
	delay  time.Duration
	frames spinner.Spinner

	events chan spinnerEvent
	stopCh chan struct{}
	doneCh chan struct{}
	once   sync.Once
}

func newStartupSpinner(w io.Writer, delay time.Duration) *startupSpinner {
	if w == nil {
		w = io.Discard
	}
	sp := &startupSpinner{
		writer: w,
		delay:  delay,
		frames: spinner.MiniDot,
		events: make(chan spinnerEvent, 8),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
	go sp.loop()
	return sp
}

// Stage implements ui.StartupReporter. Events are dropped when the spinner
// is busy or stopped.
func (s *startupSpinner) Stage(stage ui.StartupStage, detail string) {
	if s == nil {
		return
	}
	select {
	case <-s.stopCh:
		return
	default:
	}
	select {
	case s.events <- spinnerEvent{stage: stage, detail: detail}:
	default:
	}
}

// Stop clears the line and waits for the render loop to exit.
func (s *startupSpinner) Stop() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		close(s.stopCh)
		<-s.doneCh
	})
}

func (s *startupSpinner) loop() {
	defer close(s.doneCh)

	delay := time.NewTimer(s.delay)
	defer delay.Stop()
	ticker := time.NewTicker(s.frames.FPS)
	defer ticker.Stop()

	var (
		current  spinnerEvent
		hasStage bool
		visible  bool
		frame    int
	)
	render := func() {
		if !visible || !hasStage {
			return
		}
		glyph := s.frames.Frames[frame%len(s.frames.Frames)]
		frame++
		_, _ = fmt.Fprintf(s.writer, "\r\033[2K%s %s", glyph, formatStageMessage(current.stage, current.detail))
	}

	for {
		select {
		case <-s.stopCh:
			if visible {
				_, _ = fmt.Fprint(s.writer, "\r\033[2K")
			}
			return
		case ev := <-s.events:
			current = ev
			hasStage = true
			render()
		case <-ticker.C:
			render()
		case <-delay.C:
			visible = true
			render()
		}
	}
}

var stageMessages = map[ui.StartupStage]string{
	ui.StartupStageInit:             "Opening the directory...",
	ui.StartupStageLoadingDirectory: "Reading employees...",
	ui.StartupStageBuildingChart:    "Drawing reporting lines...",
	ui.StartupStageReady:            "Ready",
}

func formatStageMessage(stage ui.StartupStage, detail string) string {
	msg := stageMessages[stage]
	if msg == "" {
		msg = "Working..."
	}
	detail = strings.TrimSpace(detail)
	if detail == "" {
		return msg
	}
	return fmt.Sprintf("%s - %s", msg, detail)
}
