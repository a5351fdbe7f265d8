package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"orgchart/internal/directory"
	"orgchart/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd(defaultDeps()).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

type programRunner interface {
	Run() (tea.Model, error)
}

type programFactory func(*ui.App) programRunner

// deps holds the process-facing collaborators so commands can run in tests.
type deps struct {
	stdout     io.Writer
	stderr     io.Writer
	isTerminal func() bool
	termWidth  func() int
	openSource func(path string, format directory.Format) (directory.Source, error)
	buildApp   func(ui.Config) (*ui.App, error)
	newProgram programFactory
}

func defaultDeps() deps {
	return deps{
		stdout: os.Stdout,
		stderr: os.Stderr,
		isTerminal: func() bool {
			return term.IsTerminal(int(os.Stdout.Fd()))
		},
		termWidth: func() int {
			w, _, err := term.GetSize(int(os.Stdout.Fd()))
			if err != nil {
				return 0
			}
			return w
		},
		openSource: directory.Open,
		buildApp:   ui.NewApp,
		newProgram: func(app *ui.App) programRunner {
			return tea.NewProgram(app, tea.WithAltScreen())
		},
	}
}

func runProgram(cfg ui.Config, builder func(ui.Config) (*ui.App, error), factory programFactory) error {
	app, err := builder(cfg)
	if err != nil {
		return fmt.Errorf("initialize UI: %w", err)
	}
	defer app.Close()
	if factory == nil {
		return fmt.Errorf("program factory is nil")
	}
	prog := factory(app)
	if prog == nil {
		return fmt.Errorf("program is nil")
	}
	if _, err := prog.Run(); err != nil {
		return fmt.Errorf("run UI: %w", err)
	}
	return nil
}
