package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"

	"orgchart/internal/config"
	"orgchart/internal/directory"
	appErrors "orgchart/internal/errors"
	"orgchart/internal/export"
	"orgchart/internal/orgchart"
	"orgchart/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
)

type safeBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *safeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *safeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type noopProgram struct{}

func (noopProgram) Run() (tea.Model, error) { return nil, nil }

type failingProgram struct{ err error }

func (p failingProgram) Run() (tea.Model, error) { return nil, p.err }

func testSnapshot() directory.Snapshot {
	mk := func(id int, name, title, dept string, manager int) directory.Record {
		rec := directory.Record{
			ID:         id,
			Title:      title,
			Department: dept,
			Person:     &directory.Person{Name: name},
		}
		if manager != 0 {
			rec.Managers = []directory.ManagerRef{{ID: manager}}
		}
		return rec
	}
	return directory.Snapshot{
		Records: []directory.Record{
			mk(1, "Ada", "Chief Executive Officer", "", 0),
			mk(2, "Grace", "Sales Director", "Sales", 1),
			mk(3, "Barbara", "Account Executive", "Sales", 2),
			mk(4, "Linus", "VP Engineering", "Engineering", 1),
		},
		Views: []directory.OrgView{{ID: 1, Title: "Sales"}},
	}
}

type testHarness struct {
	deps     deps
	stdout   *bytes.Buffer
	stderr   *bytes.Buffer
	snap     directory.Snapshot
	opened   []string
	appCfg   *ui.Config
	terminal bool
}

func newHarness(t *testing.T) *testHarness {
	t.Helper()
	t.Cleanup(config.ResetForTesting(t))

	h := &testHarness{stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}, snap: testSnapshot()}
	h.deps = deps{
		stdout:     h.stdout,
		stderr:     h.stderr,
		isTerminal: func() bool { return h.terminal },
		termWidth:  func() int { return 0 },
		openSource: func(path string, _ directory.Format) (directory.Source, error) {
			h.opened = append(h.opened, path)
			return directory.NewStaticSource(h.snap), nil
		},
		buildApp: func(cfg ui.Config) (*ui.App, error) {
			h.appCfg = &cfg
			return &ui.App{}, nil
		},
		newProgram: func(*ui.App) programRunner { return noopProgram{} },
	}
	return h
}

func (h *testHarness) run(t *testing.T, args ...string) error {
	t.Helper()
	cmd := newRootCmd(h.deps)
	cmd.SetArgs(args)
	cmd.SetOut(h.stdout)
	cmd.SetErr(&bytes.Buffer{})
	return cmd.ExecuteContext(context.Background())
}

func TestRootPrintsTreeWhenNotTerminal(t *testing.T) {
	h := newHarness(t)
	if err := h.run(t, "--source", "org.json"); err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	out := h.stdout.String()
	for _, want := range []string{"Ada", "Grace", "Barbara", "Linus"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
	if diff := cmp.Diff([]string{"org.json"}, h.opened); diff != "" {
		t.Fatalf("opened paths mismatch (-want +got):\n%s", diff)
	}
	if h.appCfg != nil {
		t.Fatalf("expected no UI outside a terminal")
	}
}

func TestRootRunsTUIOnTerminal(t *testing.T) {
	h := newHarness(t)
	h.terminal = true
	if err := h.run(t, "--source", "org.json", "--count", "3", "--view", "Sales", "--search", " berlin "); err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	if h.appCfg == nil {
		t.Fatalf("expected UI to be built")
	}
	want := orgchart.Filters{View: "Sales", Search: "berlin", Count: 3}
	if diff := cmp.Diff(want, h.appCfg.Filters); diff != "" {
		t.Fatalf("filters mismatch (-want +got):\n%s", diff)
	}
	if h.appCfg.WatchPath != "org.json" {
		t.Fatalf("expected watch path to follow source, got %q", h.appCfg.WatchPath)
	}
	if h.appCfg.Source == nil || h.appCfg.StartupReporter == nil {
		t.Fatalf("expected source and startup reporter")
	}
	if h.stdout.Len() != 0 {
		t.Fatalf("expected no printed output, got %q", h.stdout.String())
	}
}

func TestRootWatchCanBeDisabled(t *testing.T) {
	h := newHarness(t)
	h.terminal = true
	if err := h.run(t, "--source", "org.json", "--watch=false"); err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	if h.appCfg.WatchPath != "" {
		t.Fatalf("expected watching disabled, got %q", h.appCfg.WatchPath)
	}
}

func TestJSONCommandHonoursCount(t *testing.T) {
	h := newHarness(t)
	if err := h.run(t, "json", "--source", "org.json", "--count", "2"); err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	var got []*export.JSONNode
	if err := json.Unmarshal(h.stdout.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, h.stdout.String())
	}
	if len(got) != 1 || got[0].ID != 1 || len(got[0].Children) != 1 || got[0].Children[0].ID != 2 {
		t.Fatalf("unexpected JSON forest:\n%s", h.stdout.String())
	}
}

func TestJSONFlatListsPlaceholders(t *testing.T) {
	h := newHarness(t)
	h.snap.Records = append(h.snap.Records, directory.Record{
		ID:        100,
		Title:     "Sales anchor",
		Views:     []directory.ViewRef{{Title: "Sales"}},
		ViewNames: directory.ViewNames{"EMEA"},
	})
	if err := h.run(t, "json", "--source", "org.json", "--count", "1", "--flat"); err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	var got []*export.JSONNode
	if err := json.Unmarshal(h.stdout.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, h.stdout.String())
	}
	if len(got) != 5 {
		t.Fatalf("expected every record, got %d:\n%s", len(got), h.stdout.String())
	}
	if last := got[len(got)-1]; last.ID != 100 || !last.Placeholder {
		t.Fatalf("expected the placeholder last, got %+v", last)
	}
}

func TestLoadWarnsAboutRepairs(t *testing.T) {
	h := newHarness(t)
	h.snap.Records = append(h.snap.Records,
		directory.Record{ID: 3, Title: "Account Executive", Person: &directory.Person{Name: "Barbara"}},
		directory.Record{ID: 9, Title: "Intern", Person: &directory.Person{Name: "Nobody"}, Managers: []directory.ManagerRef{{ID: 77}}},
	)
	if err := h.run(t, "tree", "--source", "org.json"); err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	got := h.stderr.String()
	for _, want := range []string{"warning:", "1 duplicate ids merged", "1 unknown managers shown as roots"} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in stderr %q", want, got)
		}
	}
}

func TestCountFallsBackToConfig(t *testing.T) {
	h := newHarness(t)
	if err := config.Set(config.KeyEmployeeCount, 1); err != nil {
		t.Fatalf("config.Set: %v", err)
	}
	if err := h.run(t, "json", "--source", "org.json"); err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	var got []*export.JSONNode
	if err := json.Unmarshal(h.stdout.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(got) != 1 || len(got[0].Children) != 0 {
		t.Fatalf("expected only the root, got:\n%s", h.stdout.String())
	}
}

func TestSearchFlagIgnoresCount(t *testing.T) {
	h := newHarness(t)
	if err := h.run(t, "tree", "--source", "org.json", "--count", "1", "--search", "linus"); err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	out := h.stdout.String()
	if !strings.Contains(out, "Linus") || strings.Contains(out, "Ada") {
		t.Fatalf("expected only the search hit:\n%s", out)
	}
}

func TestDepartmentsCommand(t *testing.T) {
	h := newHarness(t)
	if err := h.run(t, "departments", "--source", "org.json"); err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	out := h.stdout.String()
	for _, want := range []string{export.ExecutivesLabel, "Sales", "Engineering", "Barbara"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestViewsCommand(t *testing.T) {
	h := newHarness(t)
	if err := h.run(t, "views", "--source", "org.json"); err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	if got := h.stdout.String(); got != "Sales -> chart\n" {
		t.Fatalf("unexpected views output %q", got)
	}
}

func TestVersionCommand(t *testing.T) {
	h := newHarness(t)
	if err := h.run(t, "version"); err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	if !strings.HasPrefix(h.stdout.String(), "orgchart version "+Version) {
		t.Fatalf("unexpected version output %q", h.stdout.String())
	}
}

func TestUnknownOutputIsConfigurationError(t *testing.T) {
	h := newHarness(t)
	err := h.run(t, "--source", "org.json", "--output", "xml")
	if !appErrors.IsCode(err, appErrors.CodeConfigurationError) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestUnsupportedFormatIsRejected(t *testing.T) {
	h := newHarness(t)
	err := h.run(t, "tree", "--source", "org.csv", "--format", "csv")
	if !appErrors.IsCode(err, appErrors.CodeUnsupportedFormat) {
		t.Fatalf("expected unsupported format error, got %v", err)
	}
}

func TestOpenSourceErrorIsReturned(t *testing.T) {
	h := newHarness(t)
	missing := appErrors.New(appErrors.CodeSourceNotFound, "missing", nil)
	h.deps.openSource = func(string, directory.Format) (directory.Source, error) {
		return nil, missing
	}
	err := h.run(t, "tree")
	if !appErrors.IsCode(err, appErrors.CodeSourceNotFound) {
		t.Fatalf("expected source_not_found, got %v", err)
	}
}

func TestRunProgramWrapsErrors(t *testing.T) {
	boom := errors.New("boom")
	err := runProgram(ui.Config{}, func(ui.Config) (*ui.App, error) {
		return nil, boom
	}, nil)
	if !errors.Is(err, boom) || !strings.Contains(err.Error(), "initialize UI") {
		t.Fatalf("expected wrapped builder error, got %v", err)
	}

	err = runProgram(ui.Config{}, func(ui.Config) (*ui.App, error) {
		return &ui.App{}, nil
	}, func(*ui.App) programRunner { return failingProgram{err: boom} })
	if !errors.Is(err, boom) || !strings.Contains(err.Error(), "run UI") {
		t.Fatalf("expected wrapped run error, got %v", err)
	}

	if err := runProgram(ui.Config{}, func(ui.Config) (*ui.App, error) {
		return &ui.App{}, nil
	}, nil); err == nil {
		t.Fatalf("expected error for nil factory")
	}
}

func TestStartupSpinnerRendersAfterDelay(t *testing.T) {
	var buf safeBuffer
	sp := newStartupSpinner(&buf, 0)
	sp.Stage(ui.StartupStageLoadingDirectory, "org.json")
	deadline := time.Now().Add(2 * time.Second)
	for !strings.Contains(buf.String(), "Reading employees... - org.json") {
		if time.Now().After(deadline) {
			sp.Stop()
			t.Fatalf("spinner never rendered, got %q", buf.String())
		}
		time.Sleep(10 * time.Millisecond)
	}
	sp.Stop()
	sp.Stop()
	sp.Stage(ui.StartupStageReady, "")
}

func TestFormatStageMessage(t *testing.T) {
	if got := formatStageMessage(ui.StartupStageBuildingChart, ""); got != "Drawing reporting lines..." {
		t.Fatalf("unexpected message %q", got)
	}
	if got := formatStageMessage(ui.StartupStage(99), " x "); got != "Working... - x" {
		t.Fatalf("unexpected message %q", got)
	}
}
