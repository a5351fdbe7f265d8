package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"orgchart/internal/config"
	"orgchart/internal/debug"
	"orgchart/internal/directory"
	appErrors "orgchart/internal/errors"
	"orgchart/internal/export"
	"orgchart/internal/orgchart"
	"orgchart/internal/ui"

	"github.com/spf13/cobra"
)

const (
	outputTUI         = "tui"
	outputTree        = "tree"
	outputJSON        = "json"
	outputDepartments = "departments"

	loadTimeout         = 30 * time.Second
	startupSpinnerDelay = 150 * time.Millisecond
)

type rootFlags struct {
	source       string
	format       string
	count        int
	view         string
	search       string
	roles        []string
	watch        bool
	outputFormat string
	flat         bool
	debug        bool
}

// flagKeys maps flags to the config keys they override when set explicitly.
var flagKeys = map[string]string{
	"source": config.KeySourcePath,
	"format": config.KeySourceFormat,
	"count":  config.KeyEmployeeCount,
	"view":   config.KeyView,
	"roles":  config.KeyHighAuthorityRoles,
	"watch":  config.KeyWatch,
	"output": config.KeyOutputFormat,
	"debug":  config.KeyDebug,
}

type runtimeOptions struct {
	sourcePath   string
	format       directory.Format
	filters      orgchart.Filters
	roles        []string
	watch        bool
	outputFormat string
	flat         bool
}

func newRootCmd(d deps) *cobra.Command {
	var flags rootFlags

	cmd := &cobra.Command{
		Use:           "orgchart",
		Short:         "Browse an org chart directory export",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return setup(cmd, flags)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			debug.Close()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := resolveRuntime(flags)
			if err != nil {
				return err
			}
			if rt.outputFormat == outputTUI {
				if d.isTerminal() {
					return runTUI(d, rt)
				}
				rt.outputFormat = outputTree
			}
			return runPrinter(cmd.Context(), d, rt)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.source, "source", "", "Path to the directory export (.json, .yaml or .db)")
	pf.StringVar(&flags.format, "format", string(directory.FormatAuto), "Source format: auto, json, yaml or sqlite")
	pf.IntVar(&flags.count, "count", config.DefaultEmployeeCount, "Number of employees to show")
	pf.StringVar(&flags.view, "view", "", "Show only employees tagged with this view")
	pf.StringVar(&flags.search, "search", "", "Filter by name, department or location (ignores --count)")
	pf.StringSliceVar(&flags.roles, "roles", nil, "Title substrings that sort root employees first")
	pf.BoolVar(&flags.debug, "debug", false, "Write a debug log to ~/.orgchart/debug.log")
	cmd.Flags().BoolVar(&flags.watch, "watch", true, "Reload the chart when the source file changes")
	cmd.Flags().StringVar(&flags.outputFormat, "output", outputTUI, "Output: tui, tree, json or departments")

	cmd.AddCommand(
		newPrintCmd(d, &flags, outputTree, "Print the chart as a tree"),
		newPrintCmd(d, &flags, outputJSON, "Print the chart as JSON"),
		newPrintCmd(d, &flags, outputDepartments, "Print employees grouped by department"),
		newViewsCmd(d, &flags),
		newVersionCmd(d),
	)
	return cmd
}

func newPrintCmd(d deps, flags *rootFlags, format, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   format,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := resolveRuntime(*flags)
			if err != nil {
				return err
			}
			rt.outputFormat = format
			return runPrinter(cmd.Context(), d, rt)
		},
	}
	if format == outputJSON {
		cmd.Flags().BoolVar(&flags.flat, "flat", false, "List every record, placeholders included, without nesting or filters")
	}
	return cmd
}

func newViewsCmd(d deps, flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "views",
		Short: "List org views and their sub-views",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := resolveRuntime(*flags)
			if err != nil {
				return err
			}
			chart, err := loadChart(cmd.Context(), d, rt)
			if err != nil {
				return err
			}
			return export.WriteViews(d.stdout, chart)
		},
	}
}

func newVersionCmd(d deps) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return printVersion(d.stdout)
		},
	}
}

// setup loads configuration, layers explicitly set flags on top and starts
// the debug log.
func setup(cmd *cobra.Command, flags rootFlags) error {
	if err := config.Initialize(); err != nil {
		return appErrors.New(appErrors.CodeConfigurationError, "load configuration", err)
	}

	values := map[string]any{
		"source": flags.source,
		"format": flags.format,
		"count":  flags.count,
		"view":   flags.view,
		"roles":  flags.roles,
		"watch":  flags.watch,
		"output": flags.outputFormat,
		"debug":  flags.debug,
	}
	overrides := make(map[string]any)
	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			overrides[key] = values[name]
		}
	}
	if err := config.ApplyOverrides(overrides); err != nil {
		return appErrors.New(appErrors.CodeConfigurationError, "apply flags", err)
	}

	if err := debug.Init(config.GetBool(config.KeyDebug)); err != nil {
		return fmt.Errorf("init debug log: %w", err)
	}
	debug.Logw("configuration loaded", "command", cmd.Name(), "overrides", len(overrides))
	return nil
}

func resolveRuntime(flags rootFlags) (runtimeOptions, error) {
	format, err := directory.ParseFormat(config.GetString(config.KeySourceFormat))
	if err != nil {
		return runtimeOptions{}, err
	}
	output := strings.ToLower(strings.TrimSpace(config.GetString(config.KeyOutputFormat)))
	if output == "" {
		output = outputTUI
	}
	switch output {
	case outputTUI, outputTree, outputJSON, outputDepartments:
	default:
		return runtimeOptions{}, appErrors.New(appErrors.CodeConfigurationError, fmt.Sprintf("unknown output %q", output), nil)
	}

	return runtimeOptions{
		sourcePath: strings.TrimSpace(config.GetString(config.KeySourcePath)),
		format:     format,
		filters: orgchart.Filters{
			View:   strings.TrimSpace(config.GetString(config.KeyView)),
			Search: strings.TrimSpace(flags.search),
			Count:  config.GetInt(config.KeyEmployeeCount),
		},
		roles:        config.HighAuthorityRoles(),
		watch:        config.GetBool(config.KeyWatch),
		outputFormat: output,
		flat:         flags.flat,
	}, nil
}

func loadChart(ctx context.Context, d deps, rt runtimeOptions) (*orgchart.Chart, error) {
	src, err := d.openSource(rt.sourcePath, rt.format)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, loadTimeout)
	defer cancel()
	snap, err := directory.Fetch(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", rt.sourcePath, err)
	}
	chart := orgchart.NewChart(snap, orgchart.WithHighAuthorityRoles(rt.roles))
	reportRepairs(d.stderr, chart)
	return chart, nil
}

// reportRepairs warns about records the builder had to drop or re-root.
func reportRepairs(w io.Writer, chart *orgchart.Chart) {
	stats := chart.Stats()
	debug.Logw("chart loaded",
		"records", stats.Records,
		"duplicates", stats.Duplicates,
		"dangling", stats.Dangling,
		"cycleBreaks", stats.CycleBreaks,
		"placeholders", len(chart.Placeholders()),
	)
	var notes []string
	if stats.Duplicates > 0 {
		notes = append(notes, fmt.Sprintf("%d duplicate ids merged", stats.Duplicates))
	}
	if stats.Dangling > 0 {
		notes = append(notes, fmt.Sprintf("%d unknown managers shown as roots", stats.Dangling))
	}
	if stats.CycleBreaks > 0 {
		notes = append(notes, fmt.Sprintf("%d reporting cycles broken", stats.CycleBreaks))
	}
	if len(notes) > 0 {
		_, _ = fmt.Fprintf(w, "warning: %s\n", strings.Join(notes, ", "))
	}
}

func runPrinter(ctx context.Context, d deps, rt runtimeOptions) error {
	chart, err := loadChart(ctx, d, rt)
	if err != nil {
		return err
	}
	return printChart(d.stdout, chart, rt, d.termWidth())
}

func printChart(w io.Writer, chart *orgchart.Chart, rt runtimeOptions, width int) error {
	switch rt.outputFormat {
	case outputJSON:
		if rt.flat {
			return export.WriteFlatJSON(w, chart.Flattened())
		}
		return export.WriteJSON(w, chart.Apply(rt.filters).Roots)
	case outputDepartments:
		return export.WriteDepartments(w, chart.Departments(rt.filters))
	default:
		return export.WriteTree(w, chart.Apply(rt.filters).Roots, export.TreeOptions{
			Width: width,
			Roles: chart.Roles(),
		})
	}
}

func runTUI(d deps, rt runtimeOptions) error {
	src, err := d.openSource(rt.sourcePath, rt.format)
	if err != nil {
		return err
	}

	watchPath := ""
	if rt.watch {
		watchPath = rt.sourcePath
	}

	spinner := newStartupSpinner(d.stderr, startupSpinnerDelay)
	cfg := ui.Config{
		Source:          src,
		WatchPath:       watchPath,
		Filters:         rt.filters,
		ChartOptions:    []orgchart.Option{orgchart.WithHighAuthorityRoles(rt.roles)},
		StartupReporter: spinner,
		Version:         Version,
	}
	builder := func(cfg ui.Config) (*ui.App, error) {
		app, err := d.buildApp(cfg)
		spinner.Stop()
		return app, err
	}
	return runProgram(cfg, builder, d.newProgram)
}
