// Package directory loads org chart records and org views from a backing
// list. Sources are read-only; the chart never writes back.
package directory

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	appErrors "orgchart/internal/errors"
)

// Format names a backing list encoding.
type Format string

const (
	FormatAuto   Format = "auto"
	FormatJSON   Format = "json"
	FormatYAML   Format = "yaml"
	FormatSQLite Format = "sqlite"
)

// Source defines the read operations the chart needs from a backing list.
type Source interface {
	Records(ctx context.Context) ([]Record, error)
	OrgViews(ctx context.Context) ([]OrgView, error)
}

// SnapshotSource reads records and org views together from one version of
// the backing list.
type SnapshotSource interface {
	Source
	Snapshot(ctx context.Context) (Snapshot, error)
}

// ParseFormat validates a configured format name.
func ParseFormat(raw string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(raw))); f {
	case "", FormatAuto:
		return FormatAuto, nil
	case FormatJSON, FormatYAML, FormatSQLite:
		return f, nil
	default:
		return "", appErrors.New(appErrors.CodeUnsupportedFormat, fmt.Sprintf("unsupported source format %q", raw), nil)
	}
}

// DetectFormat infers the format from a file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite, nil
	default:
		return "", appErrors.New(appErrors.CodeUnsupportedFormat, fmt.Sprintf("cannot infer source format from %q", filepath.Base(path)), nil)
	}
}

// Open returns the Source for path. The file must exist; FormatAuto picks the
// decoder from the file extension.
func Open(path string, format Format) (Source, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, appErrors.New(appErrors.CodeSourceNotFound, "no source path configured", nil)
	}
	info, err := os.Stat(trimmed)
	if err != nil {
		return nil, classifyOpenError(trimmed, err)
	}
	if info.IsDir() {
		return nil, appErrors.New(appErrors.CodeSourceNotFound, fmt.Sprintf("source %s is a directory", trimmed), nil)
	}
	if format == "" || format == FormatAuto {
		format, err = DetectFormat(trimmed)
		if err != nil {
			return nil, err
		}
	}
	switch format {
	case FormatJSON, FormatYAML:
		return NewFileSource(trimmed, format), nil
	case FormatSQLite:
		return NewSQLiteSource(trimmed), nil
	default:
		return nil, appErrors.New(appErrors.CodeUnsupportedFormat, fmt.Sprintf("unsupported source format %q", format), nil)
	}
}

// Fetch loads records and org views. A SnapshotSource is read once; other
// sources are queried concurrently and either failure cancels the other.
// The snapshot is only valid when err is nil.
func Fetch(ctx context.Context, src Source) (Snapshot, error) {
	if ss, ok := src.(SnapshotSource); ok {
		snap, err := ss.Snapshot(ctx)
		if err != nil {
			return Snapshot{}, err
		}
		return snap, nil
	}

	var snap Snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		records, err := src.Records(gctx)
		if err != nil {
			return err
		}
		snap.Records = records
		return nil
	})
	g.Go(func() error {
		views, err := src.OrgViews(gctx)
		if err != nil {
			return err
		}
		snap.Views = views
		return nil
	})
	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}
