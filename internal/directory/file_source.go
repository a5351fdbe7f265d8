package directory

import (
	"bytes"
	"context"
	"os"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// FileSource reads a JSON or YAML document of the form
//
//	{"views": [...], "records": [...]}
//
// The file is re-read on every call so edits are picked up on refresh.
// Fetch reads it once through Snapshot.
type FileSource struct {
	path   string
	format Format
}

// NewFileSource returns a Source backed by a JSON or YAML file.
func NewFileSource(path string, format Format) *FileSource {
	return &FileSource{path: path, format: format}
}

// Path returns the file the source reads.
func (s *FileSource) Path() string {
	return s.path
}

// Records returns the normalized records in document order.
func (s *FileSource) Records(ctx context.Context) ([]Record, error) {
	doc, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Records, nil
}

// OrgViews returns the org views in document order.
func (s *FileSource) OrgViews(ctx context.Context) ([]OrgView, error) {
	doc, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Views, nil
}

// Snapshot reads and decodes the file once.
func (s *FileSource) Snapshot(ctx context.Context) (Snapshot, error) {
	return s.load(ctx)
}

func (s *FileSource) load(ctx context.Context) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}
	//nolint:gosec // G304: Source path is supplied by the user on purpose
	data, err := os.ReadFile(s.path)
	if err != nil {
		return Snapshot{}, classifyLoadError(s.path, "read", err)
	}
	doc, err := decodeSnapshot(data, s.format)
	if err != nil {
		return Snapshot{}, parseError(s.path, err)
	}
	for i := range doc.Records {
		doc.Records[i].normalize()
	}
	return doc, nil
}

func decodeSnapshot(data []byte, format Format) (Snapshot, error) {
	var doc Snapshot
	if len(bytes.TrimSpace(data)) == 0 {
		return doc, nil
	}
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return Snapshot{}, err
		}
	default:
		if err := json.Unmarshal(data, &doc); err != nil {
			return Snapshot{}, err
		}
	}
	return doc, nil
}
