package directory

import (
	"context"
	"errors"
	"sync"
)

// ErrMockNotImplemented is returned when a MockSource method lacks an override.
var ErrMockNotImplemented = errors.New("directory.MockSource: method not implemented")

// MockSource is a test double for Source.
type MockSource struct {
	RecordsFn  func(context.Context) ([]Record, error)
	OrgViewsFn func(context.Context) ([]OrgView, error)

	mu                sync.Mutex
	RecordsCallCount  int
	OrgViewsCallCount int
}

// NewMockSource returns a MockSource with zeroed handlers.
func NewMockSource() *MockSource {
	return &MockSource{}
}

// NewStaticSource returns a MockSource that always serves snap.
func NewStaticSource(snap Snapshot) *MockSource {
	m := NewMockSource()
	m.RecordsFn = func(context.Context) ([]Record, error) {
		return append([]Record(nil), snap.Records...), nil
	}
	m.OrgViewsFn = func(context.Context) ([]OrgView, error) {
		return append([]OrgView(nil), snap.Views...), nil
	}
	return m
}

// Records invokes the configured stub or returns ErrMockNotImplemented.
func (m *MockSource) Records(ctx context.Context) ([]Record, error) {
	m.mu.Lock()
	m.RecordsCallCount++
	m.mu.Unlock()
	if m.RecordsFn == nil {
		return nil, ErrMockNotImplemented
	}
	return m.RecordsFn(ctx)
}

// OrgViews invokes the configured stub or returns ErrMockNotImplemented.
func (m *MockSource) OrgViews(ctx context.Context) ([]OrgView, error) {
	m.mu.Lock()
	m.OrgViewsCallCount++
	m.mu.Unlock()
	if m.OrgViewsFn == nil {
		return nil, ErrMockNotImplemented
	}
	return m.OrgViewsFn(ctx)
}

// Calls returns the current call counters.
func (m *MockSource) Calls() (records, orgViews int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.RecordsCallCount, m.OrgViewsCallCount
}
