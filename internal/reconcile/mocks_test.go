// Package reconcile provides test mocks for engine dependencies.
package reconcile

import (
	"context"
	"sync"

	"stock-alerts/internal/alerts"
	"stock-alerts/internal/query"
)

// mockFetcher implements PageFetcher for testing.
type mockFetcher struct {
	FetchPageFn func(ctx context.Context, f query.Filters) (*query.Page, error)

	mu    sync.Mutex
	calls []query.Filters // Records filters of all calls
}

func (m *mockFetcher) FetchPage(ctx context.Context, f query.Filters) (*query.Page, error) {
	m.mu.Lock()
	m.calls = append(m.calls, f)
	m.mu.Unlock()
	if m.FetchPageFn != nil {
		return m.FetchPageFn(ctx, f)
	}
	return &query.Page{Records: []alerts.Record{}}, nil
}

func (m *mockFetcher) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// mockAcker implements Acknowledger for testing.
type mockAcker struct {
	AcknowledgeAlertFn func(ctx context.Context, alertID string) error

	mu    sync.Mutex
	acked []string
}

func (m *mockAcker) AcknowledgeAlert(ctx context.Context, alertID string) error {
	m.mu.Lock()
	m.acked = append(m.acked, alertID)
	m.mu.Unlock()
	if m.AcknowledgeAlertFn != nil {
		return m.AcknowledgeAlertFn(ctx, alertID)
	}
	return nil
}

// spySink records every notified alert.
type spySink struct {
	mu       sync.Mutex
	notified []alerts.Record
}

func (s *spySink) Notify(record alerts.Record) {
	s.mu.Lock()
	s.notified = append(s.notified, record)
	s.mu.Unlock()
}

func (s *spySink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.notified)
}

// spyRecorder counts metric increments by name.
type spyRecorder struct {
	mu     sync.Mutex
	counts map[string]int
}

func (r *spyRecorder) Increment(name string) {
	r.mu.Lock()
	if r.counts == nil {
		r.counts = make(map[string]int)
	}
	r.counts[name]++
	r.mu.Unlock()
}

func (r *spyRecorder) get(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[name]
}
