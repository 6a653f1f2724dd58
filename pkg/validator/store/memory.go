package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"helios-hq/triton/pkg/validator/report"
)

// MemoryStore keeps reports in memory. It exists for tests and for
// short-lived tooling that only needs the current run's reports.
type MemoryStore struct {
	mu      sync.RWMutex
	reports map[string]*report.ValidationReport
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{reports: make(map[string]*report.ValidationReport)}
}

// SaveReport stores one report.
func (s *MemoryStore) SaveReport(_ context.Context, rep *report.ValidationReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[rep.ID] = rep
	return nil
}

// GetReport returns the report with the given ID, or ErrNotFound.
func (s *MemoryStore) GetReport(_ context.Context, id string) (*report.ValidationReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rep, ok := s.reports[id]
	if !ok {
		return nil, ErrNotFound
	}
	return rep, nil
}

// ListReports returns reports matching the query, newest first.
func (s *MemoryStore) ListReports(_ context.Context, q Query) ([]*report.ValidationReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*report.ValidationReport
	for _, rep := range s.reports {
		if matches(rep, q) {
			out = append(out, rep)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

// DeleteBefore removes reports created before the cutoff.
func (s *MemoryStore) DeleteBefore(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for id, rep := range s.reports {
		if rep.Timestamp.Before(cutoff) {
			delete(s.reports, id)
			deleted++
		}
	}
	return deleted, nil
}

// Count returns the number of stored reports.
func (s *MemoryStore) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.reports)), nil
}

// Close is a no-op for the memory backend.
func (s *MemoryStore) Close() error { return nil }

func matches(rep *report.ValidationReport, q Query) bool {
	if q.SchemaID != "" && rep.SchemaID != q.SchemaID {
		return false
	}
	if q.Target != "" && rep.Target != q.Target {
		return false
	}
	if q.OnlyInvalid && rep.Valid() {
		return false
	}
	if !q.Since.IsZero() && rep.Timestamp.Before(q.Since) {
		return false
	}
	if !q.Until.IsZero() && rep.Timestamp.After(q.Until) {
		return false
	}
	return true
}
