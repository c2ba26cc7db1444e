package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/docdupe/internal/core/domain"
	"github.com/custodia-labs/docdupe/internal/core/ports/driven"
)

// Ensure ReportStore implements the interface.
var _ driven.ReportStore = (*ReportStore)(nil)

// ReportStore is an in-memory implementation of driven.ReportStore.
// Reports are copied on the way in and out.
type ReportStore struct {
	mu      sync.RWMutex
	reports map[string]*domain.Report
}

// NewReportStore creates a new in-memory report store.
func NewReportStore() *ReportStore {
	return &ReportStore{
		reports: make(map[string]*domain.Report),
	}
}

// Save stores or replaces a report.
func (s *ReportStore) Save(_ context.Context, report *domain.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[report.ID] = report.Clone()
	return nil
}

// Get retrieves a report by ID.
func (s *ReportStore) Get(_ context.Context, id string) (*domain.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reports[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return r.Clone(), nil
}

// Latest returns the most recently created report.
func (s *ReportStore) Latest(_ context.Context) (*domain.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ordered := s.newestFirst()
	if len(ordered) == 0 {
		return nil, domain.ErrNotFound
	}
	return ordered[0].Clone(), nil
}

// List returns summaries of all reports, newest first.
func (s *ReportStore) List(_ context.Context) ([]domain.ReportSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ordered := s.newestFirst()
	result := make([]domain.ReportSummary, 0, len(ordered))
	for _, r := range ordered {
		result = append(result, r.Summary())
	}
	return result, nil
}

// Delete removes a report.
func (s *ReportStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reports[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.reports, id)
	return nil
}

// PurgePath removes records referencing path from every report.
func (s *ReportStore) PurgePath(_ context.Context, path string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, r := range s.reports {
		purged := r.Result.WithoutPath(path)
		removed += len(r.Result.Matches) - len(purged.Matches)
		s.reports[id] = &domain.Report{ID: r.ID, CreatedAt: r.CreatedAt, Result: *purged}
	}
	return removed, nil
}

// Prune keeps the newest keep reports. A non-positive keep retains all.
func (s *ReportStore) Prune(_ context.Context, keep int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if keep <= 0 {
		return 0, nil
	}
	ordered := s.newestFirst()
	deleted := 0
	for _, r := range ordered[min(keep, len(ordered)):] {
		delete(s.reports, r.ID)
		deleted++
	}
	return deleted, nil
}

// newestFirst orders reports by creation time descending, then ID
// (caller must hold lock).
func (s *ReportStore) newestFirst() []*domain.Report {
	out := make([]*domain.Report, 0, len(s.reports))
	for _, r := range s.reports {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}
