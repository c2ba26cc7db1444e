package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/docdupe/internal/core/domain"
	"github.com/custodia-labs/docdupe/internal/core/ports/driven"
	"github.com/custodia-labs/docdupe/internal/core/ports/driving"
	"github.com/custodia-labs/docdupe/internal/logger"
)

// Ensure ReportService implements the interface.
var _ driving.ReportService = (*ReportService)(nil)

// ReportService manages stored scan reports.
type ReportService struct {
	store   driven.ReportStore
	history int
	now     func() time.Time
}

// NewReportService creates a new report service that keeps the newest
// history reports. Zero keeps all.
func NewReportService(store driven.ReportStore, history int) *ReportService {
	return &ReportService{
		store:   store,
		history: history,
		now:     time.Now,
	}
}

// Save stores a copy of the result as a new report and prunes old history.
func (s *ReportService) Save(ctx context.Context, result *domain.ScanResult) (*domain.Report, error) {
	if result == nil {
		return nil, fmt.Errorf("%w: result is required", domain.ErrInvalidInput)
	}

	report := (&domain.Report{
		ID:        uuid.New().String(),
		CreatedAt: s.now().UTC(),
		Result:    *result,
	}).Clone()

	if err := s.store.Save(ctx, report); err != nil {
		return nil, fmt.Errorf("save report: %w", err)
	}

	if s.history > 0 {
		pruned, err := s.store.Prune(ctx, s.history)
		if err != nil {
			return nil, fmt.Errorf("prune reports: %w", err)
		}
		if pruned > 0 {
			logger.Debug("pruned %d old reports", pruned)
		}
	}

	return report, nil
}

// Get retrieves a report by ID.
func (s *ReportService) Get(ctx context.Context, id string) (*domain.Report, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: report id is required", domain.ErrInvalidInput)
	}
	return s.store.Get(ctx, id)
}

// Latest returns the newest report.
func (s *ReportService) Latest(ctx context.Context) (*domain.Report, error) {
	return s.store.Latest(ctx)
}

// List returns summaries of all reports, newest first.
func (s *ReportService) List(ctx context.Context) ([]domain.ReportSummary, error) {
	return s.store.List(ctx)
}

// Delete removes a report.
func (s *ReportService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: report id is required", domain.ErrInvalidInput)
	}
	return s.store.Delete(ctx, id)
}

// PurgePath removes records referencing a deleted document from all reports.
func (s *ReportService) PurgePath(ctx context.Context, path string) (int, error) {
	n, err := s.store.PurgePath(ctx, path)
	if err != nil {
		return 0, fmt.Errorf("purge %s: %w", path, err)
	}
	if n > 0 {
		logger.Debug("purged %d records referencing %s", n, path)
	}
	return n, nil
}
