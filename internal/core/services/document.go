package services

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/docdupe/internal/core/domain"
	"github.com/custodia-labs/docdupe/internal/core/ports/driven"
	"github.com/custodia-labs/docdupe/internal/core/ports/driving"
	"github.com/custodia-labs/docdupe/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService deletes reviewed documents.
type DocumentService struct {
	remover driven.FileRemover
	guard   *CorpusGuard
}

// NewDocumentService creates a new document service.
// Pass the guard shared with the scan service so deletes never overlap a scan.
func NewDocumentService(remover driven.FileRemover, guard *CorpusGuard) *DocumentService {
	if guard == nil {
		guard = NewCorpusGuard()
	}
	return &DocumentService{
		remover: remover,
		guard:   guard,
	}
}

// Delete removes one document by absolute path.
func (s *DocumentService) Delete(ctx context.Context, path string) error {
	if path == "" || !filepath.IsAbs(path) {
		return fmt.Errorf("%w: path must be absolute: %q", domain.ErrInvalidInput, path)
	}
	path = filepath.Clean(path)

	release, err := s.guard.BeginDelete(path)
	if err != nil {
		return err
	}
	defer release()

	if err := s.remover.Remove(ctx, path); err != nil {
		return err
	}

	logger.Debug("deleted %s", path)
	return nil
}

// DeleteBatch attempts every path and collects all failures.
func (s *DocumentService) DeleteBatch(ctx context.Context, paths []string) *domain.BatchDeleteResult {
	result := &domain.BatchDeleteResult{}
	for _, path := range paths {
		if err := s.Delete(ctx, path); err != nil {
			result.Failures = append(result.Failures, domain.DeleteFailure{Path: path, Err: err})
			continue
		}
		result.Deleted = append(result.Deleted, path)
	}

	if !result.OK() {
		logger.Warn("%d of %d deletes failed", len(result.Failures), len(paths))
	}
	return result
}
