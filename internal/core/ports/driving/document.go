package driving

import (
	"context"

	"github.com/custodia-labs/docdupe/internal/core/domain"
)

// DocumentService deletes documents reviewed after a scan.
//
// The service never repairs a ScanResult; callers purge stale records
// themselves (ScanResult.WithoutPath, ReportService.PurgePath).
type DocumentService interface {
	// Delete removes one document by absolute path.
	// Returns domain.ErrScanInProgress if a scan covering the path is running.
	Delete(ctx context.Context, path string) error

	// DeleteBatch attempts every path and collects all failures.
	DeleteBatch(ctx context.Context, paths []string) *domain.BatchDeleteResult
}
