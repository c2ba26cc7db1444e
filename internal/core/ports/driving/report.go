package driving

import (
	"context"

	"github.com/custodia-labs/docdupe/internal/core/domain"
)

// ReportService manages stored scan reports.
type ReportService interface {
	// Save stores a scan result as a new report and prunes old history.
	Save(ctx context.Context, result *domain.ScanResult) (*domain.Report, error)

	// Get retrieves a report by ID.
	Get(ctx context.Context, id string) (*domain.Report, error)

	// Latest returns the newest report.
	Latest(ctx context.Context) (*domain.Report, error)

	// List returns summaries of all reports, newest first.
	List(ctx context.Context) ([]domain.ReportSummary, error)

	// Delete removes a report.
	Delete(ctx context.Context, id string) error

	// PurgePath removes records referencing a deleted document from all reports.
	PurgePath(ctx context.Context, path string) (int, error)
}
