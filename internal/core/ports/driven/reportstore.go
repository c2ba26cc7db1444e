package driven

import (
	"context"

	"github.com/custodia-labs/docdupe/internal/core/domain"
)

// ReportStore persists scan reports for later review.
type ReportStore interface {
	// Save stores a report. An existing report with the same ID is replaced.
	Save(ctx context.Context, report *domain.Report) error

	// Get retrieves a report by ID. Returns domain.ErrNotFound if missing.
	Get(ctx context.Context, id string) (*domain.Report, error)

	// Latest returns the most recently created report.
	// Returns domain.ErrNotFound if the store is empty.
	Latest(ctx context.Context) (*domain.Report, error)

	// List returns summaries of all reports, newest first.
	List(ctx context.Context) ([]domain.ReportSummary, error)

	// Delete removes a report. Returns domain.ErrNotFound if missing.
	Delete(ctx context.Context, id string) error

	// PurgePath removes match records referencing the absolute path from
	// every stored report and returns how many records were removed.
	PurgePath(ctx context.Context, path string) (int, error)

	// Prune keeps the newest keep reports and deletes the rest.
	// Returns the number of reports deleted.
	Prune(ctx context.Context, keep int) (int, error)
}
