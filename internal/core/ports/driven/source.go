package driven

import (
	"context"

	"github.com/custodia-labs/docdupe/internal/core/domain"
)

// Discovery is the outcome of enumerating a scan root.
type Discovery struct {
	// Documents are sorted by RelPath.
	Documents []domain.Document

	// Skipped records directories or entries that could not be read.
	Skipped []domain.Diagnostic
}

// DocumentSource enumerates supported documents under a root directory.
type DocumentSource interface {
	// Discover walks root recursively. Unreadable entries are reported in
	// Discovery.Skipped rather than failing the walk.
	Discover(ctx context.Context, root string) (*Discovery, error)
}

// FileRemover deletes files on behalf of the document service.
type FileRemover interface {
	// Remove deletes the regular file at the absolute path.
	Remove(ctx context.Context, path string) error
}
