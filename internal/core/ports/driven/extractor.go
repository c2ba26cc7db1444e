package driven

import (
	"context"
	"io"

	"github.com/custodia-labs/docdupe/internal/core/domain"
)

// Extractor turns one office container format into a single text string.
// Implementations are read-only and hold no per-document state.
type Extractor interface {
	// Type returns the document type this extractor handles.
	Type() domain.DocumentType

	// Extract reads the container and returns its text in document order.
	// Corrupt or unreadable containers return an error wrapping
	// domain.ErrInvalidInput.
	Extract(ctx context.Context, r io.ReaderAt, size int64) (string, error)
}

// ExtractorRegistry selects the extractor for a document by its type.
type ExtractorRegistry interface {
	// Extract opens the document and runs the extractor registered for its type.
	// Returns domain.ErrUnsupportedType when no extractor is registered.
	Extract(ctx context.Context, doc domain.Document) (string, error)

	// Register adds or replaces the extractor for its type.
	Register(extractor Extractor)

	// SupportedTypes returns every type with a registered extractor.
	SupportedTypes() []domain.DocumentType
}
