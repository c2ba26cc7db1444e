package extractors

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/custodia-labs/docdupe/internal/core/domain"
	"github.com/custodia-labs/docdupe/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.ExtractorRegistry = (*Registry)(nil)

// Registry maps document types to their extractors.
// It is safe for concurrent use once populated.
type Registry struct {
	mu         sync.RWMutex
	extractors map[domain.DocumentType]driven.Extractor
}

// NewRegistry creates a registry holding the given extractors.
func NewRegistry(extractors ...driven.Extractor) *Registry {
	r := &Registry{
		extractors: make(map[domain.DocumentType]driven.Extractor, len(extractors)),
	}
	for _, e := range extractors {
		r.Register(e)
	}
	return r
}

// Register adds or replaces the extractor for its type.
func (r *Registry) Register(extractor driven.Extractor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.extractors[extractor.Type()] = extractor
}

// Get returns the extractor registered for t.
func (r *Registry) Get(t domain.DocumentType) (driven.Extractor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.extractors[t]
	return e, ok
}

// SupportedTypes returns registered types in label order.
func (r *Registry) SupportedTypes() []domain.DocumentType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var types []domain.DocumentType
	for _, t := range domain.DocumentTypes() {
		if _, ok := r.extractors[t]; ok {
			types = append(types, t)
		}
	}
	return types
}

// Extract opens the document and runs the extractor for its type.
// Extraction failures wrap domain.ErrExtractionFailed; corrupt containers
// additionally wrap domain.ErrInvalidInput. Context errors pass through.
func (r *Registry) Extract(ctx context.Context, doc domain.Document) (string, error) {
	extractor, ok := r.Get(doc.Type)
	if !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedType, doc.Type)
	}

	f, err := os.Open(doc.Path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrExtractionFailed, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrExtractionFailed, err)
	}

	text, err := extractor.Extract(ctx, f, info.Size())
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", err
		}
		return "", fmt.Errorf("%w: %w", domain.ErrExtractionFailed, err)
	}
	return text, nil
}
