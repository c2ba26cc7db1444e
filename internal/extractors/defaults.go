package extractors

import (
	"github.com/custodia-labs/docdupe/internal/extractors/docx"
	"github.com/custodia-labs/docdupe/internal/extractors/pptx"
	"github.com/custodia-labs/docdupe/internal/extractors/xlsx"
)

// NewDefaultRegistry returns a registry with the built-in office extractors.
func NewDefaultRegistry() *Registry {
	return NewRegistry(pptx.New(), docx.New(), xlsx.New())
}
