// Package extractors provides the Content Extractor: format-specific
// adapters that turn an office document into a single text string.
//
// Each supported container format has its own package implementing
// driven.Extractor:
//
//   - pptx: slide text in presentation and shape order
//   - docx: body paragraphs followed by table cells
//   - xlsx: cached cell values per worksheet, row and column
//
// The Registry dispatches on domain.DocumentType, so each extractor is
// selected by a table lookup rather than by inspecting file names.
package extractors
