package domain

import (
	"path/filepath"
	"strings"
)

// DocumentType identifies the office container format of a document.
// The value doubles as the display label and the primary sort key of results.
type DocumentType string

// Supported document types.
const (
	// DocumentTypeSlides is a PowerPoint presentation (.pptx).
	DocumentTypeSlides DocumentType = "PPTX"

	// DocumentTypeText is a Word document (.docx).
	DocumentTypeText DocumentType = "DOCX"

	// DocumentTypeSpreadsheet is an Excel workbook (.xlsx).
	DocumentTypeSpreadsheet DocumentType = "XLSX"
)

// DocumentTypes returns every supported type in label order.
func DocumentTypes() []DocumentType {
	return []DocumentType{DocumentTypeText, DocumentTypeSlides, DocumentTypeSpreadsheet}
}

// IsValid returns true if the document type is recognised.
func (t DocumentType) IsValid() bool {
	switch t {
	case DocumentTypeSlides, DocumentTypeText, DocumentTypeSpreadsheet:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (t DocumentType) String() string {
	return string(t)
}

// Extension returns the lower-case file extension including the dot.
func (t DocumentType) Extension() string {
	if !t.IsValid() {
		return ""
	}
	return "." + strings.ToLower(string(t))
}

// Description returns a human-readable description of the type.
func (t DocumentType) Description() string {
	switch t {
	case DocumentTypeSlides:
		return "Slide deck"
	case DocumentTypeText:
		return "Text document"
	case DocumentTypeSpreadsheet:
		return "Spreadsheet"
	default:
		return "Unknown"
	}
}

// TypeForPath determines the document type from the file extension.
// Matching is case-insensitive. Returns false for unsupported extensions.
func TypeForPath(path string) (DocumentType, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pptx":
		return DocumentTypeSlides, true
	case ".docx":
		return DocumentTypeText, true
	case ".xlsx":
		return DocumentTypeSpreadsheet, true
	default:
		return "", false
	}
}

// Document is a file on disk taking part in a scan.
// Its content is read on demand and never retained.
type Document struct {
	// Path is the absolute, cleaned filesystem path.
	Path string

	// RelPath is the slash-separated path relative to the scan root.
	RelPath string

	// Type is the container format, derived from the extension.
	Type DocumentType

	// Size is the file size in bytes at discovery time.
	Size int64
}
