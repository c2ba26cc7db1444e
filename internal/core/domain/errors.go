package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input, including
	// corrupt document containers.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates a file extension or document type
	// that has no extractor.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrInvalidConfig indicates a configuration error detected before
	// any scanning work begins (threshold out of range, missing root).
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrScanInProgress indicates a delete touched a corpus that is being scanned.
	// Scan and delete are mutually exclusive phases.
	ErrScanInProgress = errors.New("scan in progress")

	// ErrDeleteInProgress indicates a scan was started over a corpus with a
	// running delete.
	ErrDeleteInProgress = errors.New("delete in progress")

	// Per-document failures.

	// ErrExtractionFailed indicates text could not be extracted from a document.
	// The document still takes part in exact-duplicate detection.
	ErrExtractionFailed = errors.New("extraction failed")

	// ErrFingerprintFailed indicates a document could not be read for hashing.
	// The document is excluded from the scan.
	ErrFingerprintFailed = errors.New("fingerprint failed")

	// ErrDeleteFailed indicates a file could not be removed.
	ErrDeleteFailed = errors.New("delete failed")
)
