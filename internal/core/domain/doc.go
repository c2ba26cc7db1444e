// Package domain defines the core business entities for docdupe.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: An office document discovered during a scan
//   - Fingerprint: The content digest used for exact-duplicate detection
//   - MatchRecord: One duplicate or near-duplicate relationship
//   - ScanResult: The ordered outcome of one scan
//   - Report: A stored ScanResult kept for later review
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
