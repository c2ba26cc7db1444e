package domain

import (
	"math"
	"sort"
)

// ExactSimilarity is the score carried by byte-identical pairs.
const ExactSimilarity = 1.0

// MatchRecord is one detected relationship between two documents of the same type.
//
// Records are oriented so that RelPathA < RelPathB. A record with
// Similarity == 1.0 is always an exact (same fingerprint) match.
type MatchRecord struct {
	// Type is the shared document type of both sides.
	Type DocumentType `json:"type" yaml:"type"`

	// PathA is the absolute path of the first document.
	PathA string `json:"path_a" yaml:"path_a"`

	// PathB is the absolute path of the second document.
	PathB string `json:"path_b" yaml:"path_b"`

	// RelPathA is PathA relative to the scan root.
	RelPathA string `json:"rel_path_a" yaml:"rel_path_a"`

	// RelPathB is PathB relative to the scan root.
	RelPathB string `json:"rel_path_b" yaml:"rel_path_b"`

	// Similarity is the score in [0, 1].
	Similarity float64 `json:"similarity" yaml:"similarity"`

	// Exact is true when both documents share a fingerprint.
	Exact bool `json:"exact" yaml:"exact"`
}

// nearPercentCap is the highest percentage a near record displays, so that
// 100.0 always means byte-identical.
const nearPercentCap = 99.9

// SimilarityPercent returns the similarity as a percentage rounded to one
// decimal. A near record that would round up to 100.0 shows 99.9.
func (m MatchRecord) SimilarityPercent() float64 {
	pct := math.Round(m.Similarity*1000) / 10
	if !m.Exact && pct > nearPercentCap {
		return nearPercentCap
	}
	return pct
}

// References returns true if either side of the record is the given absolute path.
func (m MatchRecord) References(path string) bool {
	return m.PathA == path || m.PathB == path
}

// NewMatchRecord builds a record with the canonical A/B orientation.
func NewMatchRecord(a, b Document, similarity float64, exact bool) MatchRecord {
	if b.RelPath < a.RelPath {
		a, b = b, a
	}
	return MatchRecord{
		Type:       a.Type,
		PathA:      a.Path,
		PathB:      b.Path,
		RelPathA:   a.RelPath,
		RelPathB:   b.RelPath,
		Similarity: similarity,
		Exact:      exact,
	}
}

// SortMatches orders records by type label, then RelPathA, then RelPathB.
func SortMatches(records []MatchRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Type != records[j].Type {
			return records[i].Type < records[j].Type
		}
		if records[i].RelPathA != records[j].RelPathA {
			return records[i].RelPathA < records[j].RelPathA
		}
		return records[i].RelPathB < records[j].RelPathB
	})
}

// DiagnosticKind classifies a per-document problem recorded during a scan.
type DiagnosticKind string

// Diagnostic kinds.
const (
	// DiagnosticExtractionFailed means the document took part with empty text.
	DiagnosticExtractionFailed DiagnosticKind = "extraction_failed"

	// DiagnosticFingerprintFailed means the document was excluded from the scan.
	DiagnosticFingerprintFailed DiagnosticKind = "fingerprint_failed"

	// DiagnosticWalkFailed means a directory under the root could not be listed.
	DiagnosticWalkFailed DiagnosticKind = "walk_failed"

	// DiagnosticCrossTypeDuplicate means two byte-identical files carry
	// different extensions; no match record is produced for them.
	DiagnosticCrossTypeDuplicate DiagnosticKind = "cross_type_duplicate"
	// DiagnosticSymlinkSkipped means a link with a document extension was
	// found below the root and not followed.
	DiagnosticSymlinkSkipped DiagnosticKind = "symlink_skipped"
)

// Diagnostic is a problem surfaced to the caller instead of being swallowed.
type Diagnostic struct {
	Kind    DiagnosticKind `json:"kind" yaml:"kind"`
	Path    string         `json:"path" yaml:"path"`
	Message string         `json:"message" yaml:"message"`
}

// SortDiagnostics orders diagnostics by path, then kind, then message.
func SortDiagnostics(diags []Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		if diags[i].Path != diags[j].Path {
			return diags[i].Path < diags[j].Path
		}
		if diags[i].Kind != diags[j].Kind {
			return diags[i].Kind < diags[j].Kind
		}
		return diags[i].Message < diags[j].Message
	})
}

// ScanResult is the ordered outcome of one scan.
// It is treated as an immutable value: helpers return modified copies.
type ScanResult struct {
	// Root is the absolute scan root.
	Root string `json:"root" yaml:"root"`

	// Threshold is the inclusive lower bound used for near duplicates.
	Threshold float64 `json:"threshold" yaml:"threshold"`

	// Documents is the number of documents that took part in the scan.
	Documents int `json:"documents" yaml:"documents"`

	// Matches are sorted by type, RelPathA, RelPathB.
	Matches []MatchRecord `json:"matches" yaml:"matches"`

	// Diagnostics lists per-document problems, sorted by path.
	Diagnostics []Diagnostic `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

// ExactCount returns the number of exact-duplicate records.
func (r *ScanResult) ExactCount() int {
	n := 0
	for i := range r.Matches {
		if r.Matches[i].Exact {
			n++
		}
	}
	return n
}

// WithoutPath returns a copy of the result with every record referencing
// path removed. The receiver is not modified.
func (r *ScanResult) WithoutPath(path string) *ScanResult {
	out := *r
	out.Matches = make([]MatchRecord, 0, len(r.Matches))
	for _, m := range r.Matches {
		if !m.References(path) {
			out.Matches = append(out.Matches, m)
		}
	}
	out.Diagnostics = append([]Diagnostic(nil), r.Diagnostics...)
	return &out
}
