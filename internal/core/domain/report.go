package domain

import "time"

// Report is a stored ScanResult kept for review and export.
// Reports hold match records only, never extracted text or fingerprints.
type Report struct {
	// ID is the unique report identifier.
	ID string `json:"id" yaml:"id"`

	// CreatedAt is when the scan finished.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`

	// Result is the scan outcome.
	Result ScanResult `json:"result" yaml:"result"`
}

// Summary returns the list view of the report.
func (r *Report) Summary() ReportSummary {
	return ReportSummary{
		ID:          r.ID,
		Root:        r.Result.Root,
		Threshold:   r.Result.Threshold,
		Documents:   r.Result.Documents,
		Matches:     len(r.Result.Matches),
		Diagnostics: len(r.Result.Diagnostics),
		CreatedAt:   r.CreatedAt,
	}
}

// Clone returns a deep copy of the report.
func (r *Report) Clone() *Report {
	out := *r
	out.Result.Matches = append([]MatchRecord(nil), r.Result.Matches...)
	out.Result.Diagnostics = append([]Diagnostic(nil), r.Result.Diagnostics...)
	return &out
}

// ReportSummary is the list view of a stored report.
type ReportSummary struct {
	ID          string    `json:"id" yaml:"id"`
	Root        string    `json:"root" yaml:"root"`
	Threshold   float64   `json:"threshold" yaml:"threshold"`
	Documents   int       `json:"documents" yaml:"documents"`
	Matches     int       `json:"matches" yaml:"matches"`
	Diagnostics int       `json:"diagnostics" yaml:"diagnostics"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
}
