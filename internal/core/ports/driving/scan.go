package driving

import (
	"context"

	"github.com/custodia-labs/docdupe/internal/core/domain"
)

// ScanPhase names a stage of a running scan for progress reporting.
type ScanPhase string

// Scan phases in execution order.
const (
	ScanPhaseDiscover ScanPhase = "discover"
	ScanPhaseAnalyse  ScanPhase = "analyse"
	ScanPhaseCompare  ScanPhase = "compare"
)

// ScanProgress is a snapshot passed to ScanRequest.Progress.
type ScanProgress struct {
	Phase ScanPhase
	Done  int
	Total int
}

// ScanRequest holds the inputs of one scan.
type ScanRequest struct {
	// Root is the directory to scan recursively.
	Root string

	// Threshold is the inclusive near-duplicate lower bound in [0, 1].
	// It is required; callers fill it from settings when the user gave none.
	Threshold float64

	// Progress is called from worker goroutines; it must be safe for
	// concurrent use. Optional.
	Progress func(ScanProgress)
}

// ScanService detects exact and near-duplicate documents.
type ScanService interface {
	// Scan runs a complete single-pass scan. Configuration errors wrap
	// domain.ErrInvalidConfig and are returned before any work starts.
	// Per-document failures are recorded in ScanResult.Diagnostics.
	Scan(ctx context.Context, req ScanRequest) (*domain.ScanResult, error)
}
