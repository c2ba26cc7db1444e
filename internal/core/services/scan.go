package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/docdupe/internal/core/domain"
	"github.com/custodia-labs/docdupe/internal/core/ports/driven"
	"github.com/custodia-labs/docdupe/internal/core/ports/driving"
	"github.com/custodia-labs/docdupe/internal/logger"
	"github.com/custodia-labs/docdupe/internal/textsim"
)

// Ensure ScanService implements the interface.
var _ driving.ScanService = (*ScanService)(nil)

// ScanService detects exact and near-duplicate documents under a root.
type ScanService struct {
	source        driven.DocumentSource
	fingerprinter driven.Fingerprinter
	extractors    driven.ExtractorRegistry
	guard         *CorpusGuard
	workers       int
}

// NewScanService creates a new scan service.
// A nil guard gets a private one. workers <= 0 means GOMAXPROCS.
func NewScanService(
	source driven.DocumentSource,
	fingerprinter driven.Fingerprinter,
	extractors driven.ExtractorRegistry,
	guard *CorpusGuard,
	workers int,
) *ScanService {
	if guard == nil {
		guard = NewCorpusGuard()
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &ScanService{
		source:        source,
		fingerprinter: fingerprinter,
		extractors:    extractors,
		guard:         guard,
		workers:       workers,
	}
}

// analysed holds the per-document outputs of one scan.
// Each slot is written by exactly one worker.
type analysed struct {
	doc         domain.Document
	fingerprint domain.Fingerprint
	text        string
	included    bool
	diags       []domain.Diagnostic
}

// Scan runs a complete single-pass scan.
func (s *ScanService) Scan(ctx context.Context, req driving.ScanRequest) (*domain.ScanResult, error) {
	root, err := validateRequest(req)
	if err != nil {
		return nil, err
	}

	release, err := s.guard.BeginScan(root)
	if err != nil {
		return nil, err
	}
	defer release()

	logger.Section("Scan")
	logger.Debug("scanning %s (threshold %.3f, %d workers)", root, req.Threshold, s.workers)

	discovery, err := s.source.Discover(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("discover documents: %w", err)
	}
	progress(req, driving.ScanPhaseDiscover, len(discovery.Documents), len(discovery.Documents))

	slots, err := s.analyse(ctx, req, discovery.Documents)
	if err != nil {
		return nil, err
	}

	diags := append([]domain.Diagnostic(nil), discovery.Skipped...)
	var included []*analysed
	for i := range slots {
		diags = append(diags, slots[i].diags...)
		if slots[i].included {
			included = append(included, &slots[i])
		}
	}

	exact, crossType := exactPass(included)
	diags = append(diags, crossType...)

	near, err := s.nearPass(ctx, req, included)
	if err != nil {
		return nil, err
	}

	matches := make([]domain.MatchRecord, 0, len(exact)+len(near))
	matches = append(matches, exact...)
	matches = append(matches, near...)
	domain.SortMatches(matches)
	domain.SortDiagnostics(diags)

	result := &domain.ScanResult{
		Root:        root,
		Threshold:   req.Threshold,
		Documents:   len(included),
		Matches:     matches,
		Diagnostics: diags,
	}

	logger.Info("scanned %d documents: %d exact, %d near duplicates, %d diagnostics",
		result.Documents, len(exact), len(near), len(diags))

	return result, nil
}

// validateRequest checks configuration before any work starts and returns
// the absolute root with symbolic links resolved.
func validateRequest(req driving.ScanRequest) (string, error) {
	if err := domain.ValidateThreshold(req.Threshold); err != nil {
		return "", err
	}
	if req.Root == "" {
		return "", fmt.Errorf("%w: root is required", domain.ErrInvalidConfig)
	}

	root, err := filepath.Abs(req.Root)
	if err != nil {
		return "", fmt.Errorf("%w: resolve root: %w", domain.ErrInvalidConfig, err)
	}
	// The guard and the document paths both use the link-free root.
	root, err = filepath.EvalSymlinks(root)
	if err != nil {
		return "", fmt.Errorf("%w: root: %w", domain.ErrInvalidConfig, err)
	}

	info, err := os.Stat(root)
	if err != nil {
		return "", fmt.Errorf("%w: root: %w", domain.ErrInvalidConfig, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: root %s is not a directory", domain.ErrInvalidConfig, root)
	}

	return root, nil
}

// analyse fingerprints, extracts and normalises every document on the pool.
func (s *ScanService) analyse(
	ctx context.Context,
	req driving.ScanRequest,
	docs []domain.Document,
) ([]analysed, error) {
	slots := make([]analysed, len(docs))
	var done atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i := range docs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := s.analyseOne(gctx, docs[i], &slots[i]); err != nil {
				return err
			}
			progress(req, driving.ScanPhaseAnalyse, int(done.Add(1)), len(docs))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	// A cancelled parent stops the loop before g.Go is ever called.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return slots, nil
}

// analyseOne fills slot for doc. Only context errors are returned; every
// other failure becomes a diagnostic.
func (s *ScanService) analyseOne(ctx context.Context, doc domain.Document, slot *analysed) error {
	slot.doc = doc

	fp, err := s.fingerprinter.Fingerprint(ctx, doc.Path)
	if err != nil {
		if isContextError(err) {
			return err
		}
		logger.Debug("fingerprint %s: %v", doc.RelPath, err)
		slot.diags = append(slot.diags, domain.Diagnostic{
			Kind:    domain.DiagnosticFingerprintFailed,
			Path:    doc.Path,
			Message: err.Error(),
		})
		return nil
	}
	slot.fingerprint = fp
	slot.included = true

	text, err := s.extractors.Extract(ctx, doc)
	if err != nil {
		if isContextError(err) {
			return err
		}
		logger.Debug("extract %s: %v", doc.RelPath, err)
		slot.diags = append(slot.diags, domain.Diagnostic{
			Kind:    domain.DiagnosticExtractionFailed,
			Path:    doc.Path,
			Message: err.Error(),
		})
		return nil
	}
	slot.text = textsim.Normalise(text)

	return nil
}

// exactPass groups documents by fingerprint. Same-type pairs become exact
// records; mixed-type groups raise one diagnostic per foreign member.
func exactPass(docs []*analysed) ([]domain.MatchRecord, []domain.Diagnostic) {
	groups := make(map[domain.Fingerprint][]*analysed)
	var order []domain.Fingerprint
	for _, d := range docs {
		if _, ok := groups[d.fingerprint]; !ok {
			order = append(order, d.fingerprint)
		}
		groups[d.fingerprint] = append(groups[d.fingerprint], d)
	}

	var (
		matches []domain.MatchRecord
		diags   []domain.Diagnostic
	)
	for _, fp := range order {
		group := groups[fp]
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				a, b := group[i].doc, group[j].doc
				if a.Type != b.Type {
					diags = append(diags, crossTypeDiagnostic(a, b))
					continue
				}
				matches = append(matches, domain.NewMatchRecord(a, b, domain.ExactSimilarity, true))
			}
		}
	}
	return matches, diags
}

func crossTypeDiagnostic(a, b domain.Document) domain.Diagnostic {
	if b.RelPath < a.RelPath {
		a, b = b, a
	}
	return domain.Diagnostic{
		Kind:    domain.DiagnosticCrossTypeDuplicate,
		Path:    a.Path,
		Message: fmt.Sprintf("byte-identical to %s (%s vs %s)", b.RelPath, a.Type, b.Type),
	}
}

// nearPass compares every same-type pair with distinct fingerprints.
// Each row i writes only rows[i]; the rows are merged in index order.
func (s *ScanService) nearPass(
	ctx context.Context,
	req driving.ScanRequest,
	docs []*analysed,
) ([]domain.MatchRecord, error) {
	rows := make([][]domain.MatchRecord, len(docs))
	var done atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i := range docs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			for j := i + 1; j < len(docs); j++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				if rec, ok := compare(docs[i], docs[j], req.Threshold); ok {
					rows[i] = append(rows[i], rec)
				}
			}
			progress(req, driving.ScanPhaseCompare, int(done.Add(1)), len(docs))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []domain.MatchRecord
	for _, row := range rows {
		out = append(out, row...)
	}
	return out, nil
}

// compare scores one pair. Pairs sharing a fingerprint belong to the exact
// pass and are never scored here.
func compare(a, b *analysed, threshold float64) (domain.MatchRecord, bool) {
	if a.doc.Type != b.doc.Type || a.fingerprint == b.fingerprint {
		return domain.MatchRecord{}, false
	}
	if textsim.LengthBound(a.text, b.text) < threshold {
		return domain.MatchRecord{}, false
	}
	if textsim.UpperBound(a.text, b.text) < threshold {
		return domain.MatchRecord{}, false
	}

	sim := textsim.Similarity(a.text, b.text)
	if sim < threshold || sim >= domain.ExactSimilarity {
		return domain.MatchRecord{}, false
	}
	return domain.NewMatchRecord(a.doc, b.doc, sim, false), true
}

func progress(req driving.ScanRequest, phase driving.ScanPhase, done, total int) {
	if req.Progress == nil {
		return
	}
	req.Progress(driving.ScanProgress{Phase: phase, Done: done, Total: total})
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
