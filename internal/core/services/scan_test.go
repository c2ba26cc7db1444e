package services

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docdupe/internal/core/domain"
	"github.com/custodia-labs/docdupe/internal/core/ports/driving"
)

func scanCorpus(t *testing.T, threshold float64, docs ...fakeDoc) (*domain.ScanResult, *fakeCorpus) {
	t.Helper()

	root := t.TempDir()
	corpus := newFakeCorpus(root, docs...)
	svc := NewScanService(corpus, corpus, corpus, nil, 4)

	result, err := svc.Scan(context.Background(), driving.ScanRequest{Root: root, Threshold: threshold})
	require.NoError(t, err)
	return result, corpus
}

func TestScanService_IdenticalSpreadsheets(t *testing.T) {
	result, _ := scanCorpus(t, domain.DefaultThreshold,
		fakeDoc{rel: "a.xlsx", content: "same bytes", text: "q1 rev"},
		fakeDoc{rel: "b.xlsx", content: "same bytes", text: "q1 rev"},
	)

	require.Len(t, result.Matches, 1)
	m := result.Matches[0]
	assert.Equal(t, domain.DocumentTypeSpreadsheet, m.Type)
	assert.Equal(t, "a.xlsx", m.RelPathA)
	assert.Equal(t, "b.xlsx", m.RelPathB)
	assert.Equal(t, 1.0, m.Similarity)
	assert.True(t, m.Exact)
	assert.Equal(t, 2, result.Documents)
}

func TestScanService_NearDuplicateText(t *testing.T) {
	result, _ := scanCorpus(t, domain.DefaultThreshold,
		fakeDoc{rel: "a.docx", content: "A", text: "hello world"},
		fakeDoc{rel: "b.docx", content: "B", text: "hello world!"},
	)

	require.Len(t, result.Matches, 1)
	m := result.Matches[0]
	assert.InDelta(t, 22.0/23.0, m.Similarity, 1e-12)
	assert.False(t, m.Exact)
	assert.Equal(t, 95.7, m.SimilarityPercent())
}

func TestScanService_DisjointSlides(t *testing.T) {
	result, _ := scanCorpus(t, domain.DefaultThreshold,
		fakeDoc{rel: "a.pptx", content: "A", text: "abc"},
		fakeDoc{rel: "b.pptx", content: "B", text: "xyz"},
	)

	assert.Empty(t, result.Matches)
}

func TestScanService_TypeMismatchNeverCompared(t *testing.T) {
	result, _ := scanCorpus(t, 0,
		fakeDoc{rel: "deck.pptx", content: "A", text: "quarterly results"},
		fakeDoc{rel: "memo.docx", content: "B", text: "quarterly results"},
	)

	assert.Empty(t, result.Matches)
}

func TestScanService_CorruptCopiesStillExact(t *testing.T) {
	corrupt := errors.New("zip: not a valid zip file")
	result, _ := scanCorpus(t, domain.DefaultThreshold,
		fakeDoc{rel: "broken.xlsx", content: "garbage", textErr: corrupt},
		fakeDoc{rel: "broken copy.xlsx", content: "garbage", textErr: corrupt},
	)

	require.Len(t, result.Matches, 1)
	assert.True(t, result.Matches[0].Exact)
	assert.Equal(t, "broken copy.xlsx", result.Matches[0].RelPathA)

	require.Len(t, result.Diagnostics, 2)
	for _, d := range result.Diagnostics {
		assert.Equal(t, domain.DiagnosticExtractionFailed, d.Kind)
	}
}

func TestScanService_ThresholdBoundary(t *testing.T) {
	docs := []fakeDoc{
		{rel: "a.docx", content: "A", text: "hello world"},
		{rel: "b.docx", content: "B", text: "hello world!"},
	}
	sim := 2.0 * 11 / 23

	t.Run("equal is included", func(t *testing.T) {
		result, _ := scanCorpus(t, sim, docs...)
		assert.Len(t, result.Matches, 1)
	})

	t.Run("just above is excluded", func(t *testing.T) {
		result, _ := scanCorpus(t, math.Nextafter(sim, 1), docs...)
		assert.Empty(t, result.Matches)
	})
}

func TestScanService_IdenticalTextDifferentBytes(t *testing.T) {
	// Same text through the similarity path scores 1.0 and must not be emitted.
	result, _ := scanCorpus(t, domain.DefaultThreshold,
		fakeDoc{rel: "a.docx", content: "A", text: "Same   Text"},
		fakeDoc{rel: "b.docx", content: "B", text: "same text"},
	)

	assert.Empty(t, result.Matches)
}

func TestScanService_ExactGroupEmitsAllPairs(t *testing.T) {
	result, _ := scanCorpus(t, domain.DefaultThreshold,
		fakeDoc{rel: "c.docx", content: "X", text: "t"},
		fakeDoc{rel: "a.docx", content: "X", text: "t"},
		fakeDoc{rel: "b.docx", content: "X", text: "t"},
	)

	require.Len(t, result.Matches, 3)
	got := make([][2]string, 0, 3)
	for _, m := range result.Matches {
		assert.True(t, m.Exact)
		got = append(got, [2]string{m.RelPathA, m.RelPathB})
	}
	assert.Equal(t, [][2]string{{"a.docx", "b.docx"}, {"a.docx", "c.docx"}, {"b.docx", "c.docx"}}, got)
}

func TestScanService_CrossTypeDuplicate(t *testing.T) {
	result, _ := scanCorpus(t, domain.DefaultThreshold,
		fakeDoc{rel: "renamed.pptx", content: "X"},
		fakeDoc{rel: "report.docx", content: "X"},
	)

	assert.Empty(t, result.Matches)
	require.Len(t, result.Diagnostics, 1)
	d := result.Diagnostics[0]
	assert.Equal(t, domain.DiagnosticCrossTypeDuplicate, d.Kind)
	assert.Contains(t, d.Message, "report.docx")
}

func TestScanService_FingerprintFailureExcludes(t *testing.T) {
	result, corpus := scanCorpus(t, 0,
		fakeDoc{rel: "a.docx", content: "A", text: "hello"},
		fakeDoc{rel: "b.docx", content: "B", text: "hello", fpErr: domain.ErrFingerprintFailed},
	)

	assert.Equal(t, 1, result.Documents)
	assert.Empty(t, result.Matches)
	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, domain.DiagnosticFingerprintFailed, result.Diagnostics[0].Kind)
	assert.Equal(t, []string{"a.docx"}, corpus.extracted)
}

func TestScanService_SortOrderAndInvariants(t *testing.T) {
	result, _ := scanCorpus(t, 0.5,
		fakeDoc{rel: "z.xlsx", content: "S", text: "budget 2024"},
		fakeDoc{rel: "y.xlsx", content: "S", text: "budget 2024"},
		fakeDoc{rel: "b/memo.docx", content: "M1", text: "meeting notes monday"},
		fakeDoc{rel: "a/memo.docx", content: "M2", text: "meeting notes tuesday"},
		fakeDoc{rel: "deck.pptx", content: "P1", text: "roadmap q3"},
		fakeDoc{rel: "deck2.pptx", content: "P2", text: "roadmap q4"},
	)

	require.Len(t, result.Matches, 3)
	assert.Equal(t, domain.DocumentTypeText, result.Matches[0].Type)
	assert.Equal(t, domain.DocumentTypeSlides, result.Matches[1].Type)
	assert.Equal(t, domain.DocumentTypeSpreadsheet, result.Matches[2].Type)
	assert.Equal(t, "a/memo.docx", result.Matches[0].RelPathA)
	assert.Equal(t, "y.xlsx", result.Matches[2].RelPathA)

	seen := make(map[[2]string]bool)
	for _, m := range result.Matches {
		assert.NotEqual(t, m.PathA, m.PathB)
		assert.Less(t, m.RelPathA, m.RelPathB)
		key := [2]string{m.PathA, m.PathB}
		assert.False(t, seen[key], "duplicate pair %v", key)
		seen[key] = true
		assert.Equal(t, m.Exact, m.Similarity == 1.0)
		assert.GreaterOrEqual(t, m.Similarity, 0.5)
	}
}

func TestScanService_MergesWalkDiagnostics(t *testing.T) {
	root := t.TempDir()
	corpus := newFakeCorpus(root, fakeDoc{rel: "a.docx", content: "A"})
	corpus.skipped = []domain.Diagnostic{{Kind: domain.DiagnosticWalkFailed, Path: filepath.Join(root, "locked")}}

	result, err := NewScanService(corpus, corpus, corpus, nil, 1).
		Scan(context.Background(), driving.ScanRequest{Root: root, Threshold: 0.85})
	require.NoError(t, err)

	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, domain.DiagnosticWalkFailed, result.Diagnostics[0].Kind)
}

func TestScanService_InvalidConfig(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "file.docx")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0600))

	corpus := newFakeCorpus(root)
	svc := NewScanService(corpus, corpus, corpus, nil, 1)

	tests := []struct {
		name string
		req  driving.ScanRequest
	}{
		{"negative threshold", driving.ScanRequest{Root: root, Threshold: -0.1}},
		{"threshold above one", driving.ScanRequest{Root: root, Threshold: 1.5}},
		{"NaN threshold", driving.ScanRequest{Root: root, Threshold: math.NaN()}},
		{"empty root", driving.ScanRequest{Threshold: 0.85}},
		{"missing root", driving.ScanRequest{Root: filepath.Join(root, "missing"), Threshold: 0.85}},
		{"root is a file", driving.ScanRequest{Root: file, Threshold: 0.85}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Scan(context.Background(), tt.req)
			assert.ErrorIs(t, err, domain.ErrInvalidConfig)
		})
	}
}

func TestScanService_Cancellation(t *testing.T) {
	root := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	corpus := newFakeCorpus(root,
		fakeDoc{rel: "a.docx", content: "A"},
		fakeDoc{rel: "b.docx", content: "B"},
		fakeDoc{rel: "c.docx", content: "C"},
	)
	corpus.onScan = func(string) { cancel() }

	result, err := NewScanService(corpus, corpus, corpus, nil, 1).
		Scan(ctx, driving.ScanRequest{Root: root, Threshold: 0.85})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, result)
}

func TestScanService_DiscoverError(t *testing.T) {
	root := t.TempDir()
	corpus := newFakeCorpus(root)
	corpus.walkErr = errors.New("permission denied")

	_, err := NewScanService(corpus, corpus, corpus, nil, 1).
		Scan(context.Background(), driving.ScanRequest{Root: root, Threshold: 0.85})
	assert.ErrorContains(t, err, "permission denied")
}

func TestScanService_BlockedByDelete(t *testing.T) {
	root := t.TempDir()
	guard := NewCorpusGuard()
	release, err := guard.BeginDelete(filepath.Join(root, "a.docx"))
	require.NoError(t, err)
	defer release()

	corpus := newFakeCorpus(root)
	_, err = NewScanService(corpus, corpus, corpus, guard, 1).
		Scan(context.Background(), driving.ScanRequest{Root: root, Threshold: 0.85})
	assert.ErrorIs(t, err, domain.ErrDeleteInProgress)
}

func TestScanService_Progress(t *testing.T) {
	root := t.TempDir()
	corpus := newFakeCorpus(root,
		fakeDoc{rel: "a.docx", content: "A", text: "one"},
		fakeDoc{rel: "b.docx", content: "B", text: "two"},
	)

	var (
		mu     sync.Mutex
		phases = make(map[driving.ScanPhase]int)
	)
	req := driving.ScanRequest{
		Root:      root,
		Threshold: 0.85,
		Progress: func(p driving.ScanProgress) {
			mu.Lock()
			defer mu.Unlock()
			phases[p.Phase]++
			assert.LessOrEqual(t, p.Done, p.Total)
		},
	}

	_, err := NewScanService(corpus, corpus, corpus, nil, 2).Scan(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 1, phases[driving.ScanPhaseDiscover])
	assert.Equal(t, 2, phases[driving.ScanPhaseAnalyse])
	assert.Equal(t, 2, phases[driving.ScanPhaseCompare])
}
