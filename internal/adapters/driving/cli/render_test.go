package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/docdupe/internal/core/domain"
)

func sampleResult() *domain.ScanResult {
	return &domain.ScanResult{
		Root:      "/data",
		Threshold: 0.85,
		Documents: 4,
		Matches: []domain.MatchRecord{
			{
				Type: domain.DocumentTypeText, PathA: "/data/a.docx", PathB: "/data/b.docx",
				RelPathA: "a.docx", RelPathB: "b.docx", Similarity: 1, Exact: true,
			},
			{
				Type: domain.DocumentTypeSlides, PathA: "/data/deck, final.pptx", PathB: "/data/deck.pptx",
				RelPathA: "deck, final.pptx", RelPathB: "deck.pptx", Similarity: 22.0 / 23.0,
			},
		},
		Diagnostics: []domain.Diagnostic{
			{Kind: domain.DiagnosticExtractionFailed, Path: "/data/broken.xlsx", Message: "not a zip file"},
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, writeCSV(&buf, sampleResult()))

	assert.Equal(t, "type,pathA,pathB,similarityPercent\n"+
		"DOCX,/data/a.docx,/data/b.docx,100.0\n"+
		"PPTX,\"/data/deck, final.pptx\",/data/deck.pptx,95.7\n", buf.String())
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, writeCSV(&buf, &domain.ScanResult{}))

	assert.Equal(t, "type,pathA,pathB,similarityPercent\n", buf.String())
}

func TestWriteExport_JSON(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, writeExport(&buf, domain.OutputFormatJSON, sampleResult()))

	var rows []exportRow
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, exportRow{Type: "PPTX", PathA: "/data/deck, final.pptx", PathB: "/data/deck.pptx", SimilarityPercent: 95.7}, rows[1])
}

func TestWriteExport_YAML(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, writeExport(&buf, domain.OutputFormatYAML, sampleResult()))

	var rows []exportRow
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "DOCX", rows[0].Type)
	assert.InDelta(t, 100.0, rows[0].SimilarityPercent, 1e-9)
}

func TestWriteExport_UnknownFormat(t *testing.T) {
	err := writeExport(&bytes.Buffer{}, domain.OutputFormat("xml"), sampleResult())

	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestWriteResult_JSON(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, writeResult(&buf, domain.OutputFormatJSON, sampleResult(), "r-1"))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "r-1", got["report_id"])
	assert.Equal(t, "/data", got["root"])
	assert.Len(t, got["matches"], 2)
	assert.Len(t, got["diagnostics"], 1)
}

func TestWriteResult_JSONWithoutReport(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, writeResult(&buf, domain.OutputFormatJSON, sampleResult(), ""))

	assert.NotContains(t, buf.String(), "report_id")
}

func TestWriteResult_YAMLInline(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, writeResult(&buf, domain.OutputFormatYAML, sampleResult(), "r-1"))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "report_id: r-1\n"))
	assert.Contains(t, out, "\nroot: /data\n")
	assert.Contains(t, out, "rel_path_a: a.docx")
	assert.Contains(t, out, "kind: extraction_failed")
}

func TestWriteResult_Table(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, writeResult(&buf, domain.OutputFormatTable, sampleResult(), "r-1"))

	out := buf.String()
	assert.Contains(t, out, "Scanned 4 documents under /data")
	assert.Contains(t, out, "threshold 85%, 1 exact, 1 near duplicates")
	assert.Contains(t, out, "95.7%")
	assert.Contains(t, out, "1 documents had problems:")
	assert.Contains(t, out, "/data/broken.xlsx: not a zip file")
	assert.Contains(t, out, "--report r-1 --pair N")
}

func TestWriteSummaries_CSV(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var buf bytes.Buffer

	err := writeSummaries(&buf, domain.OutputFormatCSV, []domain.ReportSummary{
		{ID: "r-1", Root: "/data", Documents: 4, Matches: 2, Diagnostics: 1, CreatedAt: created},
	})

	require.NoError(t, err)
	assert.Equal(t, "id,created,root,documents,matches,diagnostics\n"+
		"r-1,2026-03-01T12:00:00Z,/data,4,2,1\n", buf.String())
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "100.0", formatPercent(domain.MatchRecord{Similarity: 1, Exact: true}))
	assert.Equal(t, "99.9", formatPercent(domain.MatchRecord{Similarity: 0.9999}))
	assert.Equal(t, "85.0", formatPercent(domain.MatchRecord{Similarity: 0.85}))
	assert.Equal(t, "95.7", formatPercent(domain.MatchRecord{Similarity: 22.0 / 23.0}))
}
