package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/docdupe/internal/adapters/driving/styles"
	"github.com/custodia-labs/docdupe/internal/core/domain"
)

// exportHeader is the column order of the tabular export shape.
var exportHeader = []string{"type", "pathA", "pathB", "similarityPercent"}

// exportRow is one match record in the tabular export shape.
type exportRow struct {
	Type              string  `json:"type" yaml:"type"`
	PathA             string  `json:"pathA" yaml:"pathA"`
	PathB             string  `json:"pathB" yaml:"pathB"`
	SimilarityPercent float64 `json:"similarityPercent" yaml:"similarityPercent"`
}

// scanOutput is the json/yaml shape of a scan or stored report.
type scanOutput struct {
	ReportID          string `json:"report_id,omitempty" yaml:"report_id,omitempty"`
	domain.ScanResult `yaml:",inline"`
}

func exportRows(result *domain.ScanResult) []exportRow {
	rows := make([]exportRow, len(result.Matches))
	for i, m := range result.Matches {
		rows[i] = exportRow{
			Type:              m.Type.String(),
			PathA:             m.PathA,
			PathB:             m.PathB,
			SimilarityPercent: m.SimilarityPercent(),
		}
	}
	return rows
}

// formatPercent renders a similarity as a one-decimal percentage without the sign.
func formatPercent(m domain.MatchRecord) string {
	return strconv.FormatFloat(m.SimilarityPercent(), 'f', 1, 64)
}

// writeExport writes the tabular export shape in the given format.
func writeExport(w io.Writer, format domain.OutputFormat, result *domain.ScanResult) error {
	switch format {
	case domain.OutputFormatCSV:
		return writeCSV(w, result)
	case domain.OutputFormatJSON:
		return writeJSON(w, exportRows(result))
	case domain.OutputFormatYAML:
		return writeYAML(w, exportRows(result))
	case domain.OutputFormatTable:
		return writeMatchTable(w, result)
	default:
		return fmt.Errorf("%w: unknown output format %q", domain.ErrInvalidConfig, format)
	}
}

// writeResult writes a full scan result in the given format.
func writeResult(w io.Writer, format domain.OutputFormat, result *domain.ScanResult, reportID string) error {
	switch format {
	case domain.OutputFormatTable:
		return writeResultTable(w, result, reportID)
	case domain.OutputFormatCSV:
		return writeCSV(w, result)
	case domain.OutputFormatJSON:
		return writeJSON(w, scanOutput{ReportID: reportID, ScanResult: *result})
	case domain.OutputFormatYAML:
		return writeYAML(w, scanOutput{ReportID: reportID, ScanResult: *result})
	default:
		return fmt.Errorf("%w: unknown output format %q", domain.ErrInvalidConfig, format)
	}
}

func writeCSV(w io.Writer, result *domain.ScanResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, m := range result.Matches {
		if err := cw.Write([]string{m.Type.String(), m.PathA, m.PathB, formatPercent(m)}); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal json: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to marshal yaml: %w", err)
	}
	return enc.Close()
}

// writeMatchTable renders the numbered match table. The numbers are the
// --pair indices accepted by delete.
func writeMatchTable(w io.Writer, result *domain.ScanResult) error {
	st := styles.DefaultStyles()

	if len(result.Matches) == 0 {
		_, err := fmt.Fprintln(w, st.Success.Render("No duplicates found."))
		return err
	}

	rows := make([][]string, len(result.Matches))
	for i, m := range result.Matches {
		rows[i] = []string{
			strconv.Itoa(i + 1),
			m.Type.String(),
			m.RelPathA,
			m.RelPathB,
			formatPercent(m) + "%",
		}
	}

	table := st.Table(
		[]string{"#", "Type", "Document A", "Document B", "Similarity"},
		rows,
		func(row, col int) *lipgloss.Style {
			if col != 4 {
				return nil
			}
			if result.Matches[row].Exact {
				return &st.Exact
			}
			return &st.Near
		},
	)
	_, err := fmt.Fprintln(w, table)
	return err
}

func writeResultTable(w io.Writer, result *domain.ScanResult, reportID string) error {
	st := styles.DefaultStyles()

	fmt.Fprintln(w, st.Title.Render(fmt.Sprintf("Scanned %d documents under %s", result.Documents, result.Root)))
	fmt.Fprintln(w, st.Muted.Render(fmt.Sprintf("threshold %s%%, %d exact, %d near duplicates",
		strconv.FormatFloat(math.Round(result.Threshold*1000)/10, 'f', -1, 64),
		result.ExactCount(), len(result.Matches)-result.ExactCount())))
	fmt.Fprintln(w)

	if err := writeMatchTable(w, result); err != nil {
		return err
	}

	if len(result.Diagnostics) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, st.Warning.Render(fmt.Sprintf("%d documents had problems:", len(result.Diagnostics))))
		for _, d := range result.Diagnostics {
			fmt.Fprintf(w, "  %s %s: %s\n", st.Muted.Render(string(d.Kind)), d.Path, d.Message)
		}
	}

	if reportID != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, st.Muted.Render("Report "+reportID))
		if len(result.Matches) > 0 {
			fmt.Fprintln(w, st.Muted.Render(fmt.Sprintf(
				"Delete one side with: docdupe delete --report %s --pair N --side a|b", reportID)))
		}
	}

	return nil
}

func writeSummaries(w io.Writer, format domain.OutputFormat, summaries []domain.ReportSummary) error {
	switch format {
	case domain.OutputFormatJSON:
		return writeJSON(w, summaries)
	case domain.OutputFormatYAML:
		return writeYAML(w, summaries)
	case domain.OutputFormatCSV:
		cw := csv.NewWriter(w)
		_ = cw.Write([]string{"id", "created", "root", "documents", "matches", "diagnostics"})
		for _, s := range summaries {
			_ = cw.Write([]string{
				s.ID,
				s.CreatedAt.Format(time.RFC3339),
				s.Root,
				strconv.Itoa(s.Documents),
				strconv.Itoa(s.Matches),
				strconv.Itoa(s.Diagnostics),
			})
		}
		cw.Flush()
		return cw.Error()
	}

	st := styles.DefaultStyles()
	if len(summaries) == 0 {
		_, err := fmt.Fprintln(w, st.Muted.Render("No reports stored."))
		return err
	}

	rows := make([][]string, len(summaries))
	for i, s := range summaries {
		rows[i] = []string{
			s.ID,
			s.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			s.Root,
			strconv.Itoa(s.Documents),
			strconv.Itoa(s.Matches),
			strconv.Itoa(s.Diagnostics),
		}
	}
	_, err := fmt.Fprintln(w, st.Table(
		[]string{"ID", "Created", "Root", "Documents", "Matches", "Problems"}, rows, nil))
	return err
}
