package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docdupe/internal/core/domain"
)

const latestReport = "latest"

var (
	reportFormat string
	exportFormat string
	exportOutput string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Manage stored scan reports",
	Long: `List, show, export and delete the reports stored after each scan.

Wherever a report ID is expected, 'latest' selects the newest report.`,
}

var reportListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored reports, newest first",
	Args:  cobra.NoArgs,
	RunE:  runReportList,
}

var reportShowCmd = &cobra.Command{
	Use:   "show [report-id]",
	Short: "Show the match records of a report",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runReportShow,
}

var reportExportCmd = &cobra.Command{
	Use:   "export [report-id]",
	Short: "Export the match table of a report",
	Long: `Export the match records of a report with the columns
type, pathA, pathB and similarityPercent.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReportExport,
}

var reportDeleteCmd = &cobra.Command{
	Use:   "delete [report-id]",
	Short: "Delete a stored report",
	Args:  cobra.ExactArgs(1),
	RunE:  runReportDelete,
}

func init() {
	reportListCmd.Flags().StringVarP(&reportFormat, "format", "f", "", "output format: table, csv, json, yaml")
	reportShowCmd.Flags().StringVarP(&reportFormat, "format", "f", "", "output format: table, csv, json, yaml")
	reportExportCmd.Flags().StringVarP(&exportFormat, "format", "f", "csv", "export format: csv, json, yaml")
	reportExportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "write to file instead of stdout")

	reportCmd.AddCommand(reportListCmd)
	reportCmd.AddCommand(reportShowCmd)
	reportCmd.AddCommand(reportExportCmd)
	reportCmd.AddCommand(reportDeleteCmd)
	rootCmd.AddCommand(reportCmd)
}

func runReportList(cmd *cobra.Command, _ []string) error {
	if reportService == nil {
		return errors.New("report service not configured")
	}

	settings, err := currentSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	format, err := outputFormat(reportFormat, settings)
	if err != nil {
		return err
	}

	summaries, err := reportService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list reports: %w", err)
	}

	return writeSummaries(cmd.OutOrStdout(), format, summaries)
}

func runReportShow(cmd *cobra.Command, args []string) error {
	if reportService == nil {
		return errors.New("report service not configured")
	}

	settings, err := currentSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	format, err := outputFormat(reportFormat, settings)
	if err != nil {
		return err
	}

	report, err := loadReport(cmd, reportArg(args))
	if err != nil {
		return err
	}

	if format == domain.OutputFormatTable {
		cmd.Printf("Report %s, created %s\n\n", report.ID, report.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	}
	return writeResult(cmd.OutOrStdout(), format, &report.Result, report.ID)
}

func runReportExport(cmd *cobra.Command, args []string) error {
	if reportService == nil {
		return errors.New("report service not configured")
	}

	format := domain.OutputFormat(exportFormat)
	if format == domain.OutputFormatTable || !format.IsValid() {
		return fmt.Errorf("%w: unknown export format %q", domain.ErrInvalidConfig, exportFormat)
	}

	report, err := loadReport(cmd, reportArg(args))
	if err != nil {
		return err
	}

	if exportOutput == "" {
		return writeExport(cmd.OutOrStdout(), format, &report.Result)
	}

	var buf bytes.Buffer
	if err := writeExport(&buf, format, &report.Result); err != nil {
		return err
	}
	if err := os.WriteFile(exportOutput, buf.Bytes(), 0o644); err != nil { //nolint:gosec // G306: exports are meant to be shared
		return fmt.Errorf("failed to write export: %w", err)
	}
	cmd.PrintErrf("Exported %d records to %s\n", len(report.Result.Matches), exportOutput)
	return nil
}

func runReportDelete(cmd *cobra.Command, args []string) error {
	if reportService == nil {
		return errors.New("report service not configured")
	}

	id := args[0]
	if id == latestReport {
		report, err := loadReport(cmd, id)
		if err != nil {
			return err
		}
		id = report.ID
	}

	if err := reportService.Delete(cmd.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("report %s not found", id)
		}
		return fmt.Errorf("failed to delete report: %w", err)
	}

	cmd.Printf("Deleted report %s\n", id)
	return nil
}

func reportArg(args []string) string {
	if len(args) == 0 {
		return latestReport
	}
	return args[0]
}

// loadReport fetches a report by ID, or the newest for "latest".
func loadReport(cmd *cobra.Command, id string) (*domain.Report, error) {
	var (
		report *domain.Report
		err    error
	)
	if id == latestReport {
		report, err = reportService.Latest(cmd.Context())
	} else {
		report, err = reportService.Get(cmd.Context(), id)
	}

	if errors.Is(err, domain.ErrNotFound) {
		if id == latestReport {
			return nil, errors.New("no reports stored yet: run 'docdupe scan' first")
		}
		return nil, fmt.Errorf("report %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load report: %w", err)
	}
	return report, nil
}
