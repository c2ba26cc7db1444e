package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/docdupe/internal/core/domain"
	"github.com/custodia-labs/docdupe/internal/core/ports/driving"
	"github.com/custodia-labs/docdupe/internal/logger"
)

var (
	scanThreshold float64
	scanFormat    string
	scanNoSave    bool
)

var scanCmd = &cobra.Command{
	Use:   "scan [directory]",
	Short: "Scan a directory for duplicate documents",
	Long: `Scan a directory recursively for .docx, .pptx and .xlsx files.

Byte-identical files are reported as exact duplicates (100%). Files of the
same type whose normalised text similarity reaches the threshold are reported
as near duplicates. The directory defaults to the current one.

Every scan is stored as a report unless --no-save is given, so that pairs can
later be reviewed with 'docdupe report show' and removed with 'docdupe delete'.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().Float64VarP(&scanThreshold, "threshold", "t", domain.DefaultThreshold,
		"near-duplicate threshold in [0,1] (default from settings)")
	scanCmd.Flags().StringVarP(&scanFormat, "format", "f", "", "output format: table, csv, json, yaml")
	scanCmd.Flags().BoolVar(&scanNoSave, "no-save", false, "do not store the result as a report")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	if scanService == nil {
		return errScanNotConfigured
	}

	settings, err := currentSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	root := "."
	if len(args) == 1 {
		root = args[0]
	}

	threshold := settings.Scan.Threshold
	if cmd.Flags().Changed("threshold") {
		threshold = scanThreshold
	}

	format, err := outputFormat(scanFormat, settings)
	if err != nil {
		return err
	}

	progress := newProgressLine(cmd.ErrOrStderr())
	result, err := scanService.Scan(cmd.Context(), driving.ScanRequest{
		Root:      root,
		Threshold: threshold,
		Progress:  progress.Report,
	})
	progress.Clear()
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	var reportID string
	if !scanNoSave && reportService != nil {
		report, err := reportService.Save(cmd.Context(), result)
		if err != nil {
			logger.Warn("could not save report: %v", err)
		} else {
			reportID = report.ID
		}
	}

	return writeResult(cmd.OutOrStdout(), format, result, reportID)
}

// outputFormat resolves a --format flag against the configured default.
func outputFormat(flag string, settings *domain.AppSettings) (domain.OutputFormat, error) {
	if flag == "" {
		return settings.Output.Format, nil
	}
	format := domain.OutputFormat(flag)
	if !format.IsValid() {
		return "", fmt.Errorf("%w: unknown output format %q", domain.ErrInvalidConfig, flag)
	}
	return format, nil
}

// progressLine redraws a single status line on an interactive stderr.
// It is inert when stderr is not a terminal or quiet mode is on.
type progressLine struct {
	w       io.Writer
	enabled bool
	limit   rate.Sometimes
}

func newProgressLine(w io.Writer) *progressLine {
	return &progressLine{
		w:       w,
		enabled: !logger.IsQuiet() && isTerminal(w),
		limit:   rate.Sometimes{Interval: 100 * time.Millisecond},
	}
}

// Report is safe for concurrent use.
func (p *progressLine) Report(s driving.ScanProgress) {
	if !p.enabled {
		return
	}
	p.limit.Do(func() {
		fmt.Fprintf(p.w, "\r\033[K%-8s %d/%d", s.Phase, s.Done, s.Total)
	})
}

// Clear erases the status line.
func (p *progressLine) Clear() {
	if p.enabled {
		fmt.Fprint(p.w, "\r\033[K")
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
