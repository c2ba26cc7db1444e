// Package cli provides the cobra command tree for docdupe.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docdupe/internal/core/domain"
	"github.com/custodia-labs/docdupe/internal/core/ports/driving"
	"github.com/custodia-labs/docdupe/internal/logger"
)

// version is set at build time.
var version = "dev"

// Services wired by the composition root.
var (
	scanService     driving.ScanService
	documentService driving.DocumentService
	reportService   driving.ReportService
	settingsService driving.SettingsService
)

var (
	verbose bool
	quiet   bool
)

var errScanNotConfigured = errors.New("scan service not configured")

var rootCmd = &cobra.Command{
	Use:   "docdupe",
	Short: "Find duplicate and near-duplicate office documents",
	Long: `docdupe scans a directory tree for .docx, .pptx and .xlsx files and reports
pairs that are byte-identical or whose text is nearly the same.

Exact duplicates are found by content hash. Near duplicates are found by
comparing the normalised text of documents of the same type against a
similarity threshold (default 85%).`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
		logger.SetQuiet(quiet)
		logger.SetOutput(cmd.ErrOrStderr())
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress warnings and progress")
}

// Services holds the driving ports the commands call.
type Services struct {
	Scan     driving.ScanService
	Document driving.DocumentService
	Report   driving.ReportService
	Settings driving.SettingsService
}

// SetServices installs the services used by every command.
func SetServices(s Services) {
	scanService = s.Scan
	documentService = s.Document
	reportService = s.Report
	settingsService = s.Settings
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// currentSettings returns the stored settings, or defaults when no settings
// service is configured.
func currentSettings() (*domain.AppSettings, error) {
	if settingsService == nil {
		defaults := domain.DefaultAppSettings()
		return &defaults, nil
	}
	return settingsService.Get()
}
