package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docdupe/internal/connectors/filesystem"
	"github.com/custodia-labs/docdupe/internal/core/domain"
	"github.com/custodia-labs/docdupe/internal/logger"
)

var (
	deleteYes    bool
	deleteReport string
	deletePair   int
	deleteSide   string
)

var deleteCmd = &cobra.Command{
	Use:   "delete [path...]",
	Short: "Delete reviewed duplicate documents",
	Long: `Delete documents from disk after reviewing a scan.

Give the paths to delete, or pick one side of a pair from a stored report:

  docdupe delete ./archive/memo-copy.docx
  docdupe delete --report latest --pair 2 --side b

A confirmation prompt is shown unless --yes is given. Deleted paths are
removed from every stored report. Deletes are refused while a scan of the
same directory is running.`,
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "delete without asking for confirmation")
	deleteCmd.Flags().StringVar(&deleteReport, "report", "", "report ID (or 'latest') to pick a pair from")
	deleteCmd.Flags().IntVar(&deletePair, "pair", 0, "1-based pair number as shown by 'report show'")
	deleteCmd.Flags().StringVar(&deleteSide, "side", "", "side of the pair to delete: a or b")
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	paths, err := deleteTargets(cmd, args)
	if err != nil {
		return err
	}

	if !deleteYes {
		for _, path := range paths {
			cmd.Printf("  %s\n", path)
		}
		ok, err := confirm(cmd, fmt.Sprintf("Delete %d file(s)?", len(paths)))
		if err != nil {
			return err
		}
		if !ok {
			cmd.Println("Aborted.")
			return nil
		}
	}

	result := documentService.DeleteBatch(cmd.Context(), paths)

	for _, path := range result.Deleted {
		purged := 0
		if reportService != nil {
			n, err := reportService.PurgePath(cmd.Context(), path)
			if err != nil {
				logger.Warn("could not update reports for %s: %v", path, err)
			}
			purged = n
		}
		cmd.Printf("Deleted %s", path)
		if purged > 0 {
			cmd.Printf(" (%d report records removed)", purged)
		}
		cmd.Println()
	}

	if result.OK() {
		return nil
	}

	errs := make([]error, len(result.Failures))
	for i, f := range result.Failures {
		errs[i] = f
	}
	return fmt.Errorf("%d of %d deletes failed: %w", len(result.Failures), len(paths), errors.Join(errs...))
}

// deleteTargets resolves the absolute paths to delete from args or from a
// stored report pair.
func deleteTargets(cmd *cobra.Command, args []string) ([]string, error) {
	if deleteReport == "" {
		if len(args) == 0 {
			return nil, fmt.Errorf("%w: give paths to delete or --report with --pair and --side", domain.ErrInvalidInput)
		}
		paths := make([]string, 0, len(args))
		for _, arg := range args {
			path, err := filesystem.ResolvePath(arg)
			if err != nil {
				return nil, err
			}
			paths = append(paths, path)
		}
		return paths, nil
	}

	if len(args) > 0 {
		return nil, fmt.Errorf("%w: paths cannot be combined with --report", domain.ErrInvalidInput)
	}
	if reportService == nil {
		return nil, errors.New("report service not configured")
	}

	report, err := loadReport(cmd, deleteReport)
	if err != nil {
		return nil, err
	}

	matches := report.Result.Matches
	if deletePair < 1 || deletePair > len(matches) {
		return nil, fmt.Errorf("%w: pair %d out of range 1..%d", domain.ErrInvalidInput, deletePair, len(matches))
	}
	m := matches[deletePair-1]

	switch strings.ToLower(deleteSide) {
	case "a":
		return []string{m.PathA}, nil
	case "b":
		return []string{m.PathB}, nil
	default:
		return nil, fmt.Errorf("%w: --side must be a or b", domain.ErrInvalidInput)
	}
}
