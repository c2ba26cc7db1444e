package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/custodia-labs/docdupe/internal/core/domain"
	"github.com/custodia-labs/docdupe/internal/core/ports/driven"
	"github.com/custodia-labs/docdupe/internal/logger"
)

// Ensure Walker implements the interface.
var _ driven.DocumentSource = (*Walker)(nil)

// Walker enumerates supported office documents below a root directory.
// A symlinked root is resolved first. Below the root, only regular files are
// returned: links to documents are reported as symlink_skipped and links to
// directories are not descended into.
type Walker struct{}

// NewWalker creates a filesystem walker.
func NewWalker() *Walker {
	return &Walker{}
}

// Discover walks root recursively and returns supported documents sorted by
// relative path. Entries that cannot be read are reported as walk_failed
// diagnostics and skipped. An unreadable root is an error. Document paths
// are built on the resolved root.
func (w *Walker) Discover(ctx context.Context, root string) (*driven.Discovery, error) {
	root, err := ResolveRoot(root)
	if err != nil {
		return nil, err
	}

	result := &driven.Discovery{}
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		if walkErr != nil {
			if path == root {
				return walkErr
			}
			logger.Debug("skipping %s: %v", path, walkErr)
			result.Skipped = append(result.Skipped, domain.Diagnostic{
				Kind:    domain.DiagnosticWalkFailed,
				Path:    path,
				Message: walkErr.Error(),
			})
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}

		docType, ok := domain.TypeForPath(path)
		if !ok {
			return nil
		}

		if d.Type()&fs.ModeSymlink != 0 {
			logger.Debug("skipping symlink %s", path)
			result.Skipped = append(result.Skipped, domain.Diagnostic{
				Kind:    domain.DiagnosticSymlinkSkipped,
				Path:    path,
				Message: "symbolic link not followed",
			})
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			result.Skipped = append(result.Skipped, domain.Diagnostic{
				Kind:    domain.DiagnosticWalkFailed,
				Path:    path,
				Message: err.Error(),
			})
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		result.Documents = append(result.Documents, domain.Document{
			Path:    path,
			RelPath: filepath.ToSlash(rel),
			Type:    docType,
			Size:    info.Size(),
		})
		return nil
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	sort.Slice(result.Documents, func(i, j int) bool {
		return result.Documents[i].RelPath < result.Documents[j].RelPath
	})
	return result, nil
}
