package filesystem

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/docdupe/internal/core/domain"
)

// ResolvePath converts a user-supplied location to an absolute, cleaned
// local path. Handles file:// URIs and bare paths.
func ResolvePath(location string) (string, error) {
	location = strings.TrimPrefix(location, "file://")
	if location == "" {
		return "", fmt.Errorf("%w: empty path", domain.ErrInvalidInput)
	}

	abs, err := filepath.Abs(location)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", location, err)
	}
	return abs, nil
}

// ResolveRoot returns the absolute path of a scan root with every symbolic
// link resolved, so that a linked root is walked like its target.
func ResolveRoot(root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolve root: %w", err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("resolve root %s: %w", abs, err)
	}
	return resolved, nil
}
