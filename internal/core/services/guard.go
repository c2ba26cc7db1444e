package services

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/docdupe/internal/core/domain"
)

// CorpusGuard keeps scans and deletes over the same directory tree apart.
// Scans of one root may overlap each other; a delete may not touch a path
// under any running scan, and a scan may not start over a running delete.
type CorpusGuard struct {
	mu      sync.Mutex
	scans   map[string]int
	deletes map[string]int
}

// NewCorpusGuard creates an idle guard.
func NewCorpusGuard() *CorpusGuard {
	return &CorpusGuard{
		scans:   make(map[string]int),
		deletes: make(map[string]int),
	}
}

// BeginScan registers a scan over root. The returned func must be called
// once the scan finishes.
func (g *CorpusGuard) BeginScan(root string) (func(), error) {
	root = canonicalRoot(root)

	g.mu.Lock()
	defer g.mu.Unlock()

	for path := range g.deletes {
		if within(root, path) {
			return nil, fmt.Errorf("%w: %s", domain.ErrDeleteInProgress, path)
		}
	}
	g.scans[root]++

	return g.releaser(g.scans, root), nil
}

// BeginDelete registers a delete of path. The returned func must be called
// once the file is gone or the attempt failed.
func (g *CorpusGuard) BeginDelete(path string) (func(), error) {
	path = canonicalPath(path)

	g.mu.Lock()
	defer g.mu.Unlock()

	for root := range g.scans {
		if within(root, path) {
			return nil, fmt.Errorf("%w: %s", domain.ErrScanInProgress, root)
		}
	}
	g.deletes[path]++

	return g.releaser(g.deletes, path), nil
}

// Scanning reports whether a running scan covers path.
func (g *CorpusGuard) Scanning(path string) bool {
	path = canonicalPath(path)

	g.mu.Lock()
	defer g.mu.Unlock()

	for root := range g.scans {
		if within(root, path) {
			return true
		}
	}
	return false
}

func (g *CorpusGuard) releaser(set map[string]int, key string) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			defer g.mu.Unlock()

			if set[key] <= 1 {
				delete(set, key)
				return
			}
			set[key]--
		})
	}
}

// canonicalRoot resolves every link in a directory path. Paths that cannot
// be resolved are only cleaned.
func canonicalRoot(root string) string {
	root = filepath.Clean(root)
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		return resolved
	}
	return root
}

// canonicalPath resolves the links of a file's parent directory. The file
// itself is left alone: it may already be gone, and removing a link removes
// the link, not its target.
func canonicalPath(path string) string {
	path = filepath.Clean(path)
	dir, base := filepath.Split(path)
	if resolved, err := filepath.EvalSymlinks(dir); err == nil {
		return filepath.Join(resolved, base)
	}
	return path
}

// within reports whether path is root or lies below it.
func within(root, path string) bool {
	if root == path {
		return true
	}
	prefix := root
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(path, prefix)
}
