package services

import (
	"context"
	"crypto/md5" //nolint:gosec // G501: test fingerprints mirror the production digest
	"path/filepath"
	"sort"
	"sync"

	"github.com/custodia-labs/docdupe/internal/core/domain"
	"github.com/custodia-labs/docdupe/internal/core/ports/driven"
)

// fakeDoc describes one document served by the fakes below.
type fakeDoc struct {
	rel     string
	content string // bytes that determine the fingerprint
	text    string // extracted text
	fpErr   error
	textErr error
}

// fakeCorpus implements DocumentSource, Fingerprinter and ExtractorRegistry
// over an in-memory set of documents.
type fakeCorpus struct {
	root    string
	docs    map[string]fakeDoc
	skipped []domain.Diagnostic
	walkErr error
	onScan  func(path string)

	mu        sync.Mutex
	extracted []string
}

var (
	_ driven.DocumentSource    = (*fakeCorpus)(nil)
	_ driven.Fingerprinter     = (*fakeCorpus)(nil)
	_ driven.ExtractorRegistry = (*fakeCorpus)(nil)
)

func newFakeCorpus(root string, docs ...fakeDoc) *fakeCorpus {
	c := &fakeCorpus{root: root, docs: make(map[string]fakeDoc)}
	for _, d := range docs {
		c.docs[filepath.Join(root, filepath.FromSlash(d.rel))] = d
	}
	return c
}

func (c *fakeCorpus) Discover(_ context.Context, _ string) (*driven.Discovery, error) {
	if c.walkErr != nil {
		return nil, c.walkErr
	}
	out := &driven.Discovery{Skipped: c.skipped}
	for path, d := range c.docs {
		t, _ := domain.TypeForPath(path)
		out.Documents = append(out.Documents, domain.Document{
			Path:    path,
			RelPath: d.rel,
			Type:    t,
			Size:    int64(len(d.content)),
		})
	}
	sort.Slice(out.Documents, func(i, j int) bool {
		return out.Documents[i].RelPath < out.Documents[j].RelPath
	})
	return out, nil
}

func (c *fakeCorpus) Fingerprint(ctx context.Context, path string) (domain.Fingerprint, error) {
	if err := ctx.Err(); err != nil {
		return domain.Fingerprint{}, err
	}
	if c.onScan != nil {
		c.onScan(path)
	}
	d := c.docs[path]
	if d.fpErr != nil {
		return domain.Fingerprint{}, d.fpErr
	}
	return md5.Sum([]byte(d.content)), nil //nolint:gosec // G401: content digest only
}

func (c *fakeCorpus) Extract(ctx context.Context, doc domain.Document) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	c.mu.Lock()
	c.extracted = append(c.extracted, doc.RelPath)
	c.mu.Unlock()

	d := c.docs[doc.Path]
	if d.textErr != nil {
		return "", d.textErr
	}
	return d.text, nil
}

func (c *fakeCorpus) Register(driven.Extractor) {}

func (c *fakeCorpus) SupportedTypes() []domain.DocumentType {
	return domain.DocumentTypes()
}

// fakeRemover records removals and fails for configured paths.
type fakeRemover struct {
	mu      sync.Mutex
	removed []string
	errs    map[string]error
	before  func(path string)
}

var _ driven.FileRemover = (*fakeRemover)(nil)

func (r *fakeRemover) Remove(_ context.Context, path string) error {
	if r.before != nil {
		r.before(path)
	}
	if err := r.errs[path]; err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removed = append(r.removed, path)
	return nil
}
