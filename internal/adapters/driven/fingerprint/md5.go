// Package fingerprint computes content digests of files on disk.
package fingerprint

import (
	"context"
	"crypto/md5" //nolint:gosec // content identity, not security
	"fmt"
	"io"
	"os"

	"github.com/custodia-labs/docdupe/internal/core/domain"
	"github.com/custodia-labs/docdupe/internal/core/ports/driven"
)

// Ensure MD5 implements the interface.
var _ driven.Fingerprinter = (*MD5)(nil)

// chunkSize is the read size between context checks.
const chunkSize = 64 << 10

// MD5 fingerprints files by streaming their bytes through MD5.
type MD5 struct{}

// NewMD5 creates an MD5 fingerprinter.
func NewMD5() *MD5 {
	return &MD5{}
}

// Fingerprint streams the file at path through MD5.
// Read failures wrap domain.ErrFingerprintFailed.
func (m *MD5) Fingerprint(ctx context.Context, path string) (domain.Fingerprint, error) {
	var fp domain.Fingerprint

	f, err := os.Open(path)
	if err != nil {
		return fp, fmt.Errorf("%w: %w", domain.ErrFingerprintFailed, err)
	}
	defer f.Close()

	h := md5.New() //nolint:gosec // content identity, not security
	buf := make([]byte, chunkSize)
	if _, err := io.CopyBuffer(h, &contextReader{ctx: ctx, r: f}, buf); err != nil {
		if ctx.Err() != nil {
			return fp, ctx.Err()
		}
		return fp, fmt.Errorf("%w: %w", domain.ErrFingerprintFailed, err)
	}

	copy(fp[:], h.Sum(nil))
	return fp, nil
}

// contextReader stops reading once ctx is done.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
