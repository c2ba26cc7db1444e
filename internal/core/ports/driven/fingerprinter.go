package driven

import (
	"context"

	"github.com/custodia-labs/docdupe/internal/core/domain"
)

// Fingerprinter computes the content digest of a file.
// Only the bytes are hashed; filesystem metadata never affects the result.
type Fingerprinter interface {
	// Fingerprint streams the file at path through the digest.
	Fingerprint(ctx context.Context, path string) (domain.Fingerprint, error)
}
