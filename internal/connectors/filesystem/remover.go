package filesystem

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/custodia-labs/docdupe/internal/core/domain"
	"github.com/custodia-labs/docdupe/internal/core/ports/driven"
	"github.com/custodia-labs/docdupe/internal/logger"
)

// Ensure Remover implements the interface.
var _ driven.FileRemover = (*Remover)(nil)

// Remover deletes single regular files. Files held open by another process
// (EBUSY, ETXTBSY) are retried with exponential backoff.
type Remover struct {
	maxRetries      int
	initialInterval time.Duration
	remove          func(string) error
}

// NewRemover creates a remover that retries transient failures up to
// maxRetries times.
func NewRemover(maxRetries int) *Remover {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Remover{
		maxRetries:      maxRetries,
		initialInterval: 200 * time.Millisecond,
		remove:          os.Remove,
	}
}

// Remove deletes the regular file at the absolute path.
// Relative paths, directories and other non-regular files are rejected
// with domain.ErrInvalidInput. Removal failures wrap domain.ErrDeleteFailed.
func (r *Remover) Remove(ctx context.Context, path string) error {
	if !filepath.IsAbs(path) {
		return fmt.Errorf("%w: path must be absolute: %s", domain.ErrInvalidInput, path)
	}

	info, err := os.Lstat(path)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrDeleteFailed, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: not a regular file: %s", domain.ErrInvalidInput, path)
	}

	attempt := 0
	operation := func() error {
		attempt++
		err := r.remove(path)
		if err == nil {
			return nil
		}
		if isTransient(err) {
			logger.Debug("remove %s failed (attempt %d): %v", path, attempt, err)
			return err
		}
		return backoff.Permanent(err)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.initialInterval
	b.MaxInterval = 5 * time.Second
	b.MaxElapsedTime = 0

	err = backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(b, uint64(r.maxRetries)), ctx))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %w", domain.ErrDeleteFailed, err)
	}
	return nil
}

// isTransient reports whether a removal failure may clear on its own.
func isTransient(err error) bool {
	return errors.Is(err, syscall.EBUSY) || errors.Is(err, syscall.ETXTBSY)
}
