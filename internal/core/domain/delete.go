package domain

// DeleteFailure records one path that could not be deleted.
type DeleteFailure struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (f DeleteFailure) Error() string {
	return f.Path + ": " + f.Err.Error()
}

// Unwrap exposes the underlying cause.
func (f DeleteFailure) Unwrap() error {
	return f.Err
}

// BatchDeleteResult is the consolidated outcome of a best-effort batch delete.
type BatchDeleteResult struct {
	// Deleted lists paths removed successfully, in request order.
	Deleted []string

	// Failures lists every path that could not be removed, in request order.
	Failures []DeleteFailure
}

// OK returns true if every requested path was deleted.
func (r *BatchDeleteResult) OK() bool {
	return len(r.Failures) == 0
}
