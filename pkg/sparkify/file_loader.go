package sparkify

import "context"

// FileLoader loads the records of one source file through q.
// Loaders never commit; the caller owns the transaction boundary.
type FileLoader interface {
	Load(ctx context.Context, q Querier, path string) error
}
