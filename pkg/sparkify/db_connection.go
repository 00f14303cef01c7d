package sparkify

import (
	"context"

	"github.com/jackc/pgx/v5/pgconn"
)

// DBConnection abstracts the maintenance connection used by DatabaseManager.
// This interface decouples the public API from pgx-specific types while providing
// the essential operations for database management.
type DBConnection interface {
	// Exec executes a query without returning any rows.
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)

	// QueryRow executes a query that is expected to return at most one row.
	// Always returns a non-nil Row. Errors are deferred until Row's Scan method is called.
	QueryRow(ctx context.Context, sql string, args ...any) Row

	// Acquire obtains a dedicated connection from the pool for statements
	// that cannot run inside a transaction (CREATE DATABASE, DROP DATABASE).
	// Caller must call Release() on the returned PooledConnection when done.
	Acquire(ctx context.Context) (PooledConnection, error)
}

// Row represents a single row returned by QueryRow.
// It has the same shape as pgx.Row, so a pgx.Row satisfies it directly.
type Row interface {
	// Scan reads the values from the row into dest values.
	// Returns pgx.ErrNoRows if no row was found.
	Scan(dest ...any) error
}

// PooledConnection represents a connection acquired from a pool.
// The caller must call Release() when done to return it to the pool.
type PooledConnection interface {
	// Exec executes a query on this specific connection.
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)

	// Release returns the connection to the pool.
	Release()
}

// Querier is the statement-executing handle a FileLoader writes through.
// Within a load it is always a transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) Row
}

// Transaction is a Querier that can be committed or rolled back.
// Rollback after a successful Commit is a no-op that returns pgx.ErrTxClosed.
type Transaction interface {
	Querier
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Conn is a single dedicated connection that loads run on.
// The whole run uses one Conn so progress is strictly sequential.
type Conn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)

	// Begin starts a transaction scoped to one source file.
	Begin(ctx context.Context) (Transaction, error)

	// Release returns the connection to its pool.
	Release()
}
