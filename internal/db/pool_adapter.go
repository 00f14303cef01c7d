package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vvka-141/sparkify/pkg/sparkify"
)

// PoolAdapter adapts *pgxpool.Pool to implement the sparkify.DBConnection interface.
// It keeps pgx pool types out of the service layer.
//
// Thread-Safety: Safe for concurrent use (pgxpool.Pool is thread-safe).
type PoolAdapter struct {
	pool *pgxpool.Pool
}

// NewPoolAdapter creates a new PoolAdapter wrapping the given pool.
func NewPoolAdapter(pool *pgxpool.Pool) *PoolAdapter {
	return &PoolAdapter{pool: pool}
}

// Exec executes a query without returning any rows.
func (p *PoolAdapter) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return p.pool.Exec(ctx, sql, args...)
}

// QueryRow executes a query that is expected to return at most one row.
func (p *PoolAdapter) QueryRow(ctx context.Context, sql string, args ...any) sparkify.Row {
	return p.pool.QueryRow(ctx, sql, args...)
}

// Acquire obtains a dedicated connection from the pool.
func (p *PoolAdapter) Acquire(ctx context.Context) (sparkify.PooledConnection, error) {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// AcquireConn obtains the dedicated connection a load runs on.
func (p *PoolAdapter) AcquireConn(ctx context.Context) (sparkify.Conn, error) {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return &ConnAdapter{conn: conn}, nil
}

// Close closes every connection in the pool.
func (p *PoolAdapter) Close() {
	p.pool.Close()
}

// ConnAdapter adapts *pgxpool.Conn to implement sparkify.Conn.
type ConnAdapter struct {
	conn *pgxpool.Conn
}

// Exec executes a statement outside any transaction.
func (c *ConnAdapter) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return c.conn.Exec(ctx, sql, args...)
}

// Begin starts a transaction on this connection.
func (c *ConnAdapter) Begin(ctx context.Context) (sparkify.Transaction, error) {
	tx, err := c.conn.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &txAdapter{tx: tx}, nil
}

// Release returns the connection to the pool.
func (c *ConnAdapter) Release() {
	c.conn.Release()
}

// txAdapter narrows pgx.Tx to sparkify.Transaction.
type txAdapter struct {
	tx pgx.Tx
}

func (t *txAdapter) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return t.tx.Exec(ctx, sql, args...)
}

func (t *txAdapter) QueryRow(ctx context.Context, sql string, args ...any) sparkify.Row {
	return t.tx.QueryRow(ctx, sql, args...)
}

func (t *txAdapter) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t *txAdapter) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

// Compile-time interface checks
var (
	_ sparkify.DBConnection     = (*PoolAdapter)(nil)
	_ sparkify.PooledConnection = (*pgxpool.Conn)(nil)
	_ sparkify.Conn             = (*ConnAdapter)(nil)
	_ sparkify.Transaction      = (*txAdapter)(nil)
)
