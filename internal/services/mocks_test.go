package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vvka-141/sparkify/pkg/sparkify"
)

type mockConnector struct {
	pool *pgxpool.Pool
	err  error
}

func (m *mockConnector) Connect(_ context.Context) (*pgxpool.Pool, error) {
	return m.pool, m.err
}

type mockApprover struct {
	approved bool
	err      error
	called   bool
}

func (m *mockApprover) RequestApproval(_ context.Context, _ string) (bool, error) {
	m.called = true
	return m.approved, m.err
}

type mockFileScanner struct {
	files map[string][]string
	err   error
}

func (m *mockFileScanner) ScanDirectory(root string) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.files[root], nil
}

type mockDatabaseManager struct {
	exists    bool
	existsErr error
	createErr error
	dropErr   error
	calls     []string
}

func (m *mockDatabaseManager) Exists(_ context.Context, _ sparkify.DBConnection, dbName string) (bool, error) {
	m.calls = append(m.calls, "exists:"+dbName)
	return m.exists, m.existsErr
}

func (m *mockDatabaseManager) Create(_ context.Context, _ sparkify.DBConnection, dbName string) error {
	m.calls = append(m.calls, "create:"+dbName)
	return m.createErr
}

func (m *mockDatabaseManager) Drop(_ context.Context, _ sparkify.DBConnection, dbName string) error {
	m.calls = append(m.calls, "drop:"+dbName)
	return m.dropErr
}

func (m *mockDatabaseManager) TerminateConnections(_ context.Context, _ sparkify.DBConnection, dbName string) error {
	m.calls = append(m.calls, "terminate:"+dbName)
	return nil
}

type mockDBConnection struct{}

func (m *mockDBConnection) Exec(_ context.Context, _ string, _ ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (m *mockDBConnection) QueryRow(_ context.Context, _ string, _ ...any) sparkify.Row {
	return nil
}

func (m *mockDBConnection) Acquire(_ context.Context) (sparkify.PooledConnection, error) {
	return nil, errors.New("not supported")
}

// mockConn records statements and transaction outcomes in order.
type mockConn struct {
	mu       sync.Mutex
	events   []string
	execErr  error
	beginErr error
	released bool
}

func (c *mockConn) record(event string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
}

func (c *mockConn) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	c.record("exec")
	return pgconn.CommandTag{}, c.execErr
}

func (c *mockConn) Begin(_ context.Context) (sparkify.Transaction, error) {
	if c.beginErr != nil {
		return nil, c.beginErr
	}
	c.record("begin")
	return &mockTx{conn: c}, nil
}

func (c *mockConn) Release() {
	c.released = true
}

type mockTx struct {
	conn      *mockConn
	commitErr error
	closed    bool
}

func (t *mockTx) Exec(_ context.Context, _ string, _ ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (t *mockTx) QueryRow(_ context.Context, _ string, _ ...any) sparkify.Row {
	return nil
}

func (t *mockTx) Commit(_ context.Context) error {
	if t.closed {
		return pgx.ErrTxClosed
	}
	t.closed = true
	t.conn.record("commit")
	return t.commitErr
}

func (t *mockTx) Rollback(_ context.Context) error {
	if t.closed {
		return pgx.ErrTxClosed
	}
	t.closed = true
	t.conn.record("rollback")
	return nil
}

// mockFileLoader records every path it is asked to load and fails on failOn.
type mockFileLoader struct {
	loaded []string
	failOn string
	err    error
}

func (l *mockFileLoader) Load(_ context.Context, q sparkify.Querier, path string) error {
	if _, ok := q.(sparkify.Transaction); !ok {
		return fmt.Errorf("loader for %s was not given a transaction", path)
	}
	if path == l.failOn {
		return l.err
	}
	l.loaded = append(l.loaded, path)
	return nil
}
