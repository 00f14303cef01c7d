package manager

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/vvka-141/sparkify/pkg/sparkify"
)

const (
	queryDatabaseExists       = "SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)"
	queryTerminateConnections = `
		SELECT pg_terminate_backend(pid)
		FROM pg_stat_activity
		WHERE datname = $1 AND pid <> pg_backend_pid()
	`
)

// Manager implements database lifecycle operations using the DBConnection abstraction.
// Stateless and safe for concurrent use; thread safety depends on the injected DBConnection.
type Manager struct{}

// New creates a new DatabaseManager instance.
func New() *Manager {
	return &Manager{}
}

// Exists checks if a database exists.
func (m *Manager) Exists(ctx context.Context, conn sparkify.DBConnection, dbName string) (bool, error) {
	var exists bool
	if err := conn.QueryRow(ctx, queryDatabaseExists, dbName).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check database existence: %w", err)
	}
	return exists, nil
}

// Create creates a UTF8 database cloned from template0, so the encoding does
// not depend on template1.
func (m *Manager) Create(ctx context.Context, conn sparkify.DBConnection, dbName string) error {
	query := fmt.Sprintf("CREATE DATABASE %s WITH ENCODING 'UTF8' TEMPLATE template0", pgx.Identifier{dbName}.Sanitize())
	if err := execDedicated(ctx, conn, query); err != nil {
		return fmt.Errorf("failed to create database %q: %w", dbName, err)
	}
	return nil
}

// Drop drops the specified database if it exists.
func (m *Manager) Drop(ctx context.Context, conn sparkify.DBConnection, dbName string) error {
	query := fmt.Sprintf("DROP DATABASE IF EXISTS %s", pgx.Identifier{dbName}.Sanitize())
	if err := execDedicated(ctx, conn, query); err != nil {
		return fmt.Errorf("failed to drop database %q: %w", dbName, err)
	}
	return nil
}

// TerminateConnections terminates all connections to the specified database.
func (m *Manager) TerminateConnections(ctx context.Context, conn sparkify.DBConnection, dbName string) error {
	if _, err := conn.Exec(ctx, queryTerminateConnections, dbName); err != nil {
		return fmt.Errorf("failed to terminate connections to database %q: %w", dbName, err)
	}
	return nil
}

// execDedicated runs a statement that PostgreSQL refuses inside a transaction
// block on its own connection.
func execDedicated(ctx context.Context, conn sparkify.DBConnection, query string) error {
	pooledConn, err := conn.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer pooledConn.Release()

	_, err = pooledConn.Exec(ctx, query)
	return err
}

var _ sparkify.DatabaseManager = (*Manager)(nil)
