// Package schema owns the star-schema DDL and the statement texts the loaders run.
package schema

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

//go:embed schema.sql
var schemaSQL string

// Tables lists the star-schema tables, fact table first.
var Tables = []string{"songplays", "users", "songs", "artists", "time"}

// Execer is the subset of a connection the schema operations need.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// DDL returns the embedded CREATE statements.
func DDL() string { return schemaSQL }

// Create creates any missing tables and indexes.
func Create(ctx context.Context, conn Execer) error {
	if _, err := conn.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Drop drops every star-schema table that exists.
func Drop(ctx context.Context, conn Execer) error {
	stmt := "DROP TABLE IF EXISTS " + strings.Join(Tables, ", ")
	if _, err := conn.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("failed to drop schema: %w", err)
	}
	return nil
}

// Reset drops and recreates the schema, leaving empty tables.
func Reset(ctx context.Context, conn Execer) error {
	if err := Drop(ctx, conn); err != nil {
		return err
	}
	return Create(ctx, conn)
}
