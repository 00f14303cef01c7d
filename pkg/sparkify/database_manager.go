package sparkify

import "context"

// DatabaseManager handles database lifecycle operations for the overwrite workflow.
type DatabaseManager interface {
	// Exists checks if a database exists.
	Exists(ctx context.Context, conn DBConnection, dbName string) (bool, error)

	// Create creates a new database.
	Create(ctx context.Context, conn DBConnection, dbName string) error

	// Drop drops the specified database.
	Drop(ctx context.Context, conn DBConnection, dbName string) error

	// TerminateConnections terminates all other connections to the database.
	TerminateConnections(ctx context.Context, conn DBConnection, dbName string) error
}
