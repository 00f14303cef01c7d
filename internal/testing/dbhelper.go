// Package testing holds the helpers shared by integration tests: a test
// database server, service constructors and pools with notice capture.
package testing

import (
	"context"
	"io"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vvka-141/sparkify/internal/db"
	"github.com/vvka-141/sparkify/internal/db/manager"
	"github.com/vvka-141/sparkify/internal/files/filesystem"
	"github.com/vvka-141/sparkify/internal/files/loader"
	"github.com/vvka-141/sparkify/internal/files/scanner"
	"github.com/vvka-141/sparkify/internal/logging"
	"github.com/vvka-141/sparkify/internal/services"
	"github.com/vvka-141/sparkify/internal/testinfra"
	"github.com/vvka-141/sparkify/pkg/sparkify"
)

// TestConnEnvVar names the variable that points tests at an existing server.
const TestConnEnvVar = "SPARKIFY_TEST_CONN"

var (
	testContainerOnce sync.Once
	testContainerConn string
	testContainerErr  error
)

func getOrStartTestContainer() (string, error) {
	testContainerOnce.Do(func() {
		ctx := context.Background()
		container, err := testinfra.StartPostgres(ctx)
		if err != nil {
			testContainerErr = err
			return
		}
		testContainerConn = container.ConnString
	})
	return testContainerConn, testContainerErr
}

// GetTestConnectionString returns the test database connection string.
// Priority: SPARKIFY_TEST_CONN env var > auto-started testcontainer > skip test.
func GetTestConnectionString(t *testing.T) string {
	t.Helper()

	if connString := os.Getenv(TestConnEnvVar); connString != "" {
		return connString
	}

	connString, err := getOrStartTestContainer()
	if err != nil {
		t.Skipf("%s not set and Docker unavailable: %v", TestConnEnvVar, err)
	}
	return connString
}

// SkipIfShort skips the test if running in short mode (-short flag).
func SkipIfShort(t *testing.T) {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
}

// RequireDatabase combines SkipIfShort and GetTestConnectionString for convenience.
// Returns the test connection string if available, otherwise skips the test.
func RequireDatabase(t *testing.T) string {
	t.Helper()

	SkipIfShort(t)
	return GetTestConnectionString(t)
}

// UniqueDBName returns a database name no other test uses.
func UniqueDBName(prefix string) string {
	return prefix + "_" + strings.ReplaceAll(uuid.NewString()[:13], "-", "")
}

// NewTestLoadService creates a LoadService reading from fsProvider. It uses the
// standard connector factory and a force-approving test approver; progress
// output is discarded.
func NewTestLoadService(t *testing.T, fsProvider filesystem.FileSystemProvider) *services.LoadService {
	t.Helper()

	logger := logging.NewNullLogger()
	loaders := map[sparkify.SourceKind]sparkify.FileLoader{
		sparkify.SourceKindSong: loader.NewSongLoader(fsProvider, logger),
		sparkify.SourceKindLog:  loader.NewLogLoader(fsProvider, logger),
	}

	return services.NewLoadService(
		db.ConnectorFactory(logger),
		&ForceApprover{},
		logger,
		scanner.NewScannerWithFS(fsProvider),
		loaders,
		manager.New(),
	).WithOutput(io.Discard)
}

// NewTestSchemaService creates a SchemaService wired like NewTestLoadService.
func NewTestSchemaService(t *testing.T) *services.SchemaService {
	t.Helper()

	logger := logging.NewNullLogger()
	return services.NewSchemaService(db.ConnectorFactory(logger), &ForceApprover{}, logger, manager.New())
}

// ForceApprover is a test approver that always approves overwrite requests.
type ForceApprover struct{}

// RequestApproval always returns true (auto-approves).
func (a *ForceApprover) RequestApproval(ctx context.Context, dbName string) (bool, error) {
	return true, nil
}

// CreateTestDB creates a test database with the given name.
// Returns a cleanup function that should be called with t.Cleanup().
func CreateTestDB(t *testing.T, connString, dbName string) func() {
	t.Helper()

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		t.Fatalf("Failed to connect for test DB creation: %v", err)
	}

	_, err = pool.Exec(ctx, "CREATE DATABASE "+pgx.Identifier{dbName}.Sanitize())
	pool.Close()
	if err != nil {
		t.Fatalf("Failed to create test database %s: %v", dbName, err)
	}
	t.Logf("✓ Created test database %s", dbName)

	return func() {
		CleanupTestDB(t, connString, dbName)
	}
}

// CleanupTestDB drops the test database.
// Safe to call multiple times (uses DROP DATABASE IF EXISTS).
func CleanupTestDB(t *testing.T, connString, dbName string) {
	t.Helper()

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		t.Logf("Warning: Failed to connect for cleanup: %v", err)
		return
	}
	defer pool.Close()

	terminateQuery := `
		SELECT pg_terminate_backend(pid)
		FROM pg_stat_activity
		WHERE datname = $1 AND pid <> pg_backend_pid()
	`
	if _, err := pool.Exec(ctx, terminateQuery, dbName); err != nil {
		t.Logf("Warning: Failed to terminate connections to %s: %v", dbName, err)
	}

	if _, err := pool.Exec(ctx, "DROP DATABASE IF EXISTS "+pgx.Identifier{dbName}.Sanitize()); err != nil {
		t.Logf("Warning: Failed to drop database %s: %v", dbName, err)
	} else {
		t.Logf("✓ Cleaned up database %s", dbName)
	}
}

// GetTestPool creates a connection pool to the specified database for testing.
// The pool is automatically closed when the test completes.
func GetTestPool(t *testing.T, connString, dbName string) *pgxpool.Pool {
	t.Helper()

	config, err := db.ParseConnectionString(connString)
	if err != nil {
		t.Fatalf("Failed to parse connection string: %v", err)
	}
	config.Database = dbName

	pool, err := pgxpool.New(context.Background(), db.BuildConnectionString(config))
	if err != nil {
		t.Fatalf("Failed to create connection pool: %v", err)
	}
	t.Cleanup(pool.Close)

	return pool
}

// CountRows returns SELECT count(*) of table, failing the test on error.
func CountRows(t *testing.T, pool *pgxpool.Pool, table string) int {
	t.Helper()

	var n int
	err := pool.QueryRow(context.Background(), "SELECT count(*) FROM "+pgx.Identifier{table}.Sanitize()).Scan(&n)
	if err != nil {
		t.Fatalf("Failed to count rows of %s: %v", table, err)
	}
	return n
}
