package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/vvka-141/sparkify/internal/db"
	"github.com/vvka-141/sparkify/pkg/sparkify"
)

type connectorFactory func(*sparkify.ConnectionConfig) (sparkify.Connector, error)

type managementDBConnFunc func(ctx context.Context, connConfig *sparkify.ConnectionConfig, dbName string) (sparkify.DBConnection, func(), error)

type targetConnFunc func(ctx context.Context, connConfig *sparkify.ConnectionConfig) (sparkify.Conn, func(), error)

// targetDatabase prepares the database a run writes to: it parses the
// connection string, creates or overwrites the database through the
// maintenance database, and opens the dedicated connection the run uses.
type targetDatabase struct {
	connectorFactory connectorFactory
	approver         sparkify.Approver
	logger           sparkify.Logger
	dbManager        sparkify.DatabaseManager
	mgmtConnector    managementDBConnFunc
	targetConnector  targetConnFunc
}

func newTargetDatabase(
	factory connectorFactory,
	approver sparkify.Approver,
	logger sparkify.Logger,
	dbManager sparkify.DatabaseManager,
) *targetDatabase {
	if factory == nil {
		panic("connectorFactory cannot be nil")
	}
	if approver == nil {
		panic("approver cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	if dbManager == nil {
		panic("dbManager cannot be nil")
	}

	t := &targetDatabase{
		connectorFactory: factory,
		approver:         approver,
		logger:           logger,
		dbManager:        dbManager,
	}
	t.mgmtConnector = t.defaultMgmtConnector
	t.targetConnector = t.defaultTargetConnector
	return t
}

// connectionConfig parses the connection string and applies the auth method
// and cloud credentials carried by cfg.
func (t *targetDatabase) connectionConfig(cfg sparkify.TargetConfig) (*sparkify.ConnectionConfig, error) {
	connConfig, err := db.ParseConnectionString(cfg.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	if connConfig.AppName == "" {
		connConfig.AppName = db.DefaultAppName
	}
	connConfig.Database = cfg.DatabaseName
	connConfig.AuthMethod = cfg.AuthMethod
	connConfig.AzureTenantID = cfg.AzureTenantID
	connConfig.AzureClientID = cfg.AzureClientID
	connConfig.AzureClientSecret = cfg.AzureClientSecret
	connConfig.AWSRegion = cfg.AWSRegion
	connConfig.GoogleInstance = cfg.GoogleInstance

	return connConfig, nil
}

func (t *targetDatabase) maintenanceDB(cfg sparkify.TargetConfig) string {
	if cfg.MaintenanceDatabase == "" {
		return sparkify.DefaultManagementDB
	}
	return cfg.MaintenanceDatabase
}

// prepare makes sure the target database exists. With Overwrite an existing
// database is dropped and recreated once the approver agrees.
func (t *targetDatabase) prepare(ctx context.Context, connConfig *sparkify.ConnectionConfig, cfg sparkify.TargetConfig) error {
	if cfg.Overwrite {
		if err := t.handleOverwrite(ctx, connConfig, cfg); err != nil {
			return fmt.Errorf("overwrite workflow failed: %w", err)
		}
		return nil
	}
	if err := t.ensureDatabaseExists(ctx, connConfig, cfg); err != nil {
		return fmt.Errorf("failed to ensure database exists: %w", err)
	}
	return nil
}

func validateOverwriteTarget(targetDB, managementDB string) error {
	if strings.EqualFold(targetDB, managementDB) {
		return fmt.Errorf(
			"cannot overwrite database %q: it is the management database sparkify connects to for server-level operations. "+
				"Load into a different target database: %w",
			targetDB, sparkify.ErrInvalidConfig,
		)
	}
	if sparkify.IsTemplateDatabase(targetDB) {
		return fmt.Errorf(
			"cannot overwrite database %q: PostgreSQL template databases cannot be dropped: %w",
			targetDB, sparkify.ErrInvalidConfig,
		)
	}
	return nil
}

// handleOverwrite handles the database drop and recreate workflow.
func (t *targetDatabase) handleOverwrite(ctx context.Context, connConfig *sparkify.ConnectionConfig, cfg sparkify.TargetConfig) error {
	managementDB := t.maintenanceDB(cfg)
	if err := validateOverwriteTarget(cfg.DatabaseName, managementDB); err != nil {
		return err
	}

	t.logger.Verbose("Connecting to management database '%s'", managementDB)
	dbConn, cleanup, err := t.mgmtConnector(ctx, connConfig, managementDB)
	if err != nil {
		return err
	}
	defer cleanup()

	exists, err := t.dbManager.Exists(ctx, dbConn, cfg.DatabaseName)
	if err != nil {
		return fmt.Errorf("failed to check if database exists: %w", err)
	}

	if !exists {
		t.logger.Info("Database '%s' does not exist. Creating...", cfg.DatabaseName)
		if err := t.dbManager.Create(ctx, dbConn, cfg.DatabaseName); err != nil {
			return fmt.Errorf("failed to create database: %w", err)
		}
		return nil
	}

	t.logger.Verbose("Database '%s' exists. Requesting approval for overwrite.", cfg.DatabaseName)
	approved, err := t.approver.RequestApproval(ctx, cfg.DatabaseName)
	if err != nil {
		return fmt.Errorf("approval request failed: %w", err)
	}
	if !approved {
		return sparkify.ErrApprovalDenied
	}

	t.logger.Verbose("Terminating all connections to database '%s'", cfg.DatabaseName)
	if err := t.dbManager.TerminateConnections(ctx, dbConn, cfg.DatabaseName); err != nil {
		return fmt.Errorf("failed to terminate connections: %w", err)
	}

	t.logger.Verbose("Dropping database '%s'", cfg.DatabaseName)
	if err := t.dbManager.Drop(ctx, dbConn, cfg.DatabaseName); err != nil {
		return fmt.Errorf("failed to drop database: %w", err)
	}

	t.logger.Verbose("Creating database '%s'", cfg.DatabaseName)
	if err := t.dbManager.Create(ctx, dbConn, cfg.DatabaseName); err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}

	t.logger.Info("✓ Database '%s' overwritten successfully", cfg.DatabaseName)
	return nil
}

// ensureDatabaseExists creates the target database if it is missing. An
// unreachable management database is not fatal here, unlike in handleOverwrite.
func (t *targetDatabase) ensureDatabaseExists(ctx context.Context, connConfig *sparkify.ConnectionConfig, cfg sparkify.TargetConfig) error {
	managementDB := t.maintenanceDB(cfg)
	if strings.EqualFold(cfg.DatabaseName, managementDB) {
		return nil
	}

	t.logger.Verbose("Connecting to management database '%s' to check if target database exists", managementDB)
	dbConn, cleanup, err := t.mgmtConnector(ctx, connConfig, managementDB)
	if err != nil {
		if ctx.Err() != nil {
			return err
		}
		// Accounts limited to the target database cannot reach the management
		// one; the target connection reports a missing database itself.
		t.logger.Info("Warning: skipping the existence check for '%s': %v", cfg.DatabaseName, err)
		return nil
	}
	defer cleanup()

	exists, err := t.dbManager.Exists(ctx, dbConn, cfg.DatabaseName)
	if err != nil {
		return fmt.Errorf("failed to check if database exists: %w", err)
	}

	if exists {
		t.logger.Verbose("Database '%s' already exists", cfg.DatabaseName)
		return nil
	}

	t.logger.Info("Database '%s' does not exist. Creating...", cfg.DatabaseName)
	if err := t.dbManager.Create(ctx, dbConn, cfg.DatabaseName); err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	t.logger.Verbose("✓ Database '%s' created successfully", cfg.DatabaseName)
	return nil
}

func (t *targetDatabase) openPool(ctx context.Context, connConfig *sparkify.ConnectionConfig) (*db.PoolAdapter, func(), error) {
	connector, err := t.connectorFactory(connConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create connector: %w", err)
	}

	pool, err := connector.Connect(ctx)
	if err != nil {
		return nil, nil, err
	}

	adapter := db.NewPoolAdapter(pool)
	cleanup := func() {
		adapter.Close()
		if closer, ok := connector.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				t.logger.Verbose("closing connector: %v", err)
			}
		}
	}
	return adapter, cleanup, nil
}

func (t *targetDatabase) defaultMgmtConnector(ctx context.Context, connConfig *sparkify.ConnectionConfig, dbName string) (sparkify.DBConnection, func(), error) {
	mgmtConfig := *connConfig
	mgmtConfig.Database = dbName

	pool, cleanup, err := t.openPool(ctx, &mgmtConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to management database: %w", err)
	}
	return pool, cleanup, nil
}

func (t *targetDatabase) defaultTargetConnector(ctx context.Context, connConfig *sparkify.ConnectionConfig) (sparkify.Conn, func(), error) {
	pool, cleanup, err := t.openPool(ctx, connConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database '%s': %w", connConfig.Database, err)
	}

	conn, err := pool.AcquireConn(ctx)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("%w: failed to acquire connection: %w", sparkify.ErrConnectionFailed, err)
	}

	return conn, func() {
		conn.Release()
		cleanup()
	}, nil
}
