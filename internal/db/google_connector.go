package db

import (
	"context"
	"fmt"
	"net"

	"cloud.google.com/go/cloudsqlconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vvka-141/sparkify/internal/retry"
	"github.com/vvka-141/sparkify/pkg/sparkify"
)

// GoogleCloudSQLConnector implements the Connector interface for Google Cloud SQL
// using IAM database authentication via the Cloud SQL Go Connector.
//
// The dialer outlives Connect; call Close after the returned pool is closed.
type GoogleCloudSQLConnector struct {
	config        *sparkify.ConnectionConfig
	instance      string
	logger        sparkify.Logger
	retryExecutor *retry.Executor
	dialer        *cloudsqlconn.Dialer
}

// NewGoogleCloudSQLConnector creates a connector for Google Cloud SQL IAM authentication.
// instance is the instance connection name in format: project:region:instance
func NewGoogleCloudSQLConnector(config *sparkify.ConnectionConfig, instance string, logger sparkify.Logger) *GoogleCloudSQLConnector {
	if config == nil {
		panic("config cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &GoogleCloudSQLConnector{
		config:        config,
		instance:      instance,
		logger:        logger,
		retryExecutor: retry.NewConnectExecutor(logger),
	}
}

// Connect establishes a connection pool through the Cloud SQL dialer, which
// handles IAM token exchange and TLS.
func (c *GoogleCloudSQLConnector) Connect(ctx context.Context) (*pgxpool.Pool, error) {
	dialer, err := cloudsqlconn.NewDialer(ctx, cloudsqlconn.WithIAMAuthN())
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Cloud SQL dialer: %w", sparkify.ErrConnectionFailed, err)
	}

	dsn := fmt.Sprintf(
		"host=%s user=%s dbname=%s sslmode=disable application_name=%s",
		c.instance,
		c.config.Username,
		c.config.Database,
		DefaultAppName,
	)

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		dialer.Close()
		return nil, fmt.Errorf("failed to parse connection config: %w", err)
	}
	poolConfig.ConnConfig.DialFunc = func(ctx context.Context, _, _ string) (net.Conn, error) {
		return dialer.Dial(ctx, c.instance)
	}
	configurePool(poolConfig, c.logger)

	var pool *pgxpool.Pool
	err = c.retryExecutor.Execute(ctx, func(ctx context.Context) error {
		p, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			return wrapConnectionError(err, c.instance, 0, c.config.Database)
		}
		if err := p.Ping(ctx); err != nil {
			p.Close()
			return wrapConnectionError(err, c.instance, 0, c.config.Database)
		}
		pool = p
		return nil
	})
	if err != nil {
		dialer.Close()
		return nil, fmt.Errorf("%w: %w", sparkify.ErrConnectionFailed, err)
	}

	c.dialer = dialer
	c.logger.Verbose("Connected to Cloud SQL instance %s/%s", c.instance, c.config.Database)
	return pool, nil
}

// Close releases the Cloud SQL dialer resources.
func (c *GoogleCloudSQLConnector) Close() error {
	if c.dialer != nil {
		err := c.dialer.Close()
		c.dialer = nil
		return err
	}
	return nil
}

var _ sparkify.Connector = (*GoogleCloudSQLConnector)(nil)
