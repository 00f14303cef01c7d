package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vvka-141/sparkify/internal/retry"
	"github.com/vvka-141/sparkify/pkg/sparkify"
)

// Connection pool configuration constants
const (
	// DefaultMaxConns is small: a load runs on one dedicated connection and the
	// maintenance workflow needs at most one more.
	DefaultMaxConns = 2

	// DefaultMinConns maintains at least one connection in the pool.
	DefaultMinConns = 1

	// DefaultMaxConnIdleTime keeps the connection alive across long loads.
	DefaultMaxConnIdleTime = 30 * time.Minute

	// DefaultAppName is reported in pg_stat_activity.
	DefaultAppName = "sparkify"
)

func configurePool(poolConfig *pgxpool.Config, logger sparkify.Logger) {
	poolConfig.MaxConns = DefaultMaxConns
	poolConfig.MinConns = DefaultMinConns
	poolConfig.MaxConnIdleTime = DefaultMaxConnIdleTime
	poolConfig.ConnConfig.OnNotice = func(_ *pgconn.PgConn, notice *pgconn.Notice) {
		logger.Verbose("%s: %s", notice.Severity, notice.Message)
	}
}

// StandardConnector implements the Connector interface for standard
// username/password authentication with automatic retry on transient failures.
type StandardConnector struct {
	config        *sparkify.ConnectionConfig
	logger        sparkify.Logger
	retryExecutor *retry.Executor
}

// NewStandardConnector creates a new StandardConnector with the given configuration.
// Panics if config or logger is nil.
func NewStandardConnector(config *sparkify.ConnectionConfig, logger sparkify.Logger) *StandardConnector {
	if config == nil {
		panic("config cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &StandardConnector{
		config:        config,
		logger:        logger,
		retryExecutor: retry.NewConnectExecutor(logger),
	}
}

// Connect establishes a connection pool using standard authentication with automatic retry.
func (c *StandardConnector) Connect(ctx context.Context) (*pgxpool.Pool, error) {
	return connectWithRetry(ctx, c.retryExecutor, c.config, c.logger, func(context.Context) (string, error) {
		return c.config.Password, nil
	})
}

// connectWithRetry opens and pings a pool, asking password for the secret on
// every attempt so short-lived tokens are refreshed between retries.
func connectWithRetry(
	ctx context.Context,
	executor *retry.Executor,
	config *sparkify.ConnectionConfig,
	logger sparkify.Logger,
	password func(context.Context) (string, error),
) (*pgxpool.Pool, error) {
	var pool *pgxpool.Pool

	err := executor.Execute(ctx, func(ctx context.Context) error {
		secret, err := password(ctx)
		if err != nil {
			return err
		}

		attemptConfig := *config
		attemptConfig.Password = secret
		if attemptConfig.AppName == "" {
			attemptConfig.AppName = DefaultAppName
		}

		poolConfig, err := pgxpool.ParseConfig(BuildConnectionString(&attemptConfig))
		if err != nil {
			return fmt.Errorf("failed to parse connection config: %w", err)
		}
		configurePool(poolConfig, logger)

		p, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			return wrapConnectionError(err, config.Host, config.Port, config.Database)
		}
		if err := p.Ping(ctx); err != nil {
			p.Close()
			return wrapConnectionError(err, config.Host, config.Port, config.Database)
		}

		pool = p
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", sparkify.ErrConnectionFailed, err)
	}

	logger.Verbose("Connected to %s:%d/%s", config.Host, config.Port, config.Database)
	return pool, nil
}

// NewConnector is a factory function that creates the appropriate Connector
// based on the ConnectionConfig's AuthMethod.
func NewConnector(config *sparkify.ConnectionConfig, logger sparkify.Logger) (sparkify.Connector, error) {
	switch config.AuthMethod {
	case sparkify.AuthMethodStandard:
		return NewStandardConnector(config, logger), nil
	case sparkify.AuthMethodAWSIAM:
		return newAWSConnector(config, logger)
	case sparkify.AuthMethodGoogleIAM:
		return newGoogleConnector(config, logger)
	case sparkify.AuthMethodAzureEntraID:
		return newAzureConnector(config, logger)
	default:
		return nil, fmt.Errorf("unsupported auth method %v: %w", config.AuthMethod, sparkify.ErrUnsupportedAuthMethod)
	}
}

// ConnectorFactory binds logger into NewConnector, giving the signature the
// services expect.
func ConnectorFactory(logger sparkify.Logger) func(*sparkify.ConnectionConfig) (sparkify.Connector, error) {
	return func(config *sparkify.ConnectionConfig) (sparkify.Connector, error) {
		return NewConnector(config, logger)
	}
}

// wrapConnectionError wraps raw pgx connection errors with actionable guidance.
func wrapConnectionError(err error, host string, port int, database string) error {
	errStr := strings.ToLower(err.Error())
	addr := fmt.Sprintf("%s:%d", host, port)

	switch {
	case strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "actively refused"):
		return fmt.Errorf(`connection refused to %s

Possible causes:
  - PostgreSQL is not running (check: pg_isready -h %s -p %d)
  - Wrong host or port (see --host, --port, $PGHOST, $PGPORT)

Original error: %w`, addr, host, port, err)

	case strings.Contains(errStr, "no such host"):
		return fmt.Errorf(`cannot resolve host "%s"

Possible causes:
  - Hostname is misspelled
  - DNS is not configured or reachable

Original error: %w`, host, err)

	case strings.Contains(errStr, "password authentication failed"):
		return fmt.Errorf(`password authentication failed for database "%s"

Possible causes:
  - Wrong password (check $PGPASSWORD or the connection string)
  - Wrong username (check --username or $PGUSER)

Original error: %w`, database, err)

	case strings.Contains(errStr, "does not exist"):
		return fmt.Errorf(`database "%s" does not exist

Run sparkify against the server's maintenance database so it can create it,
or use --overwrite to drop and recreate it.

Original error: %w`, database, err)

	case strings.Contains(errStr, "timeout") || strings.Contains(errStr, "timed out"):
		return fmt.Errorf(`connection timed out to %s

Possible causes:
  - Server is overloaded or unresponsive
  - Firewall silently dropping packets

Original error: %w`, addr, err)

	case strings.Contains(errStr, "ssl") || strings.Contains(errStr, "tls"):
		return fmt.Errorf(`SSL/TLS connection error

Possible causes:
  - Server requires SSL but --sslmode is wrong
  - Certificate verification failed (try --sslmode=require)

Original error: %w`, err)

	case strings.Contains(errStr, "too many connections"):
		return fmt.Errorf(`too many connections to database "%s"

Try: SELECT pg_terminate_backend(pid) FROM pg_stat_activity WHERE datname = '%s';

Original error: %w`, database, database, err)

	default:
		return fmt.Errorf("failed to connect to database: %w", err)
	}
}

// newAWSConnector signs RDS IAM tokens in place of a password.
func newAWSConnector(config *sparkify.ConnectionConfig, logger sparkify.Logger) (sparkify.Connector, error) {
	tokenProvider, err := NewRDSTokenProvider(config)
	if err != nil {
		return nil, err
	}
	return NewTokenBasedConnector(config, tokenProvider, "AWS IAM", logger), nil
}

// newGoogleConnector creates a GoogleCloudSQLConnector for Google Cloud SQL IAM authentication.
func newGoogleConnector(config *sparkify.ConnectionConfig, logger sparkify.Logger) (sparkify.Connector, error) {
	if config.GoogleInstance == "" {
		return nil, fmt.Errorf("Google Cloud SQL IAM auth requires --google-instance (project:region:instance): %w", sparkify.ErrInvalidConfig)
	}
	if config.Username == "" {
		return nil, fmt.Errorf("Google Cloud SQL IAM auth requires a username: %w", sparkify.ErrInvalidConfig)
	}

	return NewGoogleCloudSQLConnector(config, config.GoogleInstance, logger), nil
}

// newAzureConnector uses Entra ID access tokens in place of a password.
func newAzureConnector(config *sparkify.ConnectionConfig, logger sparkify.Logger) (sparkify.Connector, error) {
	tokenProvider, err := NewEntraTokenProvider(config)
	if err != nil {
		return nil, err
	}
	return NewTokenBasedConnector(config, tokenProvider, "Azure", logger), nil
}

var _ sparkify.Connector = (*StandardConnector)(nil)
