package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vvka-141/sparkify/internal/retry"
	"github.com/vvka-141/sparkify/pkg/sparkify"
)

// tokenExpiryWarning is how close to expiry a token may be before a load is
// warned that it could outlive its credentials.
const tokenExpiryWarning = 5 * time.Minute

// TokenBasedConnector implements the Connector interface for cloud providers
// that authenticate via short-lived tokens (AWS IAM, Azure Entra ID).
// The token is acquired from a TokenProvider and used as the PostgreSQL password.
type TokenBasedConnector struct {
	config        *sparkify.ConnectionConfig
	tokenProvider TokenProvider
	retryExecutor *retry.Executor
	providerName  string
	logger        sparkify.Logger
}

// NewTokenBasedConnector creates a connector that uses a TokenProvider for authentication.
// providerName is used in error/warning messages (e.g., "AWS IAM", "Azure").
func NewTokenBasedConnector(config *sparkify.ConnectionConfig, tokenProvider TokenProvider, providerName string, logger sparkify.Logger) *TokenBasedConnector {
	if config == nil {
		panic("config cannot be nil")
	}
	if tokenProvider == nil {
		panic("tokenProvider cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &TokenBasedConnector{
		config:        config,
		tokenProvider: tokenProvider,
		retryExecutor: retry.NewConnectExecutor(logger),
		providerName:  providerName,
		logger:        logger,
	}
}

func (c *TokenBasedConnector) Connect(ctx context.Context) (*pgxpool.Pool, error) {
	c.logger.Verbose("Authenticating with %s", c.tokenProvider)
	return connectWithRetry(ctx, c.retryExecutor, c.config, c.logger, c.token)
}

func (c *TokenBasedConnector) token(ctx context.Context) (string, error) {
	token, expiresOn, err := c.tokenProvider.GetToken(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to acquire %s token: %w", c.providerName, err)
	}
	if remaining := time.Until(expiresOn); remaining < tokenExpiryWarning {
		c.logger.Info("Warning: %s token expires in %v", c.providerName, remaining.Round(time.Second))
	}
	return token, nil
}

var _ sparkify.Connector = (*TokenBasedConnector)(nil)
