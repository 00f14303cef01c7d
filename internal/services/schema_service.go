package services

import (
	"context"
	"fmt"

	"github.com/vvka-141/sparkify/internal/schema"
	"github.com/vvka-141/sparkify/pkg/sparkify"
)

// SchemaService creates, drops or resets the star-schema tables of the target
// database outside a load.
type SchemaService struct {
	target *targetDatabase
	logger sparkify.Logger
}

// NewSchemaService creates a new SchemaService. Panics on nil dependencies.
func NewSchemaService(
	factory func(*sparkify.ConnectionConfig) (sparkify.Connector, error),
	approver sparkify.Approver,
	logger sparkify.Logger,
	dbManager sparkify.DatabaseManager,
) *SchemaService {
	return &SchemaService{
		target: newTargetDatabase(factory, approver, logger, dbManager),
		logger: logger,
	}
}

// Run applies cfg.Action to the target database. Create and reset make sure
// the database exists first; drop expects it to exist.
func (s *SchemaService) Run(ctx context.Context, cfg sparkify.SchemaConfig) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	connConfig, err := s.target.connectionConfig(cfg.TargetConfig)
	if err != nil {
		return err
	}

	if cfg.Action != sparkify.SchemaDrop || cfg.Overwrite {
		if err := s.target.prepare(ctx, connConfig, cfg.TargetConfig); err != nil {
			return err
		}
	}

	conn, cleanup, err := s.target.targetConnector(ctx, connConfig)
	if err != nil {
		return err
	}
	defer cleanup()

	switch cfg.Action {
	case sparkify.SchemaCreate:
		err = schema.Create(ctx, conn)
	case sparkify.SchemaDrop:
		err = schema.Drop(ctx, conn)
	case sparkify.SchemaReset:
		err = schema.Reset(ctx, conn)
	}
	if err != nil {
		return err
	}

	s.logger.Info("✓ Schema %s completed on '%s'", cfg.Action, cfg.DatabaseName)
	return nil
}
