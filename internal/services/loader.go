package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jackc/pgx/v5"

	"github.com/vvka-141/sparkify/internal/schema"
	"github.com/vvka-141/sparkify/pkg/sparkify"
)

// LoadService drives a load run: every file of every source is loaded in its
// own transaction, in order, on one dedicated connection.
// Thread-Safety: NOT safe for concurrent Run() calls on the same instance.
type LoadService struct {
	target  *targetDatabase
	logger  sparkify.Logger
	scanner sparkify.FileScanner
	loaders map[sparkify.SourceKind]sparkify.FileLoader
	out     io.Writer
}

// NewLoadService creates a new LoadService with all dependencies injected.
// loaders maps each source kind to the loader for its files.
// Progress lines go to stdout unless WithOutput is used.
//
// Panics on nil dependencies: they are wiring mistakes, not runtime conditions.
func NewLoadService(
	factory func(*sparkify.ConnectionConfig) (sparkify.Connector, error),
	approver sparkify.Approver,
	logger sparkify.Logger,
	fileScanner sparkify.FileScanner,
	loaders map[sparkify.SourceKind]sparkify.FileLoader,
	dbManager sparkify.DatabaseManager,
) *LoadService {
	if fileScanner == nil {
		panic("fileScanner cannot be nil")
	}
	if len(loaders) == 0 {
		panic("loaders cannot be empty")
	}

	return &LoadService{
		target:  newTargetDatabase(factory, approver, logger, dbManager),
		logger:  logger,
		scanner: fileScanner,
		loaders: loaders,
		out:     os.Stdout,
	}
}

// WithOutput redirects the progress lines.
func (s *LoadService) WithOutput(w io.Writer) *LoadService {
	if w == nil {
		panic("output writer cannot be nil")
	}
	s.out = w
	return s
}

// Run executes a load using the provided configuration.
func (s *LoadService) Run(ctx context.Context, cfg sparkify.LoadConfig) error {
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

	s.logger.Verbose("Starting load into database '%s'", cfg.DatabaseName)
	if err := s.target.prepare(ctx, connConfig, cfg.TargetConfig); err != nil {
		return err
	}

	conn, cleanup, err := s.target.targetConnector(ctx, connConfig)
	if err != nil {
		return err
	}
	defer cleanup()

	if cfg.SkipSchema {
		s.logger.Verbose("Skipping schema creation")
	} else if err := schema.Create(ctx, conn); err != nil {
		return err
	}

	total := 0
	for _, src := range cfg.Sources {
		n, err := s.loadSource(ctx, conn, src)
		if err != nil {
			return err
		}
		total += n
	}

	s.logger.Info("✓ Loaded %d files into '%s'", total, cfg.DatabaseName)
	return nil
}

// loadSource loads every file under src.Dir and returns how many it loaded.
func (s *LoadService) loadSource(ctx context.Context, conn sparkify.Conn, src sparkify.Source) (int, error) {
	fileLoader, ok := s.loaders[src.Kind]
	if !ok {
		return 0, fmt.Errorf("no loader registered for %s source %q: %w", src.Kind, src.Dir, sparkify.ErrInvalidConfig)
	}

	files, err := s.scanner.ScanDirectory(src.Dir)
	if err != nil {
		return 0, fmt.Errorf("failed to scan directory %q: %w", src.Dir, err)
	}

	fmt.Fprintf(s.out, "%d files found in %s\n", len(files), src.Dir)
	for i, path := range files {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if err := s.loadFile(ctx, conn, fileLoader, path); err != nil {
			return i, err
		}
		fmt.Fprintf(s.out, "%d/%d files processed.\n", i+1, len(files))
	}
	return len(files), nil
}

// loadFile runs fileLoader inside one transaction. Any failure rolls the
// transaction back, so a file is either fully loaded or not at all.
func (s *LoadService) loadFile(ctx context.Context, conn sparkify.Conn, fileLoader sparkify.FileLoader, path string) (err error) {
	tx, err := conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: begin transaction for %s: %w", sparkify.ErrLoadFailed, path, err)
	}
	defer func() {
		if err == nil {
			return
		}
		// Rollback must still reach the server when ctx was the cause.
		rbErr := tx.Rollback(context.WithoutCancel(ctx))
		if rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			s.logger.Error("rollback of %s failed: %v", path, rbErr)
		}
	}()

	if err = fileLoader.Load(ctx, tx, path); err != nil {
		return err
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: commit %s: %w", sparkify.ErrLoadFailed, path, err)
	}
	return nil
}
