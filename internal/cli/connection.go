package cli

import (
	"fmt"

	"github.com/vvka-141/sparkify/internal/config"
	"github.com/vvka-141/sparkify/internal/db"
	"github.com/vvka-141/sparkify/pkg/sparkify"
)

// resolveConnection consolidates connection resolution for every command.
// It handles the connection string flag, granular flags, cloud auth flags and
// environment variables.
//
// Returns:
//   - ConnectionConfig with all parameters resolved
//   - Maintenance database name (for CREATE DATABASE operations)
//   - Error if configuration is invalid or conflicting
func resolveConnection(
	connStringFlag string,
	granularFlags *db.GranularConnFlags,
	cloudFlags *db.CloudFlags,
	projectConfig *config.ProjectConfig,
) (*sparkify.ConnectionConfig, string, error) {
	connConfig, maintenanceDB, err := db.ResolveConnectionParams(
		connStringFlag,
		granularFlags,
		cloudFlags,
		db.LoadFromEnvironment(),
		projectConfig,
	)
	if err != nil {
		return nil, "", err
	}

	if connConfig.Database == "" {
		return nil, "", fmt.Errorf("database name is required\n"+
			"Provide via:\n"+
			"  1. --database/-d flag: sparkify load -d sparkifydb\n"+
			"  2. Connection string: sparkify load --connection \"postgresql://student@host/sparkifydb\"\n"+
			"  3. Environment variable: export PGDATABASE=sparkifydb: %w", sparkify.ErrInvalidConfig)
	}

	return connConfig, maintenanceDB, nil
}
