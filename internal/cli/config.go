package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vvka-141/sparkify/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Write the resolved connection and sources to sparkify.yaml",
	Long: `Resolves the connection and source directories exactly as 'sparkify load'
would and saves them to sparkify.yaml in the --config directory, so later runs
need no flags. Existing keys the flags do not cover are kept.

The password is never written to sparkify.yaml. With --save-password it is
stored in the PostgreSQL password file instead ($PGPASSFILE or ~/.pgpass).

Examples:
  # Remember a remote server
  sparkify config -h db.internal -U etl -d sparkifydb --sslmode require

  # Remember custom data directories
  sparkify config --song-data /mnt/data/song_data --log-data /mnt/data/log_data`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

type configFlagValues struct {
	load         loadFlagValues
	savePassword bool
}

var configFlags configFlagValues

func init() {
	rootCmd.AddCommand(configCmd)

	fs := configCmd.Flags()
	bindConnectionFlags(fs, &configFlags.load.conn)
	bindSourceFlags(fs, &configFlags.load)
	fs.BoolVar(&configFlags.savePassword, "save-password", false,
		"Also store the resolved password in the PostgreSQL password file")
	registerConnectionCompletions(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	projectCfg, err := loadProjectConfig(configDir)
	if err != nil {
		return err
	}

	resolved, err := resolveConnectionFromFlags(configFlags.load.conn, projectCfg)
	if err != nil {
		return err
	}

	// Keep relative roots as written; they are resolved against the file's
	// directory when it is read back.
	var stored *config.ProjectConfig
	if projectCfg != nil {
		stored = &config.ProjectConfig{Sources: projectCfg.Sources}
	}
	sources := resolveSources(configFlags.load, stored)
	if err := saveConnectionToConfig(configDir, resolved.ConnConfig, resolved.MaintenanceDB, sources); err != nil {
		return fmt.Errorf("failed to write %s: %w", config.ConfigFileName, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Configuration saved to %s\n", filepath.Join(configDir, config.ConfigFileName))

	if configFlags.savePassword {
		if resolved.ConnConfig.Password == "" {
			return fmt.Errorf("--save-password: no password resolved (set $PGPASSWORD or use --connection)")
		}
		path, err := writePgpassEntry(resolved.ConnConfig)
		if err != nil {
			return fmt.Errorf("failed to save password: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Password saved to %s\n", path)
	}
	return nil
}
