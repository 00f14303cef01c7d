package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vvka-141/sparkify/internal/db"
	"github.com/vvka-141/sparkify/internal/db/manager"
	"github.com/vvka-141/sparkify/internal/logging"
	"github.com/vvka-141/sparkify/internal/schema"
	"github.com/vvka-141/sparkify/internal/services"
	"github.com/vvka-141/sparkify/internal/ui"
	"github.com/vvka-141/sparkify/pkg/sparkify"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Create, drop or reset the star-schema tables",
	Long: `Manage the songs, artists, users, time and songplays tables without loading data.

  create  CREATE TABLE IF NOT EXISTS for every table (creates the database if missing)
  drop    DROP TABLE IF EXISTS for every table
  reset   drop, then create

With --overwrite the whole target database is dropped and recreated first.`,
}

var schemaPrintCmd = &cobra.Command{
	Use:   "print",
	Short: "Print the DDL without connecting",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprint(cmd.OutOrStdout(), schema.DDL())
	},
}

type schemaFlagValues struct {
	conn   connectionFlags
	target targetFlags
}

var schemaFlags schemaFlagValues

func init() {
	rootCmd.AddCommand(schemaCmd)

	fs := schemaCmd.PersistentFlags()
	bindConnectionFlags(fs, &schemaFlags.conn)
	bindTargetFlags(fs, &schemaFlags.target)
	registerConnectionCompletions(schemaCmd)

	for _, action := range []sparkify.SchemaAction{sparkify.SchemaCreate, sparkify.SchemaDrop, sparkify.SchemaReset} {
		schemaCmd.AddCommand(newSchemaActionCmd(action))
	}
	schemaCmd.AddCommand(schemaPrintCmd)
}

func newSchemaActionCmd(action sparkify.SchemaAction) *cobra.Command {
	short := map[sparkify.SchemaAction]string{
		sparkify.SchemaCreate: "Create the tables if they do not exist",
		sparkify.SchemaDrop:   "Drop all tables",
		sparkify.SchemaReset:  "Drop and recreate all tables",
	}[action]

	return &cobra.Command{
		Use:   action.String(),
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchema(cmd, action)
		},
	}
}

// buildSchemaConfig builds a SchemaConfig from CLI flags, environment and sparkify.yaml.
func buildSchemaConfig(cmd *cobra.Command, f schemaFlagValues, action sparkify.SchemaAction, verbose bool) (sparkify.SchemaConfig, error) {
	projectCfg, err := loadProjectConfig(configDir)
	if err != nil {
		return sparkify.SchemaConfig{}, err
	}

	resolved, err := resolveConnectionFromFlags(f.conn, projectCfg)
	if err != nil {
		return sparkify.SchemaConfig{}, err
	}
	if verbose {
		logConnectionVerbose(resolved.ConnConfig, resolved.MaintenanceDB)
	}

	timeout, err := resolveEffectiveTimeout(cmd, projectCfg, f.target.timeout)
	if err != nil {
		return sparkify.SchemaConfig{}, err
	}

	return sparkify.SchemaConfig{
		TargetConfig: targetConfig(resolved, f.target, timeout, verbose),
		Action:       action,
	}, nil
}

func runSchema(cmd *cobra.Command, action sparkify.SchemaAction) error {
	verbose := getVerboseFlag(cmd)

	cfg, err := buildSchemaConfig(cmd, schemaFlags, action, verbose)
	if err != nil {
		return err
	}

	approver, err := selectApprover(schemaFlags.target, verbose, ui.IsInteractive())
	if err != nil {
		return err
	}
	logger := logging.NewConsoleLogger(verbose)
	svc := services.NewSchemaService(db.ConnectorFactory(logger), approver, logger, manager.New())

	ctx, stop := signalContext(cmd)
	defer stop()

	if err := svc.Run(ctx, cfg); err != nil {
		return fmt.Errorf("schema %s failed: %w", action, err)
	}
	return nil
}
