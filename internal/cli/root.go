package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "sparkify",
	Short: "Load Sparkify song and activity data into a PostgreSQL star schema",
	Long: `sparkify reads line-delimited JSON song metadata and user activity logs
and loads them into the songs, artists, users, time and songplays tables.

Running sparkify without a subcommand is the same as 'sparkify load'.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration
  11 - Database connection failed
  12 - User denied overwrite approval
  13 - A statement failed while loading a file
  14 - An input file is not valid line-delimited JSON`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runLoad,
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo()
		return nil
	}
	return rootCmd.Execute()
}

func init() {
	// -h is the host flag; help keeps only its long form.
	rootCmd.PersistentFlags().Bool("help", false, "Help for sparkify")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
	rootCmd.PersistentFlags().StringVar(&configDir, "config", ".",
		"Directory containing sparkify.yaml and .env")

	bindLoadFlags(rootCmd, &loadFlags)
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}
