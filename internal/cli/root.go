// Package cli defines the cobra command tree for staycheck.
package cli

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vbonduro/staycheck/internal/config"
)

var (
	flagConfig string
	flagDB     string
	flagFormat string
)

// NewRootCmd creates the root cobra command with global flags.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "staycheck",
		Short:         "Photo-based check-in/check-out inspections for rentals",
		Long:          "Analyze room photos taken at check-in and check-out, record the issues found, and compile damage reports with estimated costs.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flagConfig, "config", "", "YAML config file (default: $STAYCHECK_CONFIG)")
	root.PersistentFlags().StringVar(&flagDB, "db", "", "SQLite database path (overrides DB_PATH)")
	root.PersistentFlags().StringVar(&flagFormat, "format", "text", "output format (text|json)")

	root.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
		newAnalyzeCmd(),
		newReportCmd(),
	)

	return root
}

// loadConfig reads the configuration and applies command-line overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagDB != "" {
		cfg.DBPath = flagDB
	}
	return cfg, nil
}

// isJSON returns true if the --format flag is set to json.
func isJSON() bool {
	return flagFormat == "json"
}

// closeDB closes the database, logging any error to stderr.
func closeDB(database *sql.DB) {
	if err := database.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: closing database: %v\n", err)
	}
}
