package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vbonduro/staycheck/internal/db"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Args:  cobra.NoArgs,
		RunE:  runMigrate,
	}
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer closeDB(database)

	version, err := db.Version(database)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "database %s is at schema version %d\n", cfg.DBPath, version)
	return nil
}
