package cmd

import (
	"context"
	"os"

	"github.com/frahmantamala/savings/internal/database"
	"github.com/spf13/cobra"
)

var (
	migrateCmd = &cobra.Command{
		RunE:  runMigration,
		Use:   "migrate",
		Short: "to run the db migrations for the configured driver",
	}
	migrateRollback bool
	migrateDir      string
)

func init() {
	migrateCmd.Flags().BoolVarP(&migrateRollback, "rollback", "r", false, "to rollback the latest version of sql migration")
	migrateCmd.PersistentFlags().StringVarP(&migrateDir, "dir", "d", "", "sql migrations directory on disk (default: embedded migrations)")
}

func runMigration(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	deps, err := initializeDependencies(ctx, initOptions{logOutput: os.Stderr})
	if err != nil {
		return err
	}
	defer deps.Close()

	return deps.DB.Migrate(ctx, database.MigrateOptions{Rollback: migrateRollback, Dir: migrateDir})
}
