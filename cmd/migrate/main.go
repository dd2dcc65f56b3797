package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oilslickpad/storeops/internal/cli"
	"github.com/oilslickpad/storeops/internal/config"
	"github.com/oilslickpad/storeops/internal/repository/postgres"
)

func main() {
	cli.Main(&cobra.Command{
		Use:           "migrate [migration-file]",
		Short:         "Create the audit log tables in Postgres",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := postgres.DefaultMigrationPath
			if len(args) == 1 {
				path = args[0]
			}
			return migrate(cmd.Context(), path)
		},
	})
}

func migrate(ctx context.Context, path string) error {
	dbCfg, err := config.LoadDatabase()
	if err != nil {
		return err
	}
	if !dbCfg.Enabled() {
		return fmt.Errorf("DB_HOST is required")
	}

	db, err := postgres.NewConnection(ctx, dbCfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	applied, err := postgres.RunMigration(ctx, db, path)
	if err != nil {
		return err
	}
	if !applied {
		fmt.Println("Migration already applied (some objects already exist)")
	}
	fmt.Println("Migration completed successfully!")
	return nil
}
