package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/nyashahama/bump-digest/internal/app"
	"github.com/nyashahama/bump-digest/internal/config"
	"github.com/nyashahama/bump-digest/migrations"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(
		migrateSub("up", "Apply all pending migrations", migrations.Up),
		migrateSub("down", "Roll back the most recent migration", migrations.Down),
		migrateSub("status", "Show applied and pending migrations", migrations.Status),
	)
	return cmd
}

func migrateSub(use, short string, fn func(*sql.DB) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dsn, err := config.LoadDatabaseURL()
			if err != nil {
				return err
			}

			pool, err := app.OpenPool(context.Background(), dsn)
			if err != nil {
				return fmt.Errorf("database: %w", err)
			}
			defer pool.Close()

			if err := fn(pool); err != nil {
				return err
			}
			newLogger().Info("migrate: done", "command", use)
			return nil
		},
	}
}
