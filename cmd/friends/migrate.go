package main

import (
	"fmt"
	"io"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"gitlab.com/dirk.krummacker/friends-manager/internal/migration"
	"go.uber.org/zap"
)

func migrateCmd() *cobra.Command {
	var script string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the friends table in the mysql or sqlite database",
		Long:  "Execute a SQL script against the configured database. Without --script the built-in schema of the backend is used.",
		RunE: func(cmd *cobra.Command, args []string) error {
			sqlDB, err := openDatabase(cfg)
			if err != nil {
				return err
			}
			db := sqlx.NewDb(sqlDB, cfg.Backend)
			defer db.Close()

			var in io.Reader
			if script == "" {
				in, err = migration.Schema(cfg.Backend)
				if err != nil {
					return err
				}
			} else {
				f, err := os.Open(script) // nosemgrep
				if err != nil {
					return fmt.Errorf("failed to open script: %w", err)
				}
				defer f.Close()
				in = f
			}

			n, err := migration.Run(db, in)
			if err != nil {
				return err
			}
			logger.Info("Migration finished", zap.Int("statements", n), zap.String("backend", cfg.Backend))
			fmt.Fprintf(cmd.OutOrStdout(), "Executed %d statements.\n", n)
			return nil
		},
	}

	cmd.Flags().StringVar(&script, "script", "", "The SQL file to execute")
	return cmd
}
