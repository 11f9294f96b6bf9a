// AngelaMos | 2026
// migrate.go

package main

import (
	"github.com/spf13/cobra"

	"github.com/bythepixel/propixel/internal/core"
)

func migrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig(*configPath)
			if err != nil {
				return err
			}

			db, err := core.NewDatabase(cmd.Context(), cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close() //nolint:errcheck // process exits next

			applied, err := core.Migrate(cmd.Context(), db.DB)
			if err != nil {
				return err
			}

			if len(applied) == 0 {
				logger.Info("schema up to date")
				return nil
			}

			logger.Info("migrations applied", "files", applied)
			return nil
		},
	}
}
