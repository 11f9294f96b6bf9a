// AngelaMos | 2026
// seed.go

package main

import (
	"github.com/spf13/cobra"

	"github.com/bythepixel/propixel/internal/core"
	"github.com/bythepixel/propixel/internal/user"
)

func seedCmd(configPath *string) *cobra.Command {
	var email, password, firstName, lastName string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create or reset the bootstrap admin user",
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

			svc := user.NewService(user.NewRepository(db.DB))

			admin, err := svc.SeedAdmin(cmd.Context(), email, password, firstName, lastName)
			if err != nil {
				return err
			}

			logger.Info("admin user seeded",
				"user_id", admin.ID,
				"email", admin.EmailAddress(),
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "admin email address")
	cmd.Flags().StringVar(&password, "password", "", "admin password")
	cmd.Flags().StringVar(&firstName, "first-name", "Admin", "admin first name")
	cmd.Flags().StringVar(&lastName, "last-name", "User", "admin last name")
	_ = cmd.MarkFlagRequired("email")    //nolint:errcheck // flag is defined above
	_ = cmd.MarkFlagRequired("password") //nolint:errcheck // flag is defined above

	return cmd
}
