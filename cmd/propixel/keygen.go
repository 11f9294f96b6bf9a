// AngelaMos | 2026
// keygen.go

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bythepixel/propixel/internal/auth"
)

func keygenCmd() *cobra.Command {
	var privatePath, publicPath string
	var force bool

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate the ES256 key pair used to sign sessions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !force {
				for _, path := range []string{privatePath, publicPath} {
					if _, err := os.Stat(path); err == nil {
						return fmt.Errorf("%s already exists, pass --force to overwrite", path)
					}
				}
			}

			for _, path := range []string{privatePath, publicPath} {
				if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
					return fmt.Errorf("create key directory: %w", err)
				}
			}

			if err := auth.GenerateKeyPair(privatePath, publicPath); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s and %s\n", privatePath, publicPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&privatePath, "private", "keys/private.pem", "private key output path")
	cmd.Flags().StringVar(&publicPath, "public", "keys/public.pem", "public key output path")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing keys")

	return cmd
}
