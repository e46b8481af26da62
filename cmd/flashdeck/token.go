package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phrazzld/flashdeck-api/internal/config"
	"github.com/phrazzld/flashdeck-api/internal/service/auth"
)

func newTokenCmd(load configLoader) *cobra.Command {
	var userID string
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print a signed access token for a user",
		Long: `token signs an access token with the configured JWT secret. Production
tokens come from the identity provider; this command exists for local
testing with curl or the HTTP API tests.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if err := config.Validate(cfg.Auth); err != nil {
				return err
			}
			jwt, err := auth.NewJWTService(cfg.Auth)
			if err != nil {
				return err
			}
			token, err := jwt.GenerateToken(cmd.Context(), userID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user ID to put in the token subject")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
