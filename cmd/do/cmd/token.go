package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nochase/nochase/internal/service"
)

// TokenCmd signs a bearer token for local testing against a store that
// verifies JWT_SECRET tokens.
func TokenCmd() *cobra.Command {
	var (
		userID string
		email  string
		secret string
		expiry time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Sign a development bearer token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				return errors.New("JWT_SECRET is not set (or pass --secret)")
			}
			if userID == "" {
				return errors.New("--user is required")
			}

			token, err := service.NewJWTVerifier(secret, expiry).GenerateJWT(userID, email)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user id to put in the token")
	cmd.Flags().StringVar(&email, "email", "", "optional email claim")
	cmd.Flags().StringVar(&secret, "secret", envOr("JWT_SECRET", ""), "signing secret")
	cmd.Flags().DurationVar(&expiry, "expiry", 24*time.Hour, "token lifetime")

	return cmd
}
