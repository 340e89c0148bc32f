package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/spendwise/internal/auth"
	"github.com/MrJamesThe3rd/spendwise/internal/config"
)

func newTokenCommand() *cobra.Command {
	var (
		user string
		ttl  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an API bearer token for a user (development only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := uuid.Parse(user)
			if err != nil {
				return fmt.Errorf("parsing --user: %w", err)
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			if cfg.Auth.JWTSecret == "" {
				return errors.New("AUTH_JWT_SECRET is required")
			}

			token, err := auth.NewVerifier(cfg.Auth.JWTSecret).Issue(userID, ttl)
			if err != nil {
				return fmt.Errorf("signing token: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)

			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "user id (required)")
	_ = cmd.MarkFlagRequired("user")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")

	return cmd
}
