package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"smtm/internal/shared/auth"
)

func newTokenCmd(a *app) *cobra.Command {
	var (
		userID string
		email  string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a session token for calling the API directly",
		Long: `Prints a signed session token for the given user. Send it as
"Authorization: Bearer <token>" or as the session cookie.

Example: admin token --user 1234 --email me@example.com --ttl 1h`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if userID == "" {
				return errors.New("--user is required")
			}
			if ttl <= 0 {
				ttl = a.cfg.JWT.TTL
			}

			token, err := auth.NewJWT(a.cfg.JWT.Secret, ttl).Generate(userID, email)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, token)
			return nil
		},
	}

	cmd.Flags().StringVarP(&userID, "user", "u", "", "User ID the token is issued to")
	cmd.Flags().StringVarP(&email, "email", "e", "", "Email claim (optional)")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "Token lifetime (defaults to JWT_TTL)")

	return cmd
}
