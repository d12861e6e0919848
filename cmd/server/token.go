package main

import (
	"fmt"
	"time"

	"github.com/phrazzld/numina/internal/service/auth"
	"github.com/spf13/cobra"
)

// tokenOutput is the JSON rendering of a signed token.
type tokenOutput struct {
	Token     string    `json:"token"`
	Subject   string    `json:"subject"`
	ExpiresAt time.Time `json:"expires_at"`
}

func newTokenCommand(opts *rootOptions) *cobra.Command {
	var subject string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Sign a bearer token for the protected API routes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadAppConfig(opts.configPath)
			if err != nil {
				return err
			}
			if _, err := setupAppLogger(cfg, cmd.ErrOrStderr()); err != nil {
				return err
			}

			svc, err := auth.NewJWTService(cfg.Auth)
			if err != nil {
				return fmt.Errorf("failed to initialize JWT service: %w", err)
			}
			token, err := svc.GenerateToken(cmd.Context(), subject)
			if err != nil {
				return err
			}

			if opts.format == formatJSON {
				claims, err := svc.ValidateToken(cmd.Context(), token)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), tokenOutput{
					Token:     token,
					Subject:   claims.Subject,
					ExpiresAt: claims.ExpiresAt,
				})
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "token subject, e.g. a device or user name")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}
