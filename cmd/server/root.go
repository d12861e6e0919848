package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Output formats shared by the offline commands.
const (
	formatText = "text"
	formatJSON = "json"
)

// rootOptions holds flags shared by every command.
type rootOptions struct {
	configPath string
	format     string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "numina",
		Short: "Realm number engine",
		Long: `numina computes the realm number from time, location, activity and
optionally the sky, keeps it next to the user's chosen focus number, and
records every moment the two align.

Running numina without a subcommand starts the server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.format != formatText && opts.format != formatJSON {
				return fmt.Errorf("invalid format %q: must be text or json", opts.format)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default ./config.yaml if present)")
	cmd.PersistentFlags().StringVar(&opts.format, "format", formatText, "output format (text|json)")

	cmd.AddCommand(newServeCommand(opts))
	cmd.AddCommand(newMigrateCommand(opts))
	cmd.AddCommand(newEphemerisCommand(opts))
	cmd.AddCommand(newValidateCommand(opts))
	cmd.AddCommand(newReduceCommand(opts))
	cmd.AddCommand(newRealmCommand(opts))
	cmd.AddCommand(newTokenCommand(opts))

	return cmd
}
