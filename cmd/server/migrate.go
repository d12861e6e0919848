package main

import (
	"fmt"

	"github.com/phrazzld/numina/internal/platform/migrations"
	"github.com/spf13/cobra"
)

func newMigrateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|status|version]",
		Short:     "Apply or inspect match log migrations",
		Long:      "Runs the embedded goose migrations against the configured sqlite or postgres database.",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{migrations.CommandUp, migrations.CommandDown, migrations.CommandStatus, migrations.CommandVersion},
		RunE: func(cmd *cobra.Command, args []string) error {
			command := migrations.CommandUp
			if len(args) == 1 {
				command = args[0]
			}
			switch command {
			case migrations.CommandUp, migrations.CommandDown, migrations.CommandStatus, migrations.CommandVersion:
			default:
				return fmt.Errorf("%w: %q", migrations.ErrUnknownCommand, command)
			}

			cfg, err := loadAppConfig(opts.configPath)
			if err != nil {
				return err
			}
			logger, err := setupAppLogger(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			db, dialect, err := openMigrationDB(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			if err := migrations.Run(cmd.Context(), db, dialect, command, logger); err != nil {
				return err
			}

			if command == migrations.CommandVersion {
				version, err := migrations.Version(cmd.Context(), db, dialect)
				if err != nil {
					return fmt.Errorf("failed to read schema version: %w", err)
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), version)
				return err
			}
			return nil
		},
	}
}
