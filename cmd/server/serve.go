package main

import (
	"context"
	"fmt"
	"os"

	"github.com/phrazzld/numina/internal/platform/otel"
	"github.com/spf13/cobra"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the realm engine and its HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
}

func runServe(ctx context.Context, opts *rootOptions) error {
	cfg, err := loadAppConfig(opts.configPath)
	if err != nil {
		return err
	}

	logger, err := setupAppLogger(cfg, os.Stdout)
	if err != nil {
		return err
	}

	shutdownTracing, err := otel.Setup(ctx, cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("failed to set up tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Error("failed to flush traces", "error", err)
		}
	}()

	app, err := newApplication(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return app.Run(ctx)
}
