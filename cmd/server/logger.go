package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/phrazzld/numina/internal/config"
	"github.com/phrazzld/numina/internal/platform/logger"
)

// setupAppLogger configures and initializes the application logger based on config settings.
// The server logs to stdout; offline commands pass stderr so their output stays clean.
func setupAppLogger(cfg *config.Config, out io.Writer) (*slog.Logger, error) {
	l, err := logger.SetupWithWriter(cfg.Server, out)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}
	return l, nil
}
