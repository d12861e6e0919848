package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/phrazzld/numina/internal/accuracy"
	"github.com/phrazzld/numina/internal/config"
)

// loadAppConfig loads the configuration from the given file, or from
// ./config.yaml and the environment when path is empty.
func loadAppConfig(path string) (*config.Config, error) {
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	slog.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"database_driver", cfg.Database.Driver)

	if cfg.Database.URL != "" {
		slog.Debug("Database configuration", "url_present", true)
	}

	return cfg, nil
}

// loadReferenceTable reads a YAML reference table, or returns the built-in
// one when path is empty.
func loadReferenceTable(path string) (accuracy.ReferenceTable, error) {
	if path == "" {
		return accuracy.DefaultReferenceTable(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return accuracy.ReferenceTable{}, fmt.Errorf("failed to open reference table: %w", err)
	}
	defer func() { _ = f.Close() }()

	table, err := accuracy.LoadReferenceTable(f)
	if err != nil {
		return accuracy.ReferenceTable{}, fmt.Errorf("failed to load reference table %s: %w", path, err)
	}
	return table, nil
}
