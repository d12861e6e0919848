package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/numina/internal/accuracy"
	"github.com/phrazzld/numina/internal/config"
	"github.com/phrazzld/numina/internal/events"
	"github.com/phrazzld/numina/internal/focus"
	"github.com/phrazzld/numina/internal/match"
	"github.com/phrazzld/numina/internal/realm"
	"github.com/phrazzld/numina/internal/service/auth"
	"github.com/phrazzld/numina/internal/task"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	matchLog   *matchLog
	jwtService auth.JWTService

	emitter   *events.InMemoryEventEmitter
	focus     *focus.Store
	detector  *match.Detector
	realm     *realm.Service
	runner    *task.Runner
	reference accuracy.ReferenceTable
}

// newApplication wires every component. The runner is created but not
// started and the detector stays disabled until Run arms it.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.reference, err = loadReferenceTable(cfg.Engine.ReferenceTablePath)
	if err != nil {
		return nil, err
	}

	params, err := engineParams(cfg.Engine)
	if err != nil {
		return nil, err
	}

	app.matchLog, err = setupMatchLog(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	app.emitter = events.NewInMemoryEventEmitter(logger)
	app.focus = focus.NewStore(app.emitter, logger)
	app.detector = match.NewDetector(app.matchLog.store, logger)
	app.emitter.RegisterHandler(app.detector)

	app.realm = realm.NewService(params, logger)
	app.runner = task.NewRunner(app.realm, app.focus, task.RunnerConfig{
		Interval:                cfg.Engine.RecalculationInterval,
		MovementThresholdMeters: cfg.Engine.MovementThresholdMeters,
		QueueSize:               cfg.Engine.QueueSize,
	}, logger)

	logger.Info("Application initialized successfully",
		"time_zone", params.Zone.String(),
		"include_celestial", params.IncludeCelestial)
	return app, nil
}

// engineParams builds the realm formula parameters from configuration.
func engineParams(cfg config.EngineConfig) (*realm.Params, error) {
	precision := cfg.CoordinatePrecision
	params, err := realm.NewParams(realm.ParamsConfig{
		TimeZone:            cfg.TimeZone,
		IncludeCelestial:    cfg.IncludeCelestial,
		CoordinatePrecision: &precision,
	})
	if err != nil {
		return nil, fmt.Errorf("invalid engine configuration: %w", err)
	}
	return params, nil
}

// Run starts the runner and the HTTP server and blocks until ctx is
// cancelled or the server fails.
func (app *application) Run(ctx context.Context) error {
	if err := app.runner.Start(ctx); err != nil {
		return fmt.Errorf("failed to start recalculation runner: %w", err)
	}

	router := app.setupRouter()
	if err := app.startHTTPServer(ctx, router, app.armWhenReady); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// armWhenReady arms the detector after the first realm number has been
// published. It runs once the listener is up.
func (app *application) armWhenReady(ctx context.Context) {
	select {
	case <-ctx.Done():
		return
	case <-app.runner.Published():
	}
	app.detector.Arm(ctx, app.focus.Snapshot().Event())
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.runner != nil {
		app.runner.Stop()
	}

	if err := app.matchLog.Close(); err != nil {
		app.logger.Error("Error closing database connection", "error", err)
	}

	app.logger.Info("Application shutdown completed")
}
