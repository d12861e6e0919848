package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
)

// startHTTPServer serves router until ctx is cancelled, then shuts down
// gracefully. onListening runs in its own goroutine once the listener is
// bound.
func (app *application) startHTTPServer(
	ctx context.Context,
	router http.Handler,
	onListening func(context.Context),
) error {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", app.config.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	listener, err := net.Listen("tcp", server.Addr)
	if err != nil {
		app.cleanup()
		return fmt.Errorf("failed to listen on %s: %w", server.Addr, err)
	}

	serverCtx, cancelServer := context.WithCancel(ctx)
	defer cancelServer()

	serveErr := make(chan error, 1)
	go func() {
		app.logger.Info("Starting server", "port", app.config.Server.Port)
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.logger.Error("Server failed", "error", err)
			serveErr <- err
			cancelServer()
		}
	}()

	if onListening != nil {
		go onListening(serverCtx)
	}

	<-serverCtx.Done()
	app.logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), app.config.Server.ShutdownTimeout)
	defer shutdownCancel()

	var shutdownErr error
	if err := server.Shutdown(shutdownCtx); err != nil {
		app.logger.Error("Server shutdown failed", "error", err)
		shutdownErr = fmt.Errorf("server shutdown failed: %w", err)
	}

	app.cleanup()
	app.logger.Info("Server shutdown completed")

	select {
	case err := <-serveErr:
		return err
	default:
		return shutdownErr
	}
}
