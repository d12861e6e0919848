package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/numina/internal/accuracy"
	"github.com/phrazzld/numina/internal/api"
	apiMiddleware "github.com/phrazzld/numina/internal/api/middleware"
	"github.com/phrazzld/numina/internal/api/shared"
)

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware(app.logger))

	realmHandler := api.NewRealmHandler(app.focus, app.runner, app.detector, app.matchLog.store)
	ephemerisHandler := api.NewEphemerisHandler(
		accuracy.NewValidator(accuracy.DefaultTolerances()),
		app.reference,
	)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		r.Get("/realm", realmHandler.GetRealm)
		r.Get("/matches", realmHandler.ListMatches)
		r.Get("/ephemeris", ephemerisHandler.GetSnapshot)
		r.Get("/ephemeris/validation", ephemerisHandler.GetValidation)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Put("/focus", realmHandler.SetFocus)
			r.Post("/location", realmHandler.UpdateLocation)
			r.Post("/activity", realmHandler.UpdateActivity)
			r.Post("/detector/arm", realmHandler.ArmDetector)
			r.Post("/detector/disable", realmHandler.DisableDetector)
		})
	})

	r.Get("/health", app.handleHealth)

	return r
}

// handleHealth reports OK when the match log database answers a ping.
func (app *application) handleHealth(w http.ResponseWriter, r *http.Request) {
	if app.matchLog.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := app.matchLog.db.PingContext(ctx); err != nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusServiceUnavailable, "Database unavailable", err)
			return
		}
	}

	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		app.logger.Error("Failed to write health check response", "error", err)
	}
}
