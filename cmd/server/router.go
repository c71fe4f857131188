package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/meme-api/internal/api"
	apiMiddleware "github.com/phrazzld/meme-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))
	if app.metrics != nil {
		r.Use(app.metrics.Middleware)
		r.Handle("/metrics", app.metrics.Handler())
	}

	memeHandler := api.NewMemeHandler(
		app.config.Secrets(),
		app.config.RequiredSecrets(),
		app.newGenerator,
	)

	// The handler answers every method so it can produce its own 405 body.
	r.HandleFunc("/generate", memeHandler.Generate)
	r.HandleFunc("/api/generate", memeHandler.Generate)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("OK"))
		if err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
