package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/splashpad/lesson-api/internal/api"
	apiMiddleware "github.com/splashpad/lesson-api/internal/api/middleware"
)

// setupRouter creates the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)
	r.Use(apiMiddleware.RequestLogger(app.logger))
	r.Use(apiMiddleware.MetricsMiddleware(app.metrics))

	authHandler := api.NewAuthHandler(
		app.userStore,
		app.jwtService,
		app.passwordVerifier,
		app.tokenLifetime(),
	)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	groupHandler := api.NewGroupHandler(app.groupService, app.metrics, app.logger)
	entityHandler := api.NewEntityHandler(app.contentStore, app.registry, app.metrics, app.logger)
	termHandler := api.NewTermHandler(app.taxonomyStore, app.logger)

	r.Route("/lm/v1", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)

		// Everything else requires a valid access token.
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Aggregated group endpoints
			r.Get("/groups", groupHandler.ListGroups)
			r.Post("/groups/{id}", groupHandler.UpdateGroup)

			// Generic entity CRUD for levels, skills, swimmers, evaluations
			r.Route("/{resource:levels|skills|swimmers|evaluations}", func(r chi.Router) {
				r.Get("/", entityHandler.List)
				r.Post("/", entityHandler.Create)
				r.Get("/{id}", entityHandler.Get)
				r.Post("/{id}", entityHandler.Update)
				r.Put("/{id}", entityHandler.Update)
				r.Delete("/{id}", entityHandler.Delete)
			})

			// Taxonomy terms
			r.Get("/terms/{dimension}", termHandler.ListTerms)
		})
	})

	// Operational endpoints, outside the API namespace and unauthenticated.
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})
	r.Method(http.MethodGet, "/metrics", app.metrics.Handler())

	return r
}
