package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/nhassan/blog-api/internal/api"
	apiMiddleware "github.com/nhassan/blog-api/internal/api/middleware"
	"github.com/nhassan/blog-api/internal/api/shared"
)

// loginRateLimit caps login attempts per IP to slow credential stuffing.
const loginRateLimit = 10

// setupRouter creates and configures the application router with all
// routes and middleware. Returns the configured router.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)
	r.Use(apiMiddleware.SecurityHeaders)

	// The session cookie has to survive cross-origin requests from the
	// browser frontend, so the allowed origin is echoed back and
	// credentials are enabled rather than using a wildcard.
	r.Use(cors.Handler(cors.Options{
		AllowOriginFunc: func(r *http.Request, origin string) bool {
			return true
		},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Create API handlers using the application's services
	authHandler := api.NewAuthHandler(
		app.userStore,
		app.jwtService,
		app.passwordVerifier,
		&app.config.Auth,
		app.logger,
	)
	userHandler := api.NewUserHandler(app.userStore, app.passwordHasher, app.logger)
	blogHandler := api.NewBlogHandler(app.blogStore, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	// Register routes
	r.Route(app.config.Server.APIPrefix, func(r chi.Router) {
		// Authentication endpoints (public, rate limited)
		r.Group(func(r chi.Router) {
			r.Use(httprate.LimitByIP(loginRateLimit, time.Minute))
			r.Post("/auth/login", authHandler.Login)
		})

		// Registration endpoint (public)
		r.Post("/users", userHandler.Register)

		r.Route("/blogs", func(r chi.Router) {
			// Public reads
			r.Get("/", blogHandler.List)
			r.Get("/{id}", blogHandler.Get)

			// Admin-only writes
			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.Authenticate)
				r.Use(authMiddleware.RequireAdmin)
				r.Post("/", blogHandler.Create)
				r.Patch("/{id}", blogHandler.Update)
				r.Delete("/{id}", blogHandler.Delete)
			})
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithJSON(w, r, http.StatusOK, map[string]bool{"ok": true})
	})

	return r
}
