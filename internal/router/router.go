// Package router sets up all HTTP routes and middleware chains for the
// BlogPulse API. It organizes routes into public, authenticated, and
// admin groups with appropriate middleware stacks.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"blogpulse/internal/handlers"
	"blogpulse/internal/middleware"
	"blogpulse/internal/session"
)

// Handlers bundles the handler groups the router wires up.
type Handlers struct {
	Auth       *handlers.Auth
	Content    *handlers.Content
	Engagement *handlers.Engagement
	Comments   *handlers.Comments
	Categories *handlers.Categories
	Stats      *handlers.Stats
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(sessionStore *session.Store, h Handlers) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(sessionStore))

	// Health check, no auth.
	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		// Auth. Login is rate-limited to slow credential stuffing.
		loginLimiter := middleware.NewRateLimiter(10, time.Minute)
		r.Route("/auth", func(r chi.Router) {
			r.With(loginLimiter.Middleware).Post("/register", h.Auth.Register)
			r.With(loginLimiter.Middleware).Post("/login", h.Auth.Login)
			r.Post("/logout", h.Auth.Logout)
			r.With(middleware.RequireAuth).Get("/me", h.Auth.Me)
		})

		// Content. Reads are public; visibility is applied per item.
		r.Route("/content", func(r chi.Router) {
			r.Get("/", h.Content.List)
			r.With(middleware.RequireAuth).Post("/", h.Content.Create)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.Content.Get)
				r.With(middleware.RequireAuth).Put("/", h.Content.Update)
				r.With(middleware.RequireAuth).Delete("/", h.Content.Delete)

				r.With(middleware.RequireAuth).Post("/like", h.Engagement.Like)
				r.With(middleware.RequireAuth).Post("/share", h.Engagement.Share)

				r.Get("/comments", h.Comments.ListForContent)
				r.With(middleware.RequireAuth).Post("/comments", h.Comments.Create)
			})
		})

		// Comments addressed directly.
		r.Route("/comments/{id}", func(r chi.Router) {
			r.Get("/", h.Comments.Get)
			r.With(middleware.RequireAuth).Delete("/", h.Comments.Delete)
		})

		// Categories. Mutations are admin-only.
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", h.Categories.List)
			r.Get("/{id}", h.Categories.Get)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth, middleware.RequireAdmin)
				r.Post("/", h.Categories.Create)
				r.Put("/{id}", h.Categories.Update)
				r.Delete("/{id}", h.Categories.Delete)
			})
		})

		// Admin analytics.
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAuth, middleware.RequireAdmin)
			r.Get("/stats", h.Stats.Aggregate)
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
