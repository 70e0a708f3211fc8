// Package router sets up all HTTP routes and middleware chains for the
// CourseHub engine. Read routes need an identified user only where the
// answer depends on one; every mutation is gated on the global admin role.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"coursehub/internal/handlers"
	"coursehub/internal/middleware"
	"coursehub/internal/store"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(api *handlers.API, users *store.UserStore) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.Identify(users))

	// Health check, no identity required.
	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		// Category tree reads.
		r.Get("/categories", api.CategoriesList)
		r.Get("/categories/tree", api.CategoriesTree)
		r.Get("/categories/{id}", api.CategoryGet)
		r.Get("/categories/{id}/roles", api.RolesForCategory)
		r.Get("/users/{id}/roles", api.RolesForUser)

		// Per-caller access queries.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireUser)
			r.Get("/courses/{id}/access", api.CourseAccess)
			r.Get("/my/courses", api.MyCourses)
		})

		// Mutations are global admin only.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireUser)
			r.Use(middleware.RequireGlobalAdmin)

			r.Post("/categories", api.CategoryCreate)
			r.Put("/categories/{id}", api.CategoryUpdate)
			r.Delete("/categories/{id}", api.CategoryDelete)

			r.Put("/categories/{id}/roles/{userID}", api.RoleAssign)
			r.Delete("/categories/{id}/roles/{userID}", api.RoleRevoke)
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
