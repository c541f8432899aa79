package api

import (
	"net/http"

	"github.com/finn/cloudcost-dashboard/internal/api/handlers"
	"github.com/finn/cloudcost-dashboard/internal/api/middleware"
	"github.com/finn/cloudcost-dashboard/internal/directory"
	"github.com/finn/cloudcost-dashboard/internal/domain"
	"github.com/finn/cloudcost-dashboard/internal/service"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(services *service.Services, roster *directory.Directory) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.CORS)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(services.Session)
	dashboardHandler := handlers.NewDashboardHandler(services.Provider, roster)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public auth routes
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)

			// Protected auth routes
			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(services.Session))
				r.Get("/me", authHandler.Me)
				r.Post("/logout", authHandler.Logout)
				r.Put("/profile", authHandler.UpdateProfile)
				r.Post("/password", authHandler.ChangePassword)
			})
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(services.Session))

			// Dashboard section payloads, any authenticated role
			r.Get("/sections/{name}", dashboardHandler.Section)

			// Budget requests: anyone lists and files; only manager and
			// above review (hierarchy guard)
			r.Route("/budget-requests", func(r chi.Router) {
				r.Get("/", dashboardHandler.ListBudgetRequests)
				r.Post("/", dashboardHandler.CreateBudgetRequest)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireMinimumRole(domain.RoleManager))
					r.Post("/{id}/approve", dashboardHandler.ApproveBudgetRequest)
					r.Post("/{id}/reject", dashboardHandler.RejectBudgetRequest)
				})
			})

			// User roster: admin allow-list, deliberately not hierarchical
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAnyRole(domain.RoleAdmin))
				r.Get("/users", dashboardHandler.Users)
			})
		})
	})

	return r
}
