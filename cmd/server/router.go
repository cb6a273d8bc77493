package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/taskfleet/taskfleet/internal/api"
	apimiddleware "github.com/taskfleet/taskfleet/internal/api/middleware"
)

// setupRouter configures the application router with all routes and
// middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(apimiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(
		app.userStore,
		app.tokenService,
		app.hasher,
		app.hasher,
		app.notifier,
		app.config.Auth,
		app.logger,
	)
	userHandler := api.NewUserHandler(app.userStore, app.cache, app.logger)
	taskHandler := api.NewTaskHandler(app.taskStore, app.userStore, app.notifier, app.logger)
	authMiddleware := apimiddleware.NewAuthMiddleware(app.tokenService, app.userStore)

	r.Route("/api/v1", func(r chi.Router) {
		// Public authentication endpoints. Developer invitation is the
		// exception: it requires an authenticated manager.
		r.Route("/auth", func(r chi.Router) {
			r.Post("/manager-sign-up/", authHandler.ManagerSignUp)
			r.Post("/developer-sign-up/", authHandler.DeveloperSignUp)
			r.Post("/access-token/", authHandler.Login)
			r.Post("/refresh-token/", authHandler.RefreshToken)

			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.Authenticate)
				r.Use(authMiddleware.RequireManager)
				r.Post("/developer-invitation/", authHandler.DeveloperInvitation)
			})
		})

		r.Route("/user", func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Get("/me/", userHandler.Me)
			r.Get("/managers/", userHandler.Managers)
			r.Get("/developers/", userHandler.Developers)
		})

		r.Route("/task", func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Read endpoints for any authenticated user.
			r.Get("/", taskHandler.List)
			r.Get("/me/", taskHandler.ListMine)
			r.Get("/{task_id}/", taskHandler.GetByID)
			r.Get("/{task_id}/assigners", taskHandler.Assignees)

			// Mutations are manager-only.
			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.RequireManager)
				r.Post("/", taskHandler.Create)
				r.Put("/{task_id}", taskHandler.Update)
				r.Delete("/{task_id}", taskHandler.Delete)
				r.Post("/{task_id}/user/{user_id}", taskHandler.Assign)
				r.Delete("/{task_id}/user/{user_id}", taskHandler.Unassign)
			})
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
