package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/fleet-dashboard/internal/api/http/handlers"
	"github.com/spec-kit/fleet-dashboard/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Drivers        *handlers.DriversHandler
	Dispatchers    *handlers.DispatchersHandler
	Loads          *handlers.LoadsHandler
	Dashboard      *handlers.DashboardHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	api := app.Group("/api", cfg.AuthMiddleware.Handle)
	write := auth.RequireRole(auth.RoleOperator)

	api.Get("/drivers", cfg.Drivers.List)
	api.Post("/drivers", write, cfg.Drivers.Create)
	api.Put("/drivers/:id", write, cfg.Drivers.Update)
	api.Delete("/drivers/:id", write, cfg.Drivers.Delete)

	api.Get("/dispatchers", cfg.Dispatchers.List)
	api.Get("/dispatchers/:id", cfg.Dispatchers.Get)
	api.Post("/dispatchers", write, cfg.Dispatchers.Create)
	api.Put("/dispatchers/:id", write, cfg.Dispatchers.Update)
	api.Delete("/dispatchers/:id", write, cfg.Dispatchers.Delete)

	api.Get("/loads", cfg.Loads.List)
	api.Post("/loads", write, cfg.Loads.Upsert)
	api.Put("/loads/:id", write, cfg.Loads.Update)
	api.Delete("/loads/:id", write, cfg.Loads.Delete)

	api.Get("/dashboard", cfg.Dashboard.Dashboard)
	api.Get("/status", cfg.Dashboard.Status)
	api.Post("/refresh/:collection", write, cfg.Dashboard.Refresh)

	api.Get("/notifications", cfg.Dashboard.Notifications)
	api.Post("/notifications/:id/read", cfg.Dashboard.MarkNotificationRead)
	api.Get("/preferences", cfg.Dashboard.Preferences)
	api.Put("/preferences", cfg.Dashboard.UpdatePreferences)
}
