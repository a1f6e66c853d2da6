package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/club-access-service/internal/api/http/handlers"
	"github.com/spec-kit/club-access-service/internal/auth"
	"github.com/spec-kit/club-access-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Metrics        *handlers.MetricsHandler
	Auth           *handlers.AuthHandler
	RFID           *handlers.RFIDHandler
	Devices        *handlers.DeviceHandler
	Rooms          *handlers.RoomHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Metrics.Get)

	api := app.Group("/api")
	api.Post("/auth/login", cfg.Auth.Login)

	protected := api.Group("", cfg.AuthMiddleware.Handle, auth.RequireRole())

	rfid := protected.Group("/rfid")
	rfid.Get("/read", cfg.RFID.Read)
	rfid.Get("/bind", cfg.RFID.Bind)
	rfid.Post("/confirm", cfg.RFID.Confirm)
	rfid.Post("/cancel", cfg.RFID.Cancel)
	rfid.Get("/history", cfg.RFID.History)
	rfid.Get("/logs", cfg.RFID.Logs)
	rfid.Post("/bulk-assign", cfg.RFID.BulkAssign)

	unifi := protected.Group("/unifi")
	unifi.Get("/devices", cfg.Devices.List)
	unifi.Get("/devices/:device_id/status", cfg.Devices.Status)

	rooms := protected.Group("/rooms")
	rooms.Get("/", cfg.Rooms.List)
	rooms.Get("/:id", cfg.Rooms.Get)

	requireAdmin := auth.RequireRole(domain.OperatorRoleAdmin)
	rooms.Post("/", requireAdmin, cfg.Rooms.Create)
	rooms.Put("/:id", requireAdmin, cfg.Rooms.Update)
	rooms.Delete("/:id", requireAdmin, cfg.Rooms.Delete)
}
