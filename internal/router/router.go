package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/campus-go-api/internal/config"
	"github.com/noah-isme/campus-go-api/internal/handler"
	"github.com/noah-isme/campus-go-api/internal/middleware"
	"github.com/noah-isme/campus-go-api/internal/models"
	"github.com/noah-isme/campus-go-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AttendanceHandler   *handler.AttendanceHandler
	EventHandler        *handler.EventHandler
	LibraryHandler      *handler.LibraryHandler
	PlacementHandler    *handler.PlacementHandler
	BatchHandler        *handler.BatchHandler
	ScheduleHandler     *handler.ScheduleHandler
	NotificationHandler *handler.NotificationHandler
	JWTMiddleware       fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	facultyOrAdmin := middleware.RequireRole(models.RoleFaculty, models.RoleAdmin)
	adminOnly := middleware.RequireRole(models.RoleAdmin)
	librarianOrAdmin := middleware.RequireRole(models.RoleLibrarian, models.RoleAdmin)

	if deps.AttendanceHandler != nil {
		attendance := api.Group("/attendance", jwtMiddleware)
		deps.AttendanceHandler.Register(attendance)
		deps.AttendanceHandler.RegisterFaculty(attendance.Group("", facultyOrAdmin))
	}

	if deps.EventHandler != nil {
		events := api.Group("/events", jwtMiddleware)
		events.Use("/:id/register", middleware.RateLimit("event-register", 5, time.Minute))
		deps.EventHandler.Register(events)
		deps.EventHandler.RegisterAdmin(events.Group("", adminOnly))
	}

	if deps.LibraryHandler != nil {
		library := api.Group("/library", jwtMiddleware)
		deps.LibraryHandler.Register(library)
		deps.LibraryHandler.RegisterLibrarian(library.Group("", librarianOrAdmin))
	}

	if deps.PlacementHandler != nil {
		placements := api.Group("/placements", jwtMiddleware)
		deps.PlacementHandler.Register(placements)
		deps.PlacementHandler.RegisterAdmin(placements.Group("", adminOnly))
	}

	if deps.BatchHandler != nil {
		batches := api.Group("/batches", jwtMiddleware, adminOnly)
		deps.BatchHandler.Register(batches)
	}

	if deps.ScheduleHandler != nil {
		schedule := api.Group("/schedule", jwtMiddleware)
		deps.ScheduleHandler.Register(schedule)
		deps.ScheduleHandler.RegisterFaculty(schedule.Group("", facultyOrAdmin))
	}

	if deps.NotificationHandler != nil {
		notifications := api.Group("/notifications", jwtMiddleware)
		deps.NotificationHandler.Register(notifications)
		deps.NotificationHandler.RegisterPublisher(notifications.Group("", facultyOrAdmin))
	}
}
