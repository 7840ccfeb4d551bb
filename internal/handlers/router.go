package handlers

import (
	"context"
	"time"

	"carcare/internal/config"
	"carcare/internal/middleware"
	"carcare/internal/services"
	"carcare/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Deps are the services the HTTP layer is built on.
type Deps struct {
	Auth     *services.AuthService
	Catalog  *services.CatalogService
	Bookings *services.BookingService
	// Ping checks the database for /health.
	Ping func(ctx context.Context) error
}

// NewApp builds the Fiber app with middleware and every route mounted.
func NewApp(cfg *config.Config, deps Deps, logger zerolog.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: ErrorHandler(logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	})

	app.Use(recover.New(recover.Config{EnableStackTrace: cfg.App.Environment != "production"}))
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(middleware.RequestLogger(logger))
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORS.AllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PATCH,OPTIONS",
	}))

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	app.Get("/health", func(c *fiber.Ctx) error {
		status, code := "healthy", fiber.StatusOK
		dbStatus := "connected"
		if deps.Ping != nil {
			if err := deps.Ping(c.UserContext()); err != nil {
				logger.Error().Err(err).Msg("health check: database ping failed")
				status, code, dbStatus = "unhealthy", fiber.StatusServiceUnavailable, "unreachable"
			}
		}
		return c.Status(code).JSON(fiber.Map{
			"status":   status,
			"time":     time.Now().UTC().Format(time.RFC3339),
			"database": dbStatus,
		})
	})

	api := app.Group("/api", middleware.RateLimit(cfg.RateLimit))
	api.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true, "message": "API is running"})
	})

	validate := validation.New()
	auth := middleware.AuthRequired(deps.Auth, logger)

	NewAuthHandler(deps.Auth, validate).RegisterRoutes(api)
	NewServiceHandler(deps.Catalog, validate).RegisterRoutes(api, auth)
	NewBookingHandler(deps.Bookings, validate).RegisterRoutes(api, auth)

	app.Use(func(c *fiber.Ctx) error {
		return fail(c, fiber.StatusNotFound, "Route not found")
	})

	return app
}
