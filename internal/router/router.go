package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/mfgsight/qualitycast/internal/config"
	"github.com/mfgsight/qualitycast/internal/handlers"
	"github.com/mfgsight/qualitycast/internal/logging"
	"github.com/mfgsight/qualitycast/internal/middleware"
	"github.com/mfgsight/qualitycast/internal/services"
)

// Setup configures all routes and middlewares
func Setup(app *fiber.App, logger *logging.Logger, svc *services.AnalyticsService, cfg config.Config) *handlers.Handler {
	h := handlers.New(logger, svc, cfg.Queue.Type)

	// Global middlewares
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization,X-API-Key,X-Request-ID",
	}))
	app.Use(logging.FiberMiddleware(logger))

	// Health check (no auth required)
	app.Get("/health", h.Health)

	// API v1 routes (protected by API key)
	v1 := app.Group("/v1", middleware.APIKeyAuth(logger, cfg.Auth))

	analytics := v1.Group("/analytics")
	analytics.Post("/summary", h.Summary)
	analytics.Post("/forecast", h.Forecast)
	analytics.Post("/anomalies", h.Anomalies)
	analytics.Post("/correlation", h.Correlation)
	analytics.Post("/seasonality", h.Seasonality)
	analytics.Post("/batch", h.Batch)
	analytics.Get("/methods", h.Methods)

	// 404 handler
	app.Use(h.NotFound)

	return h
}

// New creates a new Fiber app with configuration
func New(logger *logging.Logger, svc *services.AnalyticsService, cfg config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "QualityCast",
		DisableStartupMessage: true,
		ReadTimeout:           cfg.Server.ReadTimeout,
		WriteTimeout:          cfg.Server.WriteTimeout,
		BodyLimit:             cfg.Server.BodyLimit,
		ErrorHandler:          middleware.ErrorHandler(logger),
	})

	Setup(app, logger, svc, cfg)

	return app
}
