// Package server wires handlers, middleware and routes into a Fiber app.
package server

import (
	"errors"
	"time"

	"friendgift/internal/handlers"
	"friendgift/internal/middleware"
	"friendgift/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// ServiceName labels the exported metrics.
const ServiceName = "friendgift"

// Deps is everything the HTTP layer needs.
type Deps struct {
	Auth    *services.AuthService
	Friends *services.FriendService
	Tokens  middleware.TokenVerifier
	Logger  *zap.Logger

	// HealthCheck reports whether the backing store is reachable. Nil means
	// always healthy.
	HealthCheck func() error

	CORSAllowOrigins string
	AccessLog        bool
}

// New builds the Fiber app with all routes registered.
func New(deps Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      ServiceName,
		ErrorHandler: errorHandler(deps.Logger),
	})

	app.Use(recover.New())
	if deps.AccessLog {
		app.Use(logger.New())
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: deps.CORSAllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))
	app.Use(middleware.Prometheus(ServiceName))

	app.Get("/health", healthHandler(deps.HealthCheck, deps.Logger))
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")
	handlers.NewAuthHandler(deps.Auth, deps.Logger).RegisterRoutes(api)

	protected := api.Group("", middleware.AuthRequired(deps.Tokens, deps.Logger))
	handlers.NewFriendHandler(deps.Friends, deps.Logger).RegisterRoutes(protected)
	handlers.NewIdeaHandler(deps.Friends, deps.Logger).RegisterRoutes(protected)

	return app
}

func healthHandler(check func() error, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		now := time.Now().UTC().Format(time.RFC3339)
		if check != nil {
			if err := check(); err != nil {
				log.Warn("health check failed", zap.Error(err))
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
					"status": "unhealthy",
					"time":   now,
				})
			}
		}
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   now,
		})
	}
}

// errorHandler renders errors that escape the handlers as {"message": ...}.
func errorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		msg := "Internal server error"
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			msg = fe.Message
		} else {
			log.Error("unhandled error", zap.String("path", c.Path()), zap.Error(err))
		}
		return c.Status(code).JSON(fiber.Map{"message": msg})
	}
}
