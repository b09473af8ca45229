// Package server assembles the HTTP surface of the service.
package server

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"restaurant-api/internal/common/config"
	apperrors "restaurant-api/internal/common/errors"
	"restaurant-api/internal/common/logger"
	"restaurant-api/internal/common/observability"
	getrestaurants "restaurant-api/internal/handlers/get-restaurants"
)

type Server struct {
	app    *fiber.App
	config *config.Config
	logger logger.Logger
}

func New(cfg *config.Config, restaurants *getrestaurants.Handler, obs *observability.Observability, log logger.Logger) *Server {
	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		ReadTimeout:           config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout:          config.GetDuration(cfg.Server.WriteTimeout),
		DisableStartupMessage: true,
		ErrorHandler:          apperrors.NewFiberErrorHandler(log),
	})

	app.Use(requestid.New(requestid.Config{
		Header:    fiber.HeaderXRequestID,
		Generator: uuid.NewString,
	}))
	app.Use(observe(log, obs))
	app.Use(recover.New())
	app.Use(newCORS(cfg.CORS))

	app.Get(getrestaurants.Route, restaurants.Handle)
	app.Get("/health", statusHandler("healthy"))
	app.Get("/ready", statusHandler("ready"))
	if cfg.Metrics.Enabled {
		app.Get(cfg.Metrics.Path, adaptor.HTTPHandler(promhttp.Handler()))
	}

	return &Server{app: app, config: cfg, logger: log}
}

// App exposes the underlying fiber app, mainly for app.Test in tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Start blocks until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("http server listening", map[string]interface{}{
		"address": s.config.Server.Address,
	})
	return s.app.Listen(s.config.Server.Address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func statusHandler(status string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": status,
			"time":   time.Now().Format(time.RFC3339),
		})
	}
}
