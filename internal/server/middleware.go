package server

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"restaurant-api/internal/common/config"
	"restaurant-api/internal/common/logger"
	"restaurant-api/internal/common/metrics"
	"restaurant-api/internal/common/observability"
)

// newCORS leaves fiber's allow-all default in place when no origin list is
// configured.
func newCORS(cfg config.CORSConfig) fiber.Handler {
	if cfg.Unrestricted() {
		return cors.New()
	}
	return cors.New(cors.Config{
		AllowOrigins: strings.Join(cfg.AllowOrigins, ","),
		AllowMethods: cfg.AllowMethods,
		AllowHeaders: cfg.AllowHeaders,
	})
}

// observe renders chain errors itself so the final status is known when the
// access log line and metrics are written.
func observe(log logger.Logger, obs *observability.Observability) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		metrics.HTTPRequestsInFlight.Inc()
		defer metrics.HTTPRequestsInFlight.Dec()

		if chainErr := c.Next(); chainErr != nil {
			if err := c.App().Config().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		elapsed := time.Since(start)
		status := c.Response().StatusCode()
		route := c.Route().Path
		method := c.Method()

		metrics.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
		obs.RecordRequest(c.UserContext(), route, status, elapsed)

		log.Info("request handled", map[string]interface{}{
			"method":    method,
			"path":      c.Path(),
			"status":    status,
			"latencyMs": elapsed.Milliseconds(),
			"requestId": c.GetRespHeader(fiber.HeaderXRequestID),
		})
		return nil
	}
}
