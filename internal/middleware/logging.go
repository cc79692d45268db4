// Package middleware provides HTTP middleware for the application.
package middleware

import (
	"fmt"
	"log/slog"
	"time"

	"quill/internal/observability"

	"github.com/gofiber/fiber/v2"
)

// Logger is the structured logger shared by middleware and the database layer.
var Logger = observability.GlobalLogger

// ContextMiddleware injects the request ID from Fiber locals into the request
// context so downstream layers can correlate log lines.
func ContextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if rid := c.Locals("requestid"); rid != nil {
			c.SetUserContext(observability.WithRequestID(c.UserContext(), fmt.Sprintf("%v", rid)))
		}
		return c.Next()
	}
}

// StructuredLogger returns a Fiber middleware for logging requests using slog.
func StructuredLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := c.Response().StatusCode()
		latency := time.Since(start)

		fields := []any{
			slog.Int("status", status),
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.String("ip", c.IP()),
			slog.Duration("latency", latency),
			slog.String("user_agent", c.Get("User-Agent")),
		}

		if uid := c.Locals("userID"); uid != nil {
			fields = append(fields, slog.Any("user_id", uid))
		}

		if rid := c.Locals("requestid"); rid != nil {
			fields = append(fields, slog.Any("request_id", rid))
		}

		if err != nil {
			fields = append(fields, slog.String("error", err.Error()))
			Logger.Error("request failed", fields...)
		} else {
			Logger.Info("request processed", fields...)
		}

		return err
	}
}
