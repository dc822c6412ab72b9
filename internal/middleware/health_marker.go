package middleware

import (
	"context"
	"errors"
	"strings"
	"time"

	"villfinder-backend/internal/application/health"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// HealthMarker records request stats in Redis (skip /, /health*, /metrics, favicon).
func HealthMarker(rdb *redis.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Path()
		if rdb == nil || path == "/" || path == "/reset" || strings.HasPrefix(path, "/health") ||
			strings.HasPrefix(path, "/metrics") || strings.HasPrefix(path, "/favicon") {
			return c.Next()
		}

		ctx := context.Background()
		start := time.Now()
		health.MarkRequest(ctx, rdb, health.RequestLog{
			Time:   start,
			IP:     c.IP(),
			Path:   c.OriginalURL(),
			Method: c.Method(),
		})

		err := c.Next()

		// Errors reach the global handler after this middleware returns, so the status is derived here.
		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
		}
		health.MarkResponse(ctx, rdb, time.Since(start), status)
		return err
	}
}
