package middleware

import (
	"context"
	"errors"
	"time"

	"villfinder-backend/internal/application/health"
	"villfinder-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// ErrorHandler returns the global error handler. Fiber errors keep their code, anything else is a 500
// that is logged and pushed onto the health error log.
func ErrorHandler(rdb *redis.Client) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal Server Error"

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			message = fe.Message
		}
		if code >= fiber.StatusInternalServerError {
			log.Error().Err(err).Str("trace_id", GetTraceID(c)).Str("path", c.Path()).Msg("request failed")
			_ = health.RecordError(context.Background(), rdb, health.ErrorLog{
				Time:    time.Now(),
				Method:  c.Method(),
				Path:    c.OriginalURL(),
				Status:  code,
				Message: err.Error(),
				TraceID: GetTraceID(c),
			})
		}
		return response.Error(c, message, code, nil)
	}
}
