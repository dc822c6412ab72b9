package middleware

import (
	"villfinder-backend/internal/auth"
	"villfinder-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

const userLocal = "user"

// RequireAuth rejects requests whose session carries no profile with 401.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := auth.CurrentProfile(c.Locals(userLocal))
		if err != nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		c.Locals("auth", p)
		return c.Next()
	}
}

// GetUser returns the session user from Locals (nil if not logged in).
func GetUser(c *fiber.Ctx) interface{} {
	return c.Locals(userLocal)
}

// CurrentProfile returns the profile resolved by RequireAuth, falling back to the raw session user.
func CurrentProfile(c *fiber.Ctx) (*auth.SessionProfile, error) {
	if p, ok := c.Locals("auth").(*auth.SessionProfile); ok && p != nil {
		return p, nil
	}
	return auth.CurrentProfile(GetUser(c))
}
