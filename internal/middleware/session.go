package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	SessionCookieName  = "vill.sid"
	SessionRedisPrefix = "session:"
	sessionMaxAge      = 24 * time.Hour
)

// Session loads the redis-backed session named by the vill.sid cookie and exposes its "user"
// entry under Locals("user"). Session ids may carry the "s:id.signature" form of signed cookies.
// Sessions are written by the account service; this backend only reads and refreshes them.
func Session(rdb *redis.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID := c.Cookies(SessionCookieName)
		if strings.HasPrefix(sessionID, "s:") {
			sessionID = strings.SplitN(sessionID[2:], ".", 2)[0]
		}
		c.Locals("session_id", sessionID)
		c.Locals(userLocal, nil)

		if sessionID == "" || rdb == nil {
			return c.Next()
		}

		ctx := context.Background()
		key := SessionRedisPrefix + sessionID
		b, err := rdb.Get(ctx, key).Bytes()
		if err != nil {
			if err != redis.Nil {
				log.Warn().Err(err).Msg("session lookup failed")
			}
			return c.Next()
		}
		var data map[string]interface{}
		if err := json.Unmarshal(b, &data); err != nil {
			log.Warn().Err(err).Msg("session decode failed")
			return c.Next()
		}
		if u, ok := data["user"]; ok {
			c.Locals(userLocal, u)
			rdb.Expire(ctx, key, sessionMaxAge)
		}
		return c.Next()
	}
}

// GetSessionID returns the current session ID from context.
func GetSessionID(c *fiber.Ctx) string {
	sid, _ := c.Locals("session_id").(string)
	return sid
}
