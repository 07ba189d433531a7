package middleware

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// IdempotencyMiddleware replays the cached response of a mutating request that
// carries an X-Correlation-ID already seen within ttl. Keys are scoped to the
// signed-in admin so two operators cannot collide on the same id.
// Requests to exemptPaths always reach the handler; those are reloads whose
// answer must never be served from cache.
func IdempotencyMiddleware(redisClient *redis.Client, ttl time.Duration, exemptPaths ...string) fiber.Handler {
	exempt := make(map[string]struct{}, len(exemptPaths))
	for _, p := range exemptPaths {
		exempt[strings.TrimSuffix(p, "/")] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		switch c.Method() {
		case fiber.MethodPost, fiber.MethodPatch, fiber.MethodPut, fiber.MethodDelete:
		default:
			return c.Next()
		}
		if _, ok := exempt[strings.TrimSuffix(c.Path(), "/")]; ok {
			return c.Next()
		}

		correlationID := c.Get("X-Correlation-ID")
		if correlationID == "" || redisClient == nil {
			return c.Next()
		}

		userID, _ := c.Locals(UserIDKey).(string)
		key := fmt.Sprintf("idempotency:%s:%s", userID, correlationID)

		cached, err := redisClient.Get(c.UserContext(), key).Bytes()
		if err == nil && len(cached) > 0 {
			c.Set("X-Idempotent-Replay", "true")
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			return c.Send(cached)
		}

		if err := c.Next(); err != nil {
			return err
		}

		statusCode := c.Response().StatusCode()
		if statusCode >= 200 && statusCode < 300 {
			// the response buffer is reused after the handler returns
			body := append([]byte(nil), c.Response().Body()...)
			if len(body) > 0 {
				setCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				if err := redisClient.Set(setCtx, key, body, ttl).Err(); err != nil {
					log.Printf("[Idempotency] failed to cache response for %s: %v", correlationID, err)
				}
			}
		}

		return nil
	}
}
