package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// LoginRateLimit limits sign-in attempts per client IP and mobile or email using Redis if available.
func LoginRateLimit(cache *redis.Client, maxPerMin int) fiber.Handler {
	if maxPerMin <= 0 {
		maxPerMin = 5
	}
	return func(c *fiber.Ctx) error {
		if cache == nil {
			return c.Next() // no-op without Redis
		}
		var req struct {
			Mobile string `json:"mobile"`
			Email  string `json:"email"`
		}
		_ = c.BodyParser(&req)
		subject := strings.TrimSpace(req.Mobile)
		if subject == "" {
			subject = strings.ToLower(strings.TrimSpace(req.Email))
		}
		// Scoped by client IP so one caller cannot lock out another's number.
		key := "rl:login:" + c.IP() + ":" + subject
		cnt, err := cache.Incr(c.UserContext(), key).Result()
		if err == nil && cnt == 1 {
			cache.Expire(c.UserContext(), key, time.Minute)
		}
		if err != nil {
			return c.Next() // fail-open on cache errors
		}
		if cnt > int64(maxPerMin) {
			return fiber.NewError(http.StatusTooManyRequests, "too many login attempts, try again later")
		}
		return c.Next()
	}
}
