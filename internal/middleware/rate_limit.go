package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// DefaultIdentifyPerMinute bounds identify calls per client when no limit is
// configured.
const DefaultIdentifyPerMinute = 20

// RateLimit caps requests per client per minute with a Redis counter. The
// client is the bearer token fingerprint set by ClientToken, else the IP.
// Without Redis, or when Redis fails, requests are let through.
func RateLimit(cache *redis.Client, scope string, perMinute int, logger *slog.Logger) fiber.Handler {
	if perMinute <= 0 {
		perMinute = DefaultIdentifyPerMinute
	}
	return func(c *fiber.Ctx) error {
		if cache == nil {
			return c.Next()
		}

		client, _ := c.Locals(clientFingerprintKey).(string)
		if client == "" {
			client = c.IP()
		}
		window := time.Now().UTC().Truncate(time.Minute).Unix()
		key := "rl:" + scope + ":" + client + ":" + strconv.FormatInt(window, 10)

		ctx, cancel := context.WithTimeout(c.UserContext(), redisBudget)
		defer cancel()

		cnt, err := cache.Incr(ctx, key).Result()
		if err != nil {
			logger.Warn("rate limit counter unavailable", slog.String("scope", scope), slog.Any("error", err))
			return c.Next()
		}
		if cnt == 1 {
			cache.Expire(ctx, key, time.Minute)
		}

		remaining := int64(perMinute) - cnt
		if remaining < 0 {
			remaining = 0
		}
		c.Set("X-RateLimit-Limit", strconv.Itoa(perMinute))
		c.Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if cnt > int64(perMinute) {
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(60-time.Now().UTC().Second()))
			return fiber.NewError(http.StatusTooManyRequests, "too many identify requests, try again later")
		}
		return c.Next()
	}
}
