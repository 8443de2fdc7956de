package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/nithinv16/DukaaOnWebsite/internal/cachecontrol"
	"github.com/nithinv16/DukaaOnWebsite/internal/geolocation"
	"github.com/nithinv16/DukaaOnWebsite/internal/ratelimit"
	"github.com/nithinv16/DukaaOnWebsite/internal/services"
)

// RateLimit rejects a client IP that used up its window with 429 and Retry-After.
// The check runs before the body is parsed.
func RateLimit(limiter ratelimit.Limiter, window time.Duration) fiber.Handler {
	rlErr := &services.RateLimitError{RetryAfter: window}

	return func(c *fiber.Ctx) error {
		ip := geolocation.ClientIP(c.Get, c.IP())
		if !limiter.IsRateLimited(ip) {
			return c.Next()
		}

		cachecontrol.RateLimited(c, rlErr.RetryAfterSeconds())
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"success": false,
			"error":   rlErr.Error(),
		})
	}
}
