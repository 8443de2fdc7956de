package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/nithinv16/DukaaOnWebsite/internal/cachecontrol"
	"github.com/nithinv16/DukaaOnWebsite/pkg/auth"
)

// LocalsAdmin holds the admin email after AdminRequired
const LocalsAdmin = "admin"

func unauthorized(c *fiber.Ctx, message string) error {
	cachecontrol.NoStore(c)
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

// AdminRequired accepts only admin access tokens signed with secret
func AdminRequired(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return unauthorized(c, "Authorization header required")
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return unauthorized(c, "Invalid authorization header format")
		}

		claims, err := auth.ValidateAccessToken(parts[1], secret)
		if err != nil || claims.Role != auth.RoleAdmin {
			return unauthorized(c, "Invalid or expired token")
		}

		c.Locals(LocalsAdmin, claims.Subject)
		return c.Next()
	}
}
