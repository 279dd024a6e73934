package middleware

import (
	"strings"

	"github.com/emregurs3s/karakus-tech-website/internal/auth"
	"github.com/gofiber/fiber/v2"
)

const (
	userIDKey = "userId"
	claimsKey = "claims"
)

// NewAuthMiddleware validates the bearer token locally and stashes the
// claims in Locals for downstream handlers.
func NewAuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Unauthorized: missed header",
			})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Unauthorized: invalid header format",
			})
		}

		claims, err := auth.ValidateToken(parts[1], false)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Unauthorized: invalid token",
			})
		}

		c.Locals(userIDKey, claims.UserID)
		c.Locals(claimsKey, claims)
		return c.Next()
	}
}

// NewRequireRole gates a group behind a role carried in the token.
func NewRequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals(claimsKey).(*auth.Claims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Unauthorized: missed user",
			})
		}

		if !claims.HasRole(role) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"message": "Forbidden: insufficient role",
			})
		}

		return c.Next()
	}
}

// UserID pulls the authenticated user id set by NewAuthMiddleware.
func UserID(c *fiber.Ctx) (int64, bool) {
	id, ok := c.Locals(userIDKey).(int64)
	return id, ok
}
