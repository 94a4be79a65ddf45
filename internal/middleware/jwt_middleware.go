package middleware

import (
	"strings"

	"curio/internal/models"
	"curio/internal/services"

	"github.com/gofiber/fiber/v2"
)

const userKey = "current_user"

// AuthRequired is a Fiber middleware that resolves the bearer access token
// to a user and stores it in the request context. Absence or any token
// failure is a 401; no partial trust.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"kind":   "invalid_token",
				"detail": "Authorization header is required",
			})
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"kind":   "invalid_token",
				"detail": "Authorization header format must be 'Bearer <token>'",
			})
		}

		user, err := authService.ResolveAccessToken(parts[1])
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"kind":   "invalid_token",
				"detail": "Invalid or expired token",
			})
		}

		c.Locals(userKey, user)
		return c.Next()
	}
}

// CurrentUser returns the authenticated user stored by AuthRequired.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userKey).(*models.User)
	return user
}
