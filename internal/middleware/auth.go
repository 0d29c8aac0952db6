package middleware

import (
	"strings"

	"wandermate/server/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// Auth validates the session token from the cookie (or, as a fallback
// for non-browser clients, the Authorization header) and stores the
// profile identity in the request context.
func Auth(tokens *utils.TokenManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := c.Cookies("token")
		if tokenString == "" {
			header := c.Get("Authorization")
			if after, ok := strings.CutPrefix(header, "Bearer "); ok {
				tokenString = after
			}
		}
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "Unauthorized - No token provided",
			})
		}

		claims, err := tokens.ValidateToken(tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "Unauthorized - Invalid token",
			})
		}

		c.Locals("profileID", claims.ProfileID)
		c.Locals("username", claims.Username)

		return c.Next()
	}
}

// GetProfileID gets the authenticated profile ID from the request context.
func GetProfileID(c *fiber.Ctx) string {
	profileID, ok := c.Locals("profileID").(string)
	if !ok {
		return ""
	}
	return profileID
}

// GetUsername gets the authenticated username from the request context.
func GetUsername(c *fiber.Ctx) string {
	username, ok := c.Locals("username").(string)
	if !ok {
		return ""
	}
	return username
}
