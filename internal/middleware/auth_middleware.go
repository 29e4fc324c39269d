package middleware

import (
	"log"
	"strings"

	"shortly/internal/security"

	"github.com/gofiber/fiber/v2"
)

// UserIDKey is the Locals key under which Authenticate stores the
// caller's identity.
const UserIDKey = "user_id"

// Authenticate is a Fiber middleware that parses a bearer token when
// one is present. A missing Authorization header is not an error —
// public routes (code resolution) must work anonymously. A malformed
// scheme or an invalid token is rejected here.
func Authenticate(tokens *security.TokenIssuer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Next()
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Authorization header format must be 'Bearer <token>'",
			})
		}

		userID, err := tokens.Validate(parts[1])
		if err != nil {
			log.Printf("Token validation failed: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		c.Locals(UserIDKey, userID)
		return c.Next()
	}
}

// AuthRequired is a per-route guard rejecting requests that carry no
// authenticated identity.
func AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if UserID(c) == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "You must be logged in to access this resource",
			})
		}
		return c.Next()
	}
}

// UserID returns the authenticated user id attached by Authenticate,
// or "" for anonymous requests.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(UserIDKey).(string)
	return id
}
