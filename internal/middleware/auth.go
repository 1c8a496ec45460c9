// Package middleware provides authentication and authorization middleware for the application.
package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// LocalUserID is the fiber.Locals key holding the authenticated user id.
const LocalUserID = "userID"

// TokenValidator resolves a bearer token to a user id.
type TokenValidator interface {
	Validate(token string) (userID string, ok bool)
}

func bearerToken(c *fiber.Ctx) (string, bool) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// OptionalAuth attaches the caller's user id when a valid bearer token is
// present. Missing or invalid tokens continue as anonymous.
func OptionalAuth(tokens TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if raw, ok := bearerToken(c); ok {
			if userID, valid := tokens.Validate(raw); valid {
				c.Locals(LocalUserID, userID)
			}
		}
		return c.Next()
	}
}

// AuthRequired rejects requests that did not authenticate through OptionalAuth.
func AuthRequired(c *fiber.Ctx) error {
	if CurrentUserID(c) == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid or expired token",
			"code":  "UNAUTHORIZED",
		})
	}
	return c.Next()
}

// CurrentUserID returns the authenticated user id, or "" for anonymous callers.
func CurrentUserID(c *fiber.Ctx) string {
	if uid, ok := c.Locals(LocalUserID).(string); ok {
		return uid
	}
	return ""
}
