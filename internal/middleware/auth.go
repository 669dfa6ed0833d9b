package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"loneus/cv-builder/internal/services"
)

const identityKey = "identity"

// TokenVerifier is the part of the auth service the middleware needs.
type TokenVerifier interface {
	VerifyToken(token string) (*services.Identity, error)
}

// RequireOwner checks the Bearer token and stores the caller's identity in
// the request locals. Requests without a valid token never reach the handler.
func RequireOwner(verifier TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "unauthorized: token not provided",
			})
		}

		token, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "unauthorized: invalid token format",
			})
		}

		identity, err := verifier.VerifyToken(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "unauthorized: invalid token",
			})
		}

		c.Locals(identityKey, identity)
		return c.Next()
	}
}

// Identity returns the caller stored by RequireOwner, or nil.
func Identity(c *fiber.Ctx) *services.Identity {
	identity, _ := c.Locals(identityKey).(*services.Identity)
	return identity
}

// OwnerID returns the caller's owner id, or "" when unauthenticated.
func OwnerID(c *fiber.Ctx) string {
	if identity := Identity(c); identity != nil {
		return identity.OwnerID
	}
	return ""
}
