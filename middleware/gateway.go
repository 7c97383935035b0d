// middleware/gateway.go
package middleware

import (
	"log"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// GatewayAuthMiddleware validates the Bearer token from the Gateway. Every
// request must come through the platform gateway; there is no public surface.
// Accepted requests are not logged: the chat intake fires on every message,
// so only rejections are worth a line.
func GatewayAuthMiddleware() fiber.Handler {
	expectedToken := os.Getenv("LEVEL_SERVICE_TOKEN")
	if expectedToken == "" {
		log.Fatal("❌ LEVEL_SERVICE_TOKEN is not set — service cannot authenticate Gateway")
	}

	return func(c *fiber.Ctx) error {
		// TrimPrefix leaves a raw token untouched, so both "Bearer <token>"
		// and a bare token value authenticate.
		token := strings.TrimPrefix(c.Get("Authorization"), "Bearer ")
		if token == "" {
			log.Printf("🚫 [GATEWAY_AUTH] Missing Authorization header for %s", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "gateway authentication token missing",
			})
		}

		if token != expectedToken {
			log.Printf("❌ [GATEWAY_AUTH] Invalid token for %s (got prefix: %.10s...)", c.Path(), token)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid gateway authentication token",
			})
		}

		return c.Next()
	}
}
