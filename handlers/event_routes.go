// handlers/event_routes.go
package handlers

import (
	"errors"
	"time"

	"community-level-system/middleware"
	"community-level-system/services"

	"github.com/gofiber/fiber/v2"
)

// respondError maps engine errors onto HTTP statuses: validation failures
// are the caller's problem, everything else is ours.
func respondError(c *fiber.Ctx, err error) error {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": verr.Reason,
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "internal error",
		"cause": err.Error(),
	})
}

// SetupEventRoutes registers the gateway-forwarded activity intake.
func SetupEventRoutes(app *fiber.App, progression *services.ProgressionService) {
	securedGroup := app.Group("/", middleware.UserContextMiddleware())

	// One chat message observed by the gateway. Cooldowns, the randomized
	// raw amount and the level-up announcement all happen engine-side.
	securedGroup.Post("/events/chat", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		type Req struct {
			GuildID   string `json:"guild_id"`
			ChannelID string `json:"channel_id"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}
		if req.GuildID == "" || req.ChannelID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "guild_id and channel_id are required",
			})
		}

		result, err := progression.HandleChatActivity(userID, req.GuildID, req.ChannelID, time.Now())
		if err != nil {
			return respondError(c, err)
		}
		if result == nil {
			return c.JSON(fiber.Map{"awarded": false, "reason": "cooldown"})
		}
		return c.JSON(fiber.Map{
			"awarded":    true,
			"final_xp":   result.FinalXP,
			"leveled_up": result.LeveledUp,
			"new_level":  result.NewLevel,
		})
	})
}
