// handlers/admin_routes.go
package handlers

import (
	"time"

	"community-level-system/middleware"
	"community-level-system/services"

	"github.com/gofiber/fiber/v2"
)

// requireAdmin guards the admin surface. The gateway forwards the caller's
// platform roles; only "admin" may reach configuration and dev tools.
func requireAdmin(c *fiber.Ctx) error {
	roles, _ := c.Locals("user_roles").([]string)
	for _, role := range roles {
		if role == "admin" {
			return c.Next()
		}
	}
	return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
		"error": "administrator role required",
	})
}

// SetupAdminRoutes registers guild configuration and developer tooling.
func SetupAdminRoutes(app *fiber.App, progression *services.ProgressionService, settings *services.SettingsService) {
	adminGroup := app.Group("/s/admin", middleware.UserContextMiddleware(), requireAdmin)

	adminGroup.Post("/multipliers/role", func(c *fiber.Ctx) error {
		type Req struct {
			GuildID    string  `json:"guild_id"`
			RoleID     string  `json:"role_id"`
			Multiplier float64 `json:"multiplier"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}
		if err := settings.SetRoleMultiplier(req.GuildID, req.RoleID, req.Multiplier); err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"message": "role multiplier set", "role_id": req.RoleID, "multiplier": req.Multiplier})
	})

	adminGroup.Post("/multipliers/channel", func(c *fiber.Ctx) error {
		type Req struct {
			GuildID    string  `json:"guild_id"`
			ChannelID  string  `json:"channel_id"`
			Multiplier float64 `json:"multiplier"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}
		if err := settings.SetChannelMultiplier(req.GuildID, req.ChannelID, req.Multiplier); err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"message": "channel multiplier set", "channel_id": req.ChannelID, "multiplier": req.Multiplier})
	})

	adminGroup.Post("/multipliers/event", func(c *fiber.Ctx) error {
		type Req struct {
			GuildID    string  `json:"guild_id"`
			Multiplier float64 `json:"multiplier"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}
		if err := settings.SetEventMultiplier(req.GuildID, req.Multiplier); err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"message": "event multiplier set", "multiplier": req.Multiplier})
	})

	adminGroup.Post("/level-roles", func(c *fiber.Ctx) error {
		type Req struct {
			GuildID string `json:"guild_id"`
			Level   int    `json:"level"`
			RoleID  string `json:"role_id"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}
		if err := settings.SetLevelRole(req.GuildID, req.Level, req.RoleID); err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"message": "level role set", "level": req.Level, "role_id": req.RoleID})
	})

	adminGroup.Post("/salaries/role", func(c *fiber.Ctx) error {
		type Req struct {
			GuildID      string `json:"guild_id"`
			RoleID       string `json:"role_id"`
			HourlyAmount int64  `json:"hourly_amount"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}
		if err := settings.SetSalaryRole(req.GuildID, req.RoleID, req.HourlyAmount); err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"message": "salary role set", "role_id": req.RoleID, "hourly_amount": req.HourlyAmount})
	})

	adminGroup.Post("/salaries/level100", func(c *fiber.Ctx) error {
		type Req struct {
			GuildID      string `json:"guild_id"`
			HourlyAmount int64  `json:"hourly_amount"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}
		if err := settings.SetLevel100Salary(req.GuildID, req.HourlyAmount); err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"message": "level 100 salary set", "hourly_amount": req.HourlyAmount})
	})

	adminGroup.Post("/roles/voice", func(c *fiber.Ctx) error {
		type Req struct {
			GuildID string `json:"guild_id"`
			RoleID  string `json:"role_id"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}
		if err := settings.SetVoiceRole(req.GuildID, req.RoleID); err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"message": "voice role set", "role_id": req.RoleID})
	})

	adminGroup.Post("/channels/levelup", func(c *fiber.Ctx) error {
		type Req struct {
			GuildID   string `json:"guild_id"`
			ChannelID string `json:"channel_id"` // empty falls back to the origin channel
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}
		if err := settings.SetLevelChannel(req.GuildID, req.ChannelID); err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"message": "level-up channel set"})
	})

	adminGroup.Post("/channels/birthday", func(c *fiber.Ctx) error {
		type Req struct {
			GuildID   string `json:"guild_id"`
			ChannelID string `json:"channel_id"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}
		if err := settings.SetBirthdayChannel(req.GuildID, req.ChannelID); err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"message": "birthday channel set"})
	})

	adminGroup.Post("/channels/audit", func(c *fiber.Ctx) error {
		type Req struct {
			GuildID   string `json:"guild_id"`
			ChannelID string `json:"channel_id"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}
		if err := settings.SetAuditChannel(req.GuildID, req.ChannelID); err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"message": "audit channel set"})
	})

	adminGroup.Post("/reset-day", func(c *fiber.Ctx) error {
		type Req struct {
			GuildID string `json:"guild_id"`
			Weekday int    `json:"weekday"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}
		if err := settings.SetWeeklyResetDay(req.GuildID, req.Weekday); err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"message": "weekly reset day set", "weekday": req.Weekday})
	})

	adminGroup.Post("/sponsor", func(c *fiber.Ctx) error {
		type Req struct {
			GuildID string `json:"guild_id"`
			UserID  string `json:"user_id"`
			Tier    string `json:"tier"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}
		mult, err := progression.GrantSponsorTier(req.UserID, req.GuildID, req.Tier)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"message": "sponsor tier granted", "user_id": req.UserID, "tier": req.Tier, "multiplier": mult})
	})

	adminGroup.Post("/users/level", func(c *fiber.Ctx) error {
		type Req struct {
			GuildID string `json:"guild_id"`
			UserID  string `json:"user_id"`
			Level   int    `json:"level"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}
		if err := progression.SetLevel(req.UserID, req.GuildID, req.Level); err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"message": "level set", "user_id": req.UserID, "level": req.Level})
	})

	adminGroup.Post("/users/rebirth", func(c *fiber.Ctx) error {
		type Req struct {
			GuildID string `json:"guild_id"`
			UserID  string `json:"user_id"`
			Count   int    `json:"count"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}
		if err := progression.SetRebirth(req.UserID, req.GuildID, req.Count); err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"message": "rebirth count set", "user_id": req.UserID, "count": req.Count})
	})

	adminGroup.Post("/xp/grant", func(c *fiber.Ctx) error {
		type Req struct {
			GuildID string `json:"guild_id"`
			UserID  string `json:"user_id"`
			XP      int64  `json:"xp"`
			Reason  string `json:"reason"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}
		if req.XP < 1 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "xp must be at least 1"})
		}

		result, err := progression.Award(req.UserID, req.GuildID, "", req.XP, time.Now())
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{
			"message":    "XP granted successfully",
			"user_id":    req.UserID,
			"final_xp":   result.FinalXP,
			"leveled_up": result.LeveledUp,
			"new_level":  result.NewLevel,
			"reason":     req.Reason,
		})
	})
}
