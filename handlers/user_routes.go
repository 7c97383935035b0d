// handlers/user_routes.go
package handlers

import (
	"strconv"
	"time"

	"community-level-system/middleware"
	"community-level-system/models"
	"community-level-system/services"
	"community-level-system/utils"

	"github.com/gofiber/fiber/v2"
)

// SetupUserRoutes registers the member-facing surface: rank card data,
// leaderboards, rebirth, boost gifting and profile settings.
func SetupUserRoutes(app *fiber.App, progression *services.ProgressionService, leaderboard *services.LeaderboardService) {
	securedGroup := app.Group("/", middleware.UserContextMiddleware())

	securedGroup.Get("/user/rank", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		guildID := c.Query("guild_id")
		channelID := c.Query("channel_id") // optional: shows the channel boost where the command ran
		if guildID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "guild_id is required",
			})
		}

		prog, err := progression.EnsureProgressRecord(userID, guildID)
		if err != nil {
			return respondError(c, err)
		}

		heldRoles := []string{}
		var mirror models.MemberMirror
		if err := progression.DB.Where("user_id = ? AND guild_id = ?", userID, guildID).First(&mirror).Error; err == nil {
			heldRoles = mirror.Roles()
		}

		breakdown, err := progression.Resolver.Resolve(prog, channelID, heldRoles, time.Now())
		if err != nil {
			return respondError(c, err)
		}

		threshold := models.XPThreshold(prog.Level)
		percent := float64(prog.XP) / float64(threshold) * 100
		if percent > 100 {
			percent = 100
		}

		return c.JSON(fiber.Map{
			"user_id":          userID,
			"guild_id":         guildID,
			"level":            prog.Level,
			"xp":               prog.XP,
			"xp_threshold":     threshold,
			"progress_percent": int(percent),
			"rebirth":          prog.RebirthCount,
			"rebirth_roman":    utils.ToRoman(prog.RebirthCount),
			"bio":              prog.Bio,
			"weekly_xp":        prog.WeeklyXP,
			"monthly_xp":       prog.MonthlyXP,
			"message_count":    prog.MessageCount,
			"multipliers":      breakdown,
			"total_multiplier": breakdown.Total(),
		})
	})

	securedGroup.Get("/user/leaderboard", func(c *fiber.Ctx) error {
		guildID := c.Query("guild_id")
		period := c.Query("period", services.PeriodAllTime)
		limit, _ := strconv.Atoi(c.Query("limit", "10"))
		if guildID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "guild_id is required",
			})
		}
		if period != services.PeriodWeekly && period != services.PeriodMonthly && period != services.PeriodAllTime {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "period must be weekly, monthly or alltime",
			})
		}

		entries, err := leaderboard.Top(c.Context(), guildID, period, limit)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{
			"guild_id": guildID,
			"period":   period,
			"entries":  entries,
		})
	})

	securedGroup.Post("/user/rebirth", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		type Req struct {
			GuildID string `json:"guild_id"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}

		count, err := progression.Rebirth(userID, req.GuildID)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{
			"message":       "rebirth complete",
			"rebirth_count": count,
			"rebirth_roman": utils.ToRoman(count),
		})
	})

	securedGroup.Post("/user/boost-gift", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		type Req struct {
			GuildID      string `json:"guild_id"`
			TargetUserID string `json:"target_user_id"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}

		if err := progression.GiftBoost(userID, req.TargetUserID, req.GuildID, time.Now()); err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{
			"message":          "boost gifted",
			"target_user_id":   req.TargetUserID,
			"multiplier":       services.GiftMultiplier,
			"duration_seconds": int(services.GiftDuration.Seconds()),
		})
	})

	securedGroup.Post("/user/profile/bio", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		type Req struct {
			GuildID string `json:"guild_id"`
			Text    string `json:"text"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}

		if err := progression.SetBio(userID, req.GuildID, req.Text); err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"message": "bio updated"})
	})

	securedGroup.Post("/user/profile/levelup-message", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		type Req struct {
			GuildID string `json:"guild_id"`
			Message string `json:"message"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}

		if err := progression.SetCustomLevelUpMessage(userID, req.GuildID, req.Message); err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"message": "level-up message updated"})
	})

	securedGroup.Post("/user/profile/birthday", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		type Req struct {
			GuildID string `json:"guild_id"`
			Day     int    `json:"day"`
			Month   int    `json:"month"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}

		if err := progression.SetBirthday(userID, req.GuildID, req.Day, req.Month); err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"message": "birthday saved"})
	})
}
