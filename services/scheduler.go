// services/scheduler.go
package services

import (
	"context"
	"log"
	"time"

	"community-level-system/models"

	"github.com/go-co-op/gocron/v2"
)

// shouldResetMonthly gates the monthly counter reset to the first hour of
// the first day of the month. The reset job ticks hourly, so exactly one
// tick per month satisfies this.
func shouldResetMonthly(now time.Time) bool {
	return now.Day() == 1 && now.Hour() == 0
}

// shouldResetWeekly gates the weekly counter reset to the first hour of the
// guild's configured reset weekday.
func shouldResetWeekly(now time.Time, weekday int) bool {
	return int(now.Weekday()) == weekday && now.Hour() == 0
}

// StartAccrualScheduler launches the periodic accrual loops: voice XP every
// minute, role salaries every hour, rolling-counter resets on wall-clock
// boundaries and birthday announcements daily. Per-member failures are
// logged and never abort a loop. The returned scheduler is shut down with
// the service.
func (s *ProgressionService) StartAccrualScheduler() gocron.Scheduler {
	sched, _ := gocron.NewScheduler()

	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(s.runVoiceAccrual),
	)
	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(s.runSalaryAccrual),
	)
	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(s.runCounterResets),
	)
	_, _ = sched.NewJob(
		gocron.DurationJob(24*time.Hour),
		gocron.NewTask(s.runBirthdayAnnouncements),
	)

	sched.Start()
	log.Println("✅ Accrual scheduler running (voice 1m, salary 1h, resets 1h, birthdays 24h)")
	return sched
}

// runVoiceAccrual awards a fixed tick of XP to every member currently in a
// voice channel who is not self-deafened, not a bot, and holds at least one
// voice-XP role.
func (s *ProgressionService) runVoiceAccrual() {
	now := time.Now()

	var voiceRoles []models.VoiceRole
	if err := s.DB.Find(&voiceRoles).Error; err != nil {
		log.Printf("[Scheduler] DB error loading voice roles: %v", err)
		return
	}
	if len(voiceRoles) == 0 {
		return
	}
	voiceIDs := make(map[string]bool, len(voiceRoles))
	for _, vr := range voiceRoles {
		voiceIDs[vr.RoleID] = true
	}

	var members []models.MemberMirror
	err := s.DB.Where("in_voice = ? AND self_deafened = ? AND is_bot = ?", true, false, false).
		Find(&members).Error
	if err != nil {
		log.Printf("[Scheduler] DB error loading voice members: %v", err)
		return
	}

	for _, member := range members {
		eligible := false
		for _, roleID := range member.Roles() {
			if voiceIDs[roleID] {
				eligible = true
				break
			}
		}
		if !eligible {
			continue
		}
		if _, err := s.Award(member.UserID, member.GuildID, "", VoiceTickXP, now); err != nil {
			log.Printf("[Scheduler] Voice XP failed for %s/%s: %v", member.UserID, member.GuildID, err)
		}
	}
}

// runSalaryAccrual pays hourly role salaries plus the level-100 bonus.
func (s *ProgressionService) runSalaryAccrual() {
	now := time.Now()

	var salaryRoles []models.SalaryRole
	if err := s.DB.Find(&salaryRoles).Error; err != nil {
		log.Printf("[Scheduler] DB error loading salary roles: %v", err)
		return
	}
	salaries := make(map[string]int64, len(salaryRoles))
	for _, sr := range salaryRoles {
		salaries[sr.RoleID] = sr.HourlyAmount
	}

	var settingsRows []models.GuildSettings
	if err := s.DB.Find(&settingsRows).Error; err != nil {
		log.Printf("[Scheduler] DB error loading guild settings: %v", err)
		return
	}
	level100Salaries := make(map[string]int64, len(settingsRows))
	for _, gs := range settingsRows {
		level100Salaries[gs.GuildID] = gs.Level100Salary
	}

	var members []models.MemberMirror
	if err := s.DB.Where("is_bot = ?", false).Find(&members).Error; err != nil {
		log.Printf("[Scheduler] DB error loading members: %v", err)
		return
	}

	for _, member := range members {
		var total int64
		for _, roleID := range member.Roles() {
			total += salaries[roleID]
		}

		if bonus := level100Salaries[member.GuildID]; bonus > 0 {
			var prog models.UserProgress
			err := s.DB.Where("user_id = ? AND guild_id = ?", member.UserID, member.GuildID).
				First(&prog).Error
			if err == nil && prog.Level >= 100 {
				total += bonus
			}
		}

		if total <= 0 {
			continue
		}
		if _, err := s.Award(member.UserID, member.GuildID, "", total, now); err != nil {
			log.Printf("[Scheduler] Salary XP failed for %s/%s: %v", member.UserID, member.GuildID, err)
		}
	}
}

// runCounterResets zeroes the rolling counters on their calendar boundaries
// and drops the matching leaderboard sets. Awards processed earlier in the
// same tick are wiped with everything else; awards after the reset start
// the new period.
func (s *ProgressionService) runCounterResets() {
	now := time.Now()
	ctx := context.Background()

	var guildIDs []string
	if err := s.DB.Model(&models.UserProgress{}).Distinct("guild_id").Pluck("guild_id", &guildIDs).Error; err != nil {
		log.Printf("[Scheduler] DB error listing guilds: %v", err)
		return
	}

	if shouldResetMonthly(now) {
		if err := s.DB.Model(&models.UserProgress{}).Where("monthly_xp > 0").
			Update("monthly_xp", 0).Error; err != nil {
			log.Printf("[Scheduler] Monthly reset failed: %v", err)
		} else {
			log.Println("🔄 Monthly XP counters reset")
		}
		for _, guildID := range guildIDs {
			s.Leaderboard.ResetMonthly(ctx, guildID)
		}
	}

	var settingsRows []models.GuildSettings
	if err := s.DB.Find(&settingsRows).Error; err != nil {
		log.Printf("[Scheduler] DB error loading guild settings: %v", err)
		return
	}
	resetDays := make(map[string]int, len(settingsRows))
	for _, gs := range settingsRows {
		resetDays[gs.GuildID] = gs.WeeklyResetDay
	}

	for _, guildID := range guildIDs {
		day, ok := resetDays[guildID]
		if !ok {
			day = int(time.Monday)
		}
		if !shouldResetWeekly(now, day) {
			continue
		}
		if err := s.DB.Model(&models.UserProgress{}).
			Where("guild_id = ? AND weekly_xp > 0", guildID).
			Update("weekly_xp", 0).Error; err != nil {
			log.Printf("[Scheduler] Weekly reset failed for %s: %v", guildID, err)
			continue
		}
		s.Leaderboard.ResetWeekly(ctx, guildID)
		log.Printf("🔄 Weekly XP counters reset for guild %s", guildID)
	}
}

// runBirthdayAnnouncements emits one announcement per member whose stored
// day-month matches today, into the guild's configured birthday channel.
func (s *ProgressionService) runBirthdayAnnouncements() {
	if s.Notify == nil {
		return
	}
	today := time.Now().Format("02-01")

	var users []models.UserProgress
	if err := s.DB.Where("birthday = ?", today).Find(&users).Error; err != nil {
		log.Printf("[Scheduler] DB error loading birthdays: %v", err)
		return
	}

	channels := make(map[string]string)
	for _, user := range users {
		channelID, ok := channels[user.GuildID]
		if !ok {
			var settings models.GuildSettings
			if err := s.DB.Where("guild_id = ?", user.GuildID).First(&settings).Error; err == nil {
				channelID = settings.BirthdayChannelID
			}
			channels[user.GuildID] = channelID
		}
		if channelID == "" {
			continue
		}
		if err := s.Notify.Announce(channelID, RenderBirthday(user.UserID)); err != nil {
			log.Printf("[Scheduler] Birthday announcement failed for %s: %v", user.UserID, err)
		}
	}
}
