package services

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"sync"
	"time"

	"community-level-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Minimum levels gating user-facing operations.
const (
	BioMinLevel       = 20
	CustomMsgMinLevel = 20
	BirthdayMinLevel  = 50
	GiftMinLevel      = 150
	RebirthMinLevel   = 200

	GiftCooldown   = 24 * time.Hour
	GiftDuration   = time.Hour
	GiftMultiplier = 2.0

	VoiceTickXP = 7
)

// ValidationError marks a request rejected before any state mutation.
// Handlers surface it to the user as a 400 instead of a server error.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func validationErr(format string, args ...interface{}) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// AwardResult reports the outcome of one processed award.
type AwardResult struct {
	FinalXP       int64     `json:"final_xp"`
	LeveledUp     bool      `json:"leveled_up"`
	NewLevel      int       `json:"new_level"`
	CustomMessage string    `json:"-"`
	Breakdown     Breakdown `json:"breakdown"`
}

// ProgressionService owns every mutation of UserProgress. All award paths —
// chat, voice, salary, admin grants — funnel through Award so per-actor
// read-modify-write stays serialized.
type ProgressionService struct {
	DB          *gorm.DB
	Resolver    *MultiplierResolver
	Boosts      *BoostService
	Reconciler  *RoleReconciler
	Audit       *AuditObserver
	Notify      Notifier
	Leaderboard *LeaderboardService

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewProgressionService(db *gorm.DB, resolver *MultiplierResolver, boosts *BoostService, reconciler *RoleReconciler, audit *AuditObserver, notify Notifier, leaderboard *LeaderboardService) *ProgressionService {
	return &ProgressionService{
		DB:          db,
		Resolver:    resolver,
		Boosts:      boosts,
		Reconciler:  reconciler,
		Audit:       audit,
		Notify:      notify,
		Leaderboard: leaderboard,
		locks:       make(map[string]*sync.Mutex),
	}
}

// actorLock returns the per-member mutex, creating it on first use. Awards
// for the same member must never be in flight concurrently.
func (s *ProgressionService) actorLock(userID, guildID string) *sync.Mutex {
	key := userID + ":" + guildID
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[key] = lock
	}
	return lock
}

// advanceLevels runs the level-up loop: subtract thresholds while the pool
// covers them, stopping at the cap with xp clamped to the cap threshold and
// no overflow carried past it.
func advanceLevels(xp int64, level int) (int64, int, bool) {
	leveledUp := false
	for xp >= models.XPThreshold(level) {
		if level >= models.MaxLevel {
			xp = models.XPThreshold(models.MaxLevel)
			break
		}
		xp -= models.XPThreshold(level)
		level++
		leveledUp = true
	}
	return xp, level, leveledUp
}

// EnsureProgressRecord ensures a UserProgress row exists (idempotent).
// A missing record is not an error: it materializes at level 1 / 0 xp.
func (s *ProgressionService) EnsureProgressRecord(userID, guildID string) (*models.UserProgress, error) {
	var prog models.UserProgress
	err := s.DB.Where("user_id = ? AND guild_id = ?", userID, guildID).First(&prog).Error
	if err == gorm.ErrRecordNotFound {
		prog = models.UserProgress{
			ID:                uuid.NewString(),
			UserID:            userID,
			GuildID:           guildID,
			XP:                0,
			Level:             models.MinLevel,
			RebirthCount:      0,
			Bio:               "No bio set.",
			SponsorMultiplier: 1.0,
		}
		if err := s.DB.Create(&prog).Error; err != nil {
			return nil, err
		}
		return &prog, nil
	}
	if err != nil {
		return nil, err
	}
	return &prog, nil
}

// memberRoles reads the member's held roles from the gateway mirror. An
// unsynced member simply has no roles yet.
func (s *ProgressionService) memberRoles(userID, guildID string) []string {
	var mirror models.MemberMirror
	err := s.DB.Where("user_id = ? AND guild_id = ?", userID, guildID).First(&mirror).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			log.Printf("[Progression] DB error loading member mirror %s/%s: %v", userID, guildID, err)
		}
		return nil
	}
	return mirror.Roles()
}

// Award applies one raw XP amount through the multiplier stack and level
// curve. It serializes per actor, persists xp/level plus the rolling
// counters atomically, and triggers role reconciliation on level-up.
func (s *ProgressionService) Award(userID, guildID, channelID string, raw int64, now time.Time) (*AwardResult, error) {
	lock := s.actorLock(userID, guildID)
	lock.Lock()
	defer lock.Unlock()
	return s.awardLocked(userID, guildID, channelID, raw, now)
}

func (s *ProgressionService) awardLocked(userID, guildID, channelID string, raw int64, now time.Time) (*AwardResult, error) {
	prog, err := s.EnsureProgressRecord(userID, guildID)
	if err != nil {
		return nil, err
	}

	if raw <= 0 {
		return &AwardResult{NewLevel: prog.Level, CustomMessage: prog.CustomLevelUpMessage}, nil
	}

	heldRoles := s.memberRoles(userID, guildID)
	breakdown, err := s.Resolver.Resolve(prog, channelID, heldRoles, now)
	if err != nil {
		return nil, err
	}

	// Truncation, not rounding: the level curve must stay reproducible.
	finalXP := int64(float64(raw) * breakdown.Total())

	if s.Audit != nil {
		s.Audit.Observe(userID, guildID, finalXP, breakdown)
	}

	newXP, newLevel, leveledUp := advanceLevels(prog.XP+finalXP, prog.Level)

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		prog.XP = newXP
		prog.Level = newLevel
		prog.WeeklyXP += finalXP
		prog.MonthlyXP += finalXP
		return tx.Save(prog).Error
	})
	if err != nil {
		return nil, err
	}

	if leveledUp && s.Reconciler != nil {
		plan, err := s.Reconciler.Reconcile(guildID, heldRoles, newLevel)
		if err != nil {
			log.Printf("[Progression] Role reconcile failed for %s/%s: %v", userID, guildID, err)
		} else {
			s.Reconciler.Apply(guildID, userID, plan)
		}
	}

	s.Leaderboard.RecordAward(context.Background(), guildID, userID, finalXP)

	return &AwardResult{
		FinalXP:       finalXP,
		LeveledUp:     leveledUp,
		NewLevel:      newLevel,
		CustomMessage: prog.CustomLevelUpMessage,
		Breakdown:     breakdown,
	}, nil
}

// onCooldown reports whether a chat message at now is still inside the
// member's cooldown window. A message at exactly NextEligibleAt is eligible.
func onCooldown(nextEligibleAt, now time.Time) bool {
	return now.Before(nextEligibleAt)
}

// HandleChatActivity processes one chat message: lifetime message count,
// cooldown gate, randomized raw amount, award, new randomized cooldown,
// level-up announcement. Returns nil when the member is still on cooldown.
func (s *ProgressionService) HandleChatActivity(userID, guildID, channelID string, now time.Time) (*AwardResult, error) {
	lock := s.actorLock(userID, guildID)
	lock.Lock()
	defer lock.Unlock()

	prog, err := s.EnsureProgressRecord(userID, guildID)
	if err != nil {
		return nil, err
	}

	// Every message counts toward the lifetime total, awarded or not.
	err = s.DB.Model(&models.UserProgress{}).
		Where("user_id = ? AND guild_id = ?", userID, guildID).
		UpdateColumn("message_count", gorm.Expr("message_count + 1")).Error
	if err != nil {
		return nil, err
	}

	if onCooldown(prog.NextEligibleAt, now) {
		return nil, nil
	}

	raw := int64(15 + rand.Intn(11)) // [15, 25]
	result, err := s.awardLocked(userID, guildID, channelID, raw, now)
	if err != nil {
		return nil, err
	}

	cooldown := time.Duration(15+rand.Intn(16)) * time.Second // [15s, 30s]
	err = s.DB.Model(&models.UserProgress{}).
		Where("user_id = ? AND guild_id = ?", userID, guildID).
		UpdateColumn("next_eligible_at", now.Add(cooldown)).Error
	if err != nil {
		return nil, err
	}

	if result.LeveledUp {
		s.announceLevelUp(userID, guildID, channelID, result)
	}
	return result, nil
}

// announceLevelUp routes the rendered message to the guild's level channel
// when configured, else back to the channel the activity came from.
func (s *ProgressionService) announceLevelUp(userID, guildID, originChannelID string, result *AwardResult) {
	if s.Notify == nil {
		return
	}
	target := originChannelID
	var settings models.GuildSettings
	if err := s.DB.Where("guild_id = ?", guildID).First(&settings).Error; err == nil && settings.LevelChannelID != "" {
		target = settings.LevelChannelID
	}
	if target == "" {
		return
	}
	content := RenderLevelUp(userID, result.NewLevel, result.CustomMessage)
	if err := s.Notify.Announce(target, content); err != nil {
		log.Printf("[Progression] Failed to announce level-up for %s: %v", userID, err)
	}
}

// applyRebirth validates the level gate and applies one rebirth in place:
// back to level 1 with zero xp, rebirth count up by exactly one.
func applyRebirth(prog *models.UserProgress) error {
	if prog.Level < RebirthMinLevel {
		return validationErr("you must be Level %d to rebirth", RebirthMinLevel)
	}
	prog.Level = models.MinLevel
	prog.XP = 0
	prog.RebirthCount++
	return nil
}

// Rebirth resets a capped member to level 1 / 0 xp for one more permanent
// multiplier step.
func (s *ProgressionService) Rebirth(userID, guildID string) (int, error) {
	lock := s.actorLock(userID, guildID)
	lock.Lock()
	defer lock.Unlock()

	prog, err := s.EnsureProgressRecord(userID, guildID)
	if err != nil {
		return 0, err
	}
	if err := applyRebirth(prog); err != nil {
		return 0, err
	}
	if err := s.DB.Save(prog).Error; err != nil {
		return 0, err
	}
	return prog.RebirthCount, nil
}

// giftGate checks the gifter's level and 24-hour cooldown. The cooldown is
// absolute: it applies no matter who the target is, and the rejection
// message reports whole hours remaining.
func giftGate(prog *models.UserProgress, now time.Time) error {
	if prog.Level < GiftMinLevel {
		return validationErr("you must be Level %d to gift a boost", GiftMinLevel)
	}
	if elapsed := now.Sub(prog.LastBoostGiftAt); elapsed < GiftCooldown {
		hoursLeft := int((GiftCooldown - elapsed).Hours())
		return validationErr("you can gift again in %d hours", hoursLeft)
	}
	return nil
}

// GiftBoost grants a friend a temporary 2x boost. Gated on the gifter's
// level and a 24-hour cooldown regardless of target.
func (s *ProgressionService) GiftBoost(gifterID, targetID, guildID string, now time.Time) error {
	if targetID == gifterID {
		return validationErr("you cannot boost yourself")
	}

	lock := s.actorLock(gifterID, guildID)
	lock.Lock()
	defer lock.Unlock()

	prog, err := s.EnsureProgressRecord(gifterID, guildID)
	if err != nil {
		return err
	}
	if err := giftGate(prog, now); err != nil {
		return err
	}

	if err := s.Boosts.Grant(targetID, guildID, GiftDuration, GiftMultiplier, now); err != nil {
		return err
	}
	prog.LastBoostGiftAt = now
	return s.DB.Save(prog).Error
}

// SetLevel force-sets a member's level and zeroes xp (admin operation).
func (s *ProgressionService) SetLevel(userID, guildID string, level int) error {
	if level < models.MinLevel || level > models.MaxLevel {
		return validationErr("level must be between %d and %d", models.MinLevel, models.MaxLevel)
	}

	lock := s.actorLock(userID, guildID)
	lock.Lock()
	defer lock.Unlock()

	prog, err := s.EnsureProgressRecord(userID, guildID)
	if err != nil {
		return err
	}
	prog.Level = level
	prog.XP = 0
	return s.DB.Save(prog).Error
}

// SetRebirth force-sets a member's rebirth count (admin operation).
func (s *ProgressionService) SetRebirth(userID, guildID string, count int) error {
	if count < 0 {
		return validationErr("rebirth count cannot be negative")
	}

	lock := s.actorLock(userID, guildID)
	lock.Lock()
	defer lock.Unlock()

	prog, err := s.EnsureProgressRecord(userID, guildID)
	if err != nil {
		return err
	}
	prog.RebirthCount = count
	return s.DB.Save(prog).Error
}

// Sponsor tiers grant a permanent personal bonus, folded additively into
// the role tier so sponsorship cannot compound with boosting roles.
var SponsorTiers = map[string]float64{
	"bronze": 1.1,
	"silver": 1.25,
	"gold":   1.5,
}

// GrantSponsorTier sets the member's sponsor multiplier (admin operation).
func (s *ProgressionService) GrantSponsorTier(userID, guildID, tier string) (float64, error) {
	mult, ok := SponsorTiers[strings.ToLower(tier)]
	if !ok {
		return 0, validationErr("unknown sponsor tier %q (bronze, silver or gold)", tier)
	}

	lock := s.actorLock(userID, guildID)
	lock.Lock()
	defer lock.Unlock()

	prog, err := s.EnsureProgressRecord(userID, guildID)
	if err != nil {
		return 0, err
	}
	prog.SponsorMultiplier = mult
	if err := s.DB.Save(prog).Error; err != nil {
		return 0, err
	}
	return mult, nil
}

// SetBio updates the member's rank-card bio (Level 20+, max 100 chars).
func (s *ProgressionService) SetBio(userID, guildID, text string) error {
	prog, err := s.EnsureProgressRecord(userID, guildID)
	if err != nil {
		return err
	}
	if prog.Level < BioMinLevel {
		return validationErr("you must be Level %d to set a bio", BioMinLevel)
	}
	if len(text) > 100 {
		return validationErr("bio is too long (max 100 chars)")
	}
	prog.Bio = text
	return s.DB.Save(prog).Error
}

// SetCustomLevelUpMessage stores a personal level-up template (Level 20+).
// The template must reference at least one placeholder.
func (s *ProgressionService) SetCustomLevelUpMessage(userID, guildID, message string) error {
	prog, err := s.EnsureProgressRecord(userID, guildID)
	if err != nil {
		return err
	}
	if prog.Level < CustomMsgMinLevel {
		return validationErr("you must be Level %d to set a custom message", CustomMsgMinLevel)
	}
	if !strings.Contains(message, "{user}") && !strings.Contains(message, "{level}") {
		return validationErr("message must contain {user} or {level}")
	}
	prog.CustomLevelUpMessage = message
	return s.DB.Save(prog).Error
}

// SetBirthday stores the member's day-month (Level 50+).
func (s *ProgressionService) SetBirthday(userID, guildID string, day, month int) error {
	prog, err := s.EnsureProgressRecord(userID, guildID)
	if err != nil {
		return err
	}
	if prog.Level < BirthdayMinLevel {
		return validationErr("you must be Level %d to set your birthday", BirthdayMinLevel)
	}
	birthday, err := FormatBirthday(day, month)
	if err != nil {
		return err
	}
	prog.Birthday = birthday
	return s.DB.Save(prog).Error
}

// FormatBirthday validates a day-month pair and renders it as "DD-MM".
// February 29 is accepted; year-specific validation would reject leap-day
// birthdays.
func FormatBirthday(day, month int) (string, error) {
	if month < 1 || month > 12 || day < 1 {
		return "", validationErr("invalid date")
	}
	daysInMonth := [...]int{31, 29, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}
	if day > daysInMonth[month-1] {
		return "", validationErr("invalid date")
	}
	return fmt.Sprintf("%02d-%02d", day, month), nil
}
