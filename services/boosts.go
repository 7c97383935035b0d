package services

import (
	"time"

	"community-level-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BoostService owns temporary multiplier grants. Expired rows are purged
// opportunistically on every lookup, which sits on the award hot path, so
// staleness is bounded by award frequency without a sweeper goroutine.
type BoostService struct {
	DB *gorm.DB
}

func NewBoostService(db *gorm.DB) *BoostService {
	return &BoostService{DB: db}
}

// Grant creates a time-bounded boost for the member. The caller supplies the
// grant instant so the boost's end time and any caller-side cooldown stamps
// come from the same clock reading.
func (s *BoostService) Grant(userID, guildID string, duration time.Duration, multiplier float64, now time.Time) error {
	boost := models.ActiveBoost{
		ID:         uuid.NewString(),
		UserID:     userID,
		GuildID:    guildID,
		EndsAt:     now.Add(duration),
		Multiplier: multiplier,
	}
	return s.DB.Create(&boost).Error
}

// ActiveFor returns the multiplier of an unexpired boost held by the member,
// purging expired rows first so stale boosts are never applied.
func (s *BoostService) ActiveFor(userID, guildID string, now time.Time) (float64, bool, error) {
	if err := s.PurgeExpired(now); err != nil {
		return 0, false, err
	}

	var boost models.ActiveBoost
	err := s.DB.Where("user_id = ? AND guild_id = ? AND ends_at > ?", userID, guildID, now).
		Order("ends_at DESC").
		First(&boost).Error
	if err == gorm.ErrRecordNotFound {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return boost.Multiplier, true, nil
}

// PurgeExpired deletes every boost whose end time has passed.
func (s *BoostService) PurgeExpired(now time.Time) error {
	return s.DB.Where("ends_at < ?", now).Delete(&models.ActiveBoost{}).Error
}
