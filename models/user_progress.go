package models

import (
	"time"

	"gorm.io/gorm"
)

// Level bounds for the progression curve. 200 is a hard cap; rebirth resets
// back to 1 in exchange for a permanent multiplier.
const (
	MinLevel = 1
	MaxLevel = 200
)

// UserProgress tracks leveling state for one member in one guild.
type UserProgress struct {
	ID      string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserID  string `gorm:"uniqueIndex:idx_user_guild;not null" json:"user_id"`
	GuildID string `gorm:"uniqueIndex:idx_user_guild;not null" json:"guild_id"`

	// Core progression
	XP           int64 `json:"xp" gorm:"default:0"`
	Level        int   `json:"level" gorm:"default:1"`
	RebirthCount int   `json:"rebirth_count" gorm:"default:0"`

	// Rolling counters, zeroed on schedule by the reset job
	WeeklyXP  int64 `json:"weekly_xp" gorm:"default:0"`
	MonthlyXP int64 `json:"monthly_xp" gorm:"default:0"`

	// Lifetime counter, informational only
	MessageCount int64 `json:"message_count" gorm:"default:0"`

	// Cooldown gates
	NextEligibleAt  time.Time `json:"next_eligible_at"`
	LastBoostGiftAt time.Time `json:"last_boost_gift_at"`

	// Profile fields, gated by minimum level
	Bio                  string `json:"bio" gorm:"default:'No bio set.'"`
	CustomLevelUpMessage string `json:"custom_level_up_message"`
	Birthday             string `json:"birthday" gorm:"size:5"` // "DD-MM"

	// Permanent personal bonus from a granted sponsor tier (>= 1.0)
	SponsorMultiplier float64 `json:"sponsor_multiplier" gorm:"default:1.0"`

	Timestamps
}

// XPThreshold returns the XP needed to complete the given level.
// The curve is fixed: 5*l^2 + 50*l + 100, strictly increasing.
func XPThreshold(level int) int64 {
	if level < MinLevel {
		level = MinLevel
	}
	l := int64(level)
	return 5*l*l + 50*l + 100
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
