package models

import "time"

// GuildSettings holds per-guild routing destinations and global tuning.
// Channel IDs left empty disable the corresponding announcement.
type GuildSettings struct {
	GuildID string `gorm:"primaryKey" json:"guild_id"`

	// Routing destinations
	LevelChannelID    string `json:"level_channel_id"`
	BirthdayChannelID string `json:"birthday_channel_id"`
	AuditChannelID    string `json:"audit_channel_id"`

	// Community-wide event multiplier (global tier); 0 means unset (1.0)
	EventMultiplier float64 `json:"event_multiplier" gorm:"default:1.0"`

	// Flat hourly salary for members at level 100+; 0 disables it
	Level100Salary int64 `json:"level100_salary" gorm:"default:0"`

	// Weekday on which WeeklyXP is zeroed (time.Weekday, default Monday)
	WeeklyResetDay int `json:"weekly_reset_day" gorm:"default:1"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
