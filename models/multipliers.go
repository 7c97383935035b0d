package models

import "time"

// RoleMultiplier marks a role as an XP booster. Stored multipliers are
// >= 1.0 by construction; multiple boosting roles stack additively.
type RoleMultiplier struct {
	RoleID     string    `gorm:"primaryKey" json:"role_id"`
	GuildID    string    `gorm:"index;not null" json:"guild_id"`
	Multiplier float64   `gorm:"not null" json:"multiplier"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// ChannelMultiplier marks a channel as an XP booster. Only one channel is
// active per event, so channel multipliers never stack.
type ChannelMultiplier struct {
	ChannelID  string    `gorm:"primaryKey" json:"channel_id"`
	GuildID    string    `gorm:"index;not null" json:"guild_id"`
	Multiplier float64   `gorm:"not null" json:"multiplier"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
