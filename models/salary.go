package models

import "time"

// SalaryRole pays a fixed hourly XP amount to every member holding the role.
type SalaryRole struct {
	RoleID       string    `gorm:"primaryKey" json:"role_id"`
	GuildID      string    `gorm:"index;not null" json:"guild_id"`
	HourlyAmount int64     `gorm:"not null" json:"hourly_amount"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// VoiceRole marks a role as eligible for voice-presence XP.
type VoiceRole struct {
	RoleID    string    `gorm:"primaryKey" json:"role_id"`
	GuildID   string    `gorm:"index;not null" json:"guild_id"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}
