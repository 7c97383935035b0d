package models

import "time"

// LevelRole maps a level to the reward role earned at that level.
// At most one role per level per guild; reward roles replace each other
// (linear tier ladder, not a badge collection).
type LevelRole struct {
	ID        string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	GuildID   string    `gorm:"uniqueIndex:idx_level_role_guild_level;not null" json:"guild_id"`
	Level     int       `gorm:"uniqueIndex:idx_level_role_guild_level;not null" json:"level"`
	RoleID    string    `gorm:"not null" json:"role_id"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
