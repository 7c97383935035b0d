package models

import "time"

// ActiveBoost is a time-bounded temporary XP multiplier held by one member.
// Expired rows are purged lazily on the award path, not by a sweeper.
type ActiveBoost struct {
	ID         string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserID     string    `gorm:"index:idx_boost_user_guild;not null" json:"user_id"`
	GuildID    string    `gorm:"index:idx_boost_user_guild;not null" json:"guild_id"`
	EndsAt     time.Time `gorm:"index;not null" json:"ends_at"`
	Multiplier float64   `gorm:"not null" json:"multiplier"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// Active reports whether the boost is still live at the given time.
func (b *ActiveBoost) Active(now time.Time) bool {
	return b.EndsAt.After(now)
}
