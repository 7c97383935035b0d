package models

import (
	"strings"
	"time"
)

// MemberMirror is a local snapshot of gateway-side member state (held roles,
// voice presence). The member sync worker keeps it fresh; the passive accrual
// jobs read it so they never call the platform on the hot path.
type MemberMirror struct {
	ID      string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserID  string `gorm:"uniqueIndex:idx_member_user_guild;not null" json:"user_id"`
	GuildID string `gorm:"uniqueIndex:idx_member_user_guild;not null" json:"guild_id"`

	Username string `json:"username"`
	RoleIDs  string `gorm:"type:text" json:"role_ids"` // comma-joined

	InVoice      bool `gorm:"default:false" json:"in_voice"`
	SelfDeafened bool `gorm:"default:false" json:"self_deafened"`
	IsBot        bool `gorm:"default:false" json:"is_bot"`

	SyncedAt  time.Time `json:"synced_at"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// Roles splits the stored comma-joined role list.
func (m *MemberMirror) Roles() []string {
	if m.RoleIDs == "" {
		return nil
	}
	parts := strings.Split(m.RoleIDs, ",")
	roles := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			roles = append(roles, p)
		}
	}
	return roles
}
