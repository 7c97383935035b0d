package services

import (
	"time"

	"community-level-system/models"

	"gorm.io/gorm"
)

// Breakdown carries the five independent multiplier tiers that feed one
// award. Tiers multiply across; only the role tier is additive inside
// (multiple boosting roles add their bonuses instead of compounding).
type Breakdown struct {
	Rebirth float64 `json:"rebirth"`
	Role    float64 `json:"role"`
	Channel float64 `json:"channel"`
	Temp    float64 `json:"temp"`
	Global  float64 `json:"global"`
}

// Total returns the composite multiplier applied to the raw amount.
func (b Breakdown) Total() float64 {
	return b.Rebirth * b.Role * b.Channel * b.Temp * b.Global
}

// RebirthMultiplier escalates additively per completed rebirth:
// rebirth 3 gives 1.6x, not 1.2^3.
func RebirthMultiplier(rebirthCount int) float64 {
	if rebirthCount < 0 {
		rebirthCount = 0
	}
	return 1.0 + 0.2*float64(rebirthCount)
}

// RoleTier sums the bonuses of every boosting role the member holds, plus
// the personal sponsor bonus. Bonuses below zero are ignored (stored
// multipliers are >= 1.0 by construction, this just refuses penalties).
func RoleTier(heldRoles []string, roleMults map[string]float64, sponsorMult float64) float64 {
	total := 1.0
	for _, roleID := range heldRoles {
		if m, ok := roleMults[roleID]; ok && m > 1.0 {
			total += m - 1.0
		}
	}
	if sponsorMult > 1.0 {
		total += sponsorMult - 1.0
	}
	return total
}

// MultiplierResolver computes the composite XP multiplier for a member at a
// moment in time, consulting guild config and the boost store.
type MultiplierResolver struct {
	DB     *gorm.DB
	Boosts *BoostService
}

func NewMultiplierResolver(db *gorm.DB, boosts *BoostService) *MultiplierResolver {
	return &MultiplierResolver{DB: db, Boosts: boosts}
}

// Resolve builds the full tier breakdown for an award happening in the given
// channel. heldRoles comes from the member mirror; prog supplies rebirth and
// sponsor state.
func (r *MultiplierResolver) Resolve(prog *models.UserProgress, channelID string, heldRoles []string, now time.Time) (Breakdown, error) {
	b := Breakdown{
		Rebirth: RebirthMultiplier(prog.RebirthCount),
		Role:    1.0,
		Channel: 1.0,
		Temp:    1.0,
		Global:  1.0,
	}

	var roleRows []models.RoleMultiplier
	if err := r.DB.Where("guild_id = ?", prog.GuildID).Find(&roleRows).Error; err != nil {
		return b, err
	}
	roleMults := make(map[string]float64, len(roleRows))
	for _, row := range roleRows {
		roleMults[row.RoleID] = row.Multiplier
	}
	b.Role = RoleTier(heldRoles, roleMults, prog.SponsorMultiplier)

	if channelID != "" {
		var cm models.ChannelMultiplier
		err := r.DB.Where("channel_id = ?", channelID).First(&cm).Error
		if err == nil {
			b.Channel = cm.Multiplier
		} else if err != gorm.ErrRecordNotFound {
			return b, err
		}
	}

	temp, ok, err := r.Boosts.ActiveFor(prog.UserID, prog.GuildID, now)
	if err != nil {
		return b, err
	}
	if ok {
		b.Temp = temp
	}

	var settings models.GuildSettings
	err = r.DB.Where("guild_id = ?", prog.GuildID).First(&settings).Error
	if err == nil && settings.EventMultiplier > 0 {
		b.Global = settings.EventMultiplier
	} else if err != nil && err != gorm.ErrRecordNotFound {
		return b, err
	}

	return b, nil
}
