package services

import (
	"log"

	"community-level-system/models"

	"gorm.io/gorm"
)

// SuspiciousXPThreshold flags abnormally large single awards for inspection.
// Crossing it never blocks the award; it only reports.
const SuspiciousXPThreshold = 150

// AuditObserver is a stateless pass-through: every award above the threshold
// emits an alert to the guild's audit channel, unthrottled.
type AuditObserver struct {
	DB     *gorm.DB
	Notify Notifier
}

func NewAuditObserver(db *gorm.DB, notify Notifier) *AuditObserver {
	return &AuditObserver{DB: db, Notify: notify}
}

// Observe reports the award if it crosses the threshold and the guild has an
// audit destination configured.
func (o *AuditObserver) Observe(userID, guildID string, finalXP int64, b Breakdown) {
	if finalXP <= SuspiciousXPThreshold {
		return
	}

	var settings models.GuildSettings
	if err := o.DB.Where("guild_id = ?", guildID).First(&settings).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			log.Printf("[Audit] DB error loading settings for %s: %v", guildID, err)
		}
		return
	}
	if settings.AuditChannelID == "" {
		return
	}

	if o.Notify == nil {
		return
	}
	if err := o.Notify.Announce(settings.AuditChannelID, RenderAudit(userID, finalXP, b)); err != nil {
		log.Printf("[Audit] Failed to deliver alert for %s: %v", userID, err)
	}
}
