package services

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
)

// Notifier accepts rendered messages for delivery. The gateway client is the
// production implementation; tests substitute a recorder.
type Notifier interface {
	Announce(channelID, content string) error
}

// Level-75 gets its own fixed milestone pool, picked at random.
var level75Messages = []string{
	"😲 <@%s> hit **Level 75**! Do you remember what grass looks like?",
	"💀 <@%s> is **Level 75**. Welcome back from your inactivity...",
	"🚨 **Level 75 Alert!** <@%s> has officially been here too long.",
}

// Mention renders a platform user mention.
func Mention(userID string) string {
	return "<@" + userID + ">"
}

// RenderLevelUp picks the announcement text for a level-up, in priority
// order: level-75 milestone, the user's custom template with {user}/{level}
// substituted, else the generic message.
func RenderLevelUp(userID string, newLevel int, customMsg string) string {
	if newLevel == 75 {
		return fmt.Sprintf(level75Messages[rand.Intn(len(level75Messages))], userID)
	}
	if customMsg != "" {
		msg := strings.ReplaceAll(customMsg, "{user}", Mention(userID))
		return strings.ReplaceAll(msg, "{level}", strconv.Itoa(newLevel))
	}
	return fmt.Sprintf("🎉 %s has reached **Level %d**!", Mention(userID), newLevel)
}

// RenderBirthday renders the daily birthday announcement.
func RenderBirthday(userID string) string {
	return fmt.Sprintf("🎂 Happy Birthday %s! Hope you have a fantastic day! 🎉", Mention(userID))
}

// RenderAudit renders a suspicious-award alert with the full tier breakdown.
func RenderAudit(userID string, finalXP int64, b Breakdown) string {
	return fmt.Sprintf(
		"🔎 **Large XP grant**: %s received **%d XP** (rebirth x%.2f · roles x%.2f · channel x%.2f · boost x%.2f · global x%.2f = x%.2f)",
		Mention(userID), finalXP, b.Rebirth, b.Role, b.Channel, b.Temp, b.Global, b.Total(),
	)
}
