package services

import (
	"errors"
	"testing"
	"time"

	"community-level-system/models"
)

// TestAdvanceLevelsBelowThreshold: 120 XP on a fresh level-1 user (threshold
// 155) stays at level 1.
func TestAdvanceLevelsBelowThreshold(t *testing.T) {
	xp, level, leveledUp := advanceLevels(120, 1)
	if xp != 120 || level != 1 || leveledUp {
		t.Fatalf("got xp=%d level=%d leveledUp=%v, want 120/1/false", xp, level, leveledUp)
	}
}

// TestAdvanceLevelsCrossesOneThreshold carries the remainder into the new
// level, never negative.
func TestAdvanceLevelsCrossesOneThreshold(t *testing.T) {
	total := models.XPThreshold(1) + 40
	xp, level, leveledUp := advanceLevels(total, 1)
	if !leveledUp || level != 2 {
		t.Fatalf("expected level 2, got level=%d leveledUp=%v", level, leveledUp)
	}
	if xp != 40 {
		t.Fatalf("expected remainder 40, got %d", xp)
	}
}

// TestAdvanceLevelsExactThreshold lands at the new level with zero xp.
func TestAdvanceLevelsExactThreshold(t *testing.T) {
	xp, level, leveledUp := advanceLevels(models.XPThreshold(1), 1)
	if !leveledUp || level != 2 || xp != 0 {
		t.Fatalf("got xp=%d level=%d leveledUp=%v, want 0/2/true", xp, level, leveledUp)
	}
}

// TestAdvanceLevelsMultipleLevels walks the curve level by level.
func TestAdvanceLevelsMultipleLevels(t *testing.T) {
	total := models.XPThreshold(1) + models.XPThreshold(2) + models.XPThreshold(3) + 7
	xp, level, leveledUp := advanceLevels(total, 1)
	if !leveledUp || level != 4 {
		t.Fatalf("expected level 4, got level=%d leveledUp=%v", level, leveledUp)
	}
	if xp != 7 {
		t.Fatalf("expected remainder 7, got %d", xp)
	}
}

// TestAdvanceLevelsCapClamp: a capped user stays at 200 with xp clamped to
// the cap threshold, no overflow carry.
func TestAdvanceLevelsCapClamp(t *testing.T) {
	capXP := models.XPThreshold(models.MaxLevel)
	xp, level, leveledUp := advanceLevels(capXP+999999, models.MaxLevel)
	if level != models.MaxLevel {
		t.Fatalf("level moved past cap: %d", level)
	}
	if xp != capXP {
		t.Fatalf("xp not clamped to cap threshold: got %d, want %d", xp, capXP)
	}
	if leveledUp {
		t.Fatal("capped user must not report a level-up")
	}
}

// TestAdvanceLevelsReachesCapMidLoop stops at the cap even when the pool
// would cover further thresholds.
func TestAdvanceLevelsReachesCapMidLoop(t *testing.T) {
	total := models.XPThreshold(199) + 10*models.XPThreshold(models.MaxLevel)
	xp, level, leveledUp := advanceLevels(total, 199)
	if level != models.MaxLevel || !leveledUp {
		t.Fatalf("expected level 200 with level-up, got level=%d leveledUp=%v", level, leveledUp)
	}
	if xp != models.XPThreshold(models.MaxLevel) {
		t.Fatalf("xp not clamped after reaching cap: got %d", xp)
	}
}

// TestAdvanceLevelsZeroAward never changes state.
func TestAdvanceLevelsZeroAward(t *testing.T) {
	xp, level, leveledUp := advanceLevels(42, 7)
	if xp != 42 || level != 7 || leveledUp {
		t.Fatalf("zero award changed state: xp=%d level=%d leveledUp=%v", xp, level, leveledUp)
	}
}

// TestFinalXPTruncation: final XP is floored, not rounded.
func TestFinalXPTruncation(t *testing.T) {
	raw := int64(15)
	breakdown := Breakdown{Rebirth: 1, Role: 1.3, Channel: 1, Temp: 1, Global: 1}
	finalXP := int64(float64(raw) * breakdown.Total())
	if finalXP != 19 { // 19.5 truncates to 19
		t.Fatalf("expected 19, got %d", finalXP)
	}
}

// TestFormatBirthday accepts real day-month pairs and zero-pads them.
func TestFormatBirthday(t *testing.T) {
	got, err := FormatBirthday(3, 7)
	if err != nil {
		t.Fatalf("FormatBirthday returned error: %v", err)
	}
	if got != "03-07" {
		t.Fatalf("expected 03-07, got %q", got)
	}
	if got, err = FormatBirthday(29, 2); err != nil || got != "29-02" {
		t.Fatalf("leap day rejected: %q, %v", got, err)
	}
}

// TestFormatBirthdayRejectsInvalid surfaces a validation error without
// touching state.
func TestFormatBirthdayRejectsInvalid(t *testing.T) {
	invalid := [][2]int{{0, 1}, {32, 1}, {31, 4}, {30, 2}, {1, 0}, {1, 13}}
	for _, c := range invalid {
		if _, err := FormatBirthday(c[0], c[1]); err == nil {
			t.Errorf("FormatBirthday(%d, %d) accepted an invalid date", c[0], c[1])
		}
	}
}

// TestApplyRebirthRejectsBelowCap: one level short of the cap is not enough.
func TestApplyRebirthRejectsBelowCap(t *testing.T) {
	prog := models.UserProgress{Level: 199, XP: 5000, RebirthCount: 2}
	err := applyRebirth(&prog)
	if err == nil {
		t.Fatal("rebirth accepted below level 200")
	}
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected a validation error, got %T: %v", err, err)
	}
	if prog.Level != 199 || prog.XP != 5000 || prog.RebirthCount != 2 {
		t.Fatalf("rejected rebirth mutated state: %+v", prog)
	}
}

// TestApplyRebirthAtCap resets to level 1 / 0 xp and bumps the count by
// exactly one.
func TestApplyRebirthAtCap(t *testing.T) {
	prog := models.UserProgress{Level: models.MaxLevel, XP: models.XPThreshold(models.MaxLevel), RebirthCount: 4}
	if err := applyRebirth(&prog); err != nil {
		t.Fatalf("rebirth rejected at the cap: %v", err)
	}
	if prog.Level != models.MinLevel {
		t.Errorf("level = %d, want %d", prog.Level, models.MinLevel)
	}
	if prog.XP != 0 {
		t.Errorf("xp = %d, want 0", prog.XP)
	}
	if prog.RebirthCount != 5 {
		t.Errorf("rebirth count = %d, want 5", prog.RebirthCount)
	}
}

// TestGiftGateLevel rejects gifters below level 150 and admits them at 150.
func TestGiftGateLevel(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	prog := models.UserProgress{Level: GiftMinLevel - 1}
	if err := giftGate(&prog, now); err == nil {
		t.Fatal("gift accepted below the level gate")
	}
	prog.Level = GiftMinLevel
	if err := giftGate(&prog, now); err != nil {
		t.Fatalf("gift rejected at the level gate: %v", err)
	}
}

// TestGiftGateCooldownBoundary: one second short of the full 86400 is still
// rejected; exactly 86400 seconds elapsed is accepted.
func TestGiftGateCooldownBoundary(t *testing.T) {
	lastGift := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	prog := models.UserProgress{Level: GiftMinLevel, LastBoostGiftAt: lastGift}

	if err := giftGate(&prog, lastGift.Add(GiftCooldown-time.Second)); err == nil {
		t.Fatal("gift accepted at 86399s elapsed")
	}
	if err := giftGate(&prog, lastGift.Add(GiftCooldown)); err != nil {
		t.Fatalf("gift rejected at 86400s elapsed: %v", err)
	}
}

// TestGiftGateHoursLeftTruncates: 13.5 hours remaining reports 13 whole
// hours, never rounded up.
func TestGiftGateHoursLeftTruncates(t *testing.T) {
	lastGift := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	prog := models.UserProgress{Level: GiftMinLevel, LastBoostGiftAt: lastGift}

	err := giftGate(&prog, lastGift.Add(10*time.Hour+30*time.Minute))
	if err == nil {
		t.Fatal("gift accepted inside the cooldown")
	}
	if got, want := err.Error(), "you can gift again in 13 hours"; got != want {
		t.Fatalf("cooldown message = %q, want %q", got, want)
	}
}

// TestChatCooldownGate: a message at exactly NextEligibleAt is eligible,
// one nanosecond earlier is not.
func TestChatCooldownGate(t *testing.T) {
	next := time.Date(2026, 8, 30, 12, 0, 30, 0, time.UTC)
	if !onCooldown(next, next.Add(-time.Nanosecond)) {
		t.Error("message before NextEligibleAt not gated")
	}
	if onCooldown(next, next) {
		t.Error("message at exactly NextEligibleAt gated")
	}
	if onCooldown(next, next.Add(time.Second)) {
		t.Error("message after NextEligibleAt gated")
	}
}

// TestGiftBoostExpiryClock: a boost stamped from the gift instant lasts
// exactly GiftDuration on that same clock.
func TestGiftBoostExpiryClock(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	boost := models.ActiveBoost{EndsAt: now.Add(GiftDuration), Multiplier: GiftMultiplier}
	if !boost.Active(now.Add(GiftDuration - time.Second)) {
		t.Error("boost expired before GiftDuration elapsed")
	}
	if boost.Active(now.Add(GiftDuration)) {
		t.Error("boost still active at its end time")
	}
}

// TestSponsorTierLookup covers the configured tiers and rejects unknowns.
func TestSponsorTierLookup(t *testing.T) {
	if SponsorTiers["gold"] != 1.5 || SponsorTiers["silver"] != 1.25 || SponsorTiers["bronze"] != 1.1 {
		t.Fatalf("unexpected sponsor tier table: %v", SponsorTiers)
	}
	if _, ok := SponsorTiers["platinum"]; ok {
		t.Fatal("platinum should not be a sponsor tier")
	}
}
