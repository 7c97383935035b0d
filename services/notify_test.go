package services

import (
	"strings"
	"testing"
)

// TestRenderLevelUpCustomTemplate substitutes both placeholders.
func TestRenderLevelUpCustomTemplate(t *testing.T) {
	got := RenderLevelUp("42", 30, "GG {user}, welcome to {level}!")
	if got != "GG <@42>, welcome to 30!" {
		t.Fatalf("unexpected rendering: %q", got)
	}
}

// TestRenderLevelUpGeneric falls back when no template is set.
func TestRenderLevelUpGeneric(t *testing.T) {
	got := RenderLevelUp("42", 12, "")
	if !strings.Contains(got, "<@42>") || !strings.Contains(got, "Level 12") {
		t.Fatalf("generic message missing mention or level: %q", got)
	}
}

// TestRenderLevelUpMilestone75 overrides even a custom template at the
// fixed milestone.
func TestRenderLevelUpMilestone75(t *testing.T) {
	got := RenderLevelUp("42", 75, "custom {level}")
	if !strings.Contains(got, "Level 75") {
		t.Fatalf("milestone message missing Level 75: %q", got)
	}
	if strings.Contains(got, "custom") {
		t.Fatalf("custom template should not win at level 75: %q", got)
	}
	if !strings.Contains(got, "<@42>") {
		t.Fatalf("milestone message missing mention: %q", got)
	}
}

// TestRenderAuditIncludesBreakdown surfaces the tier values that produced
// the flagged amount.
func TestRenderAuditIncludesBreakdown(t *testing.T) {
	b := Breakdown{Rebirth: 1.2, Role: 1.8, Channel: 2.0, Temp: 2.0, Global: 1.0}
	got := RenderAudit("42", 432, b)
	for _, want := range []string{"<@42>", "432", "1.20", "1.80", "2.00"} {
		if !strings.Contains(got, want) {
			t.Errorf("audit message missing %q: %q", want, got)
		}
	}
}

// TestMention renders the platform mention form.
func TestMention(t *testing.T) {
	if got := Mention("9"); got != "<@9>" {
		t.Fatalf("Mention = %q", got)
	}
}
