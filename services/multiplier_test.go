package services

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// TestRebirthMultiplier escalates additively, not compounding per step.
func TestRebirthMultiplier(t *testing.T) {
	cases := []struct {
		count int
		want  float64
	}{
		{0, 1.0},
		{1, 1.2},
		{3, 1.6},
		{10, 3.0},
	}
	for _, c := range cases {
		if got := RebirthMultiplier(c.count); !almostEqual(got, c.want) {
			t.Errorf("RebirthMultiplier(%d) = %v, want %v", c.count, got, c.want)
		}
	}
}

// TestRoleTierStacksAdditively: two boosting roles (1.5x, 1.3x) give 1.8,
// never 1.5 * 1.3.
func TestRoleTierStacksAdditively(t *testing.T) {
	mults := map[string]float64{"a": 1.5, "b": 1.3}
	got := RoleTier([]string{"a", "b"}, mults, 1.0)
	if !almostEqual(got, 1.8) {
		t.Fatalf("RoleTier = %v, want 1.8", got)
	}
}

// TestRoleTierIgnoresUnconfiguredRoles only counts configured boosters.
func TestRoleTierIgnoresUnconfiguredRoles(t *testing.T) {
	mults := map[string]float64{"a": 1.5}
	got := RoleTier([]string{"a", "x", "y"}, mults, 1.0)
	if !almostEqual(got, 1.5) {
		t.Fatalf("RoleTier = %v, want 1.5", got)
	}
}

// TestRoleTierFoldsSponsorBonus adds the sponsor bonus into the same
// additive tier instead of compounding it.
func TestRoleTierFoldsSponsorBonus(t *testing.T) {
	mults := map[string]float64{"a": 1.5}
	got := RoleTier([]string{"a"}, mults, 1.25)
	if !almostEqual(got, 1.75) {
		t.Fatalf("RoleTier with sponsor = %v, want 1.75", got)
	}
}

// TestRoleTierNoBonuses is 1.0 with nothing configured.
func TestRoleTierNoBonuses(t *testing.T) {
	if got := RoleTier(nil, nil, 1.0); !almostEqual(got, 1.0) {
		t.Fatalf("RoleTier = %v, want 1.0", got)
	}
}

// TestBreakdownTotalMultipliesTiers: tiers multiply across even though the
// role tier is additive inside.
func TestBreakdownTotalMultipliesTiers(t *testing.T) {
	b := Breakdown{Rebirth: 1.2, Role: 1.8, Channel: 2.0, Temp: 2.0, Global: 1.5}
	want := 1.2 * 1.8 * 2.0 * 2.0 * 1.5
	if got := b.Total(); !almostEqual(got, want) {
		t.Fatalf("Total = %v, want %v", got, want)
	}
}

// TestBreakdownTotalIdentity: all-neutral tiers leave the raw amount alone.
func TestBreakdownTotalIdentity(t *testing.T) {
	b := Breakdown{Rebirth: 1, Role: 1, Channel: 1, Temp: 1, Global: 1}
	if got := b.Total(); !almostEqual(got, 1.0) {
		t.Fatalf("Total = %v, want 1.0", got)
	}
}
