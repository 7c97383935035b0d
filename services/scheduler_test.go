package services

import (
	"testing"
	"time"
)

// TestShouldResetMonthly fires only in the first hour of the first day.
func TestShouldResetMonthly(t *testing.T) {
	cases := []struct {
		when time.Time
		want bool
	}{
		{time.Date(2025, 3, 1, 0, 30, 0, 0, time.UTC), true},
		{time.Date(2025, 3, 1, 1, 0, 0, 0, time.UTC), false},
		{time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC), false},
		{time.Date(2025, 12, 1, 0, 59, 59, 0, time.UTC), true},
	}
	for _, c := range cases {
		if got := shouldResetMonthly(c.when); got != c.want {
			t.Errorf("shouldResetMonthly(%v) = %v, want %v", c.when, got, c.want)
		}
	}
}

// TestShouldResetWeekly fires only in the first hour of the configured
// weekday.
func TestShouldResetWeekly(t *testing.T) {
	monday := time.Date(2025, 3, 3, 0, 15, 0, 0, time.UTC) // a Monday
	if !shouldResetWeekly(monday, int(time.Monday)) {
		t.Error("expected reset on Monday hour 0")
	}
	if shouldResetWeekly(monday, int(time.Sunday)) {
		t.Error("wrong weekday must not reset")
	}
	laterSameDay := monday.Add(2 * time.Hour)
	if shouldResetWeekly(laterSameDay, int(time.Monday)) {
		t.Error("reset must only fire in the first hour")
	}
}
