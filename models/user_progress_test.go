package models

import "testing"

// TestXPThresholdCurve checks the fixed level curve at its anchor points.
func TestXPThresholdCurve(t *testing.T) {
	cases := []struct {
		level int
		want  int64
	}{
		{1, 155},
		{2, 220},
		{10, 1100},
		{100, 55100},
		{199, 208055},
		{200, 210100},
	}
	for _, c := range cases {
		if got := XPThreshold(c.level); got != c.want {
			t.Errorf("XPThreshold(%d) = %d, want %d", c.level, got, c.want)
		}
	}
}

// TestXPThresholdStrictlyIncreasing ensures the curve never flattens over
// the whole level range.
func TestXPThresholdStrictlyIncreasing(t *testing.T) {
	prev := XPThreshold(MinLevel)
	for level := MinLevel + 1; level <= MaxLevel; level++ {
		cur := XPThreshold(level)
		if cur <= prev {
			t.Fatalf("XPThreshold(%d) = %d not greater than XPThreshold(%d) = %d", level, cur, level-1, prev)
		}
		prev = cur
	}
}

// TestXPThresholdClampsBelowMin treats out-of-range levels as level 1.
func TestXPThresholdClampsBelowMin(t *testing.T) {
	if got := XPThreshold(0); got != XPThreshold(MinLevel) {
		t.Errorf("XPThreshold(0) = %d, want %d", got, XPThreshold(MinLevel))
	}
}
