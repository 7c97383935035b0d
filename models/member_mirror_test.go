package models

import (
	"testing"
	"time"
)

// TestMemberMirrorRoles splits the stored role list and drops blanks.
func TestMemberMirrorRoles(t *testing.T) {
	m := MemberMirror{RoleIDs: "100, 200,,300 "}
	roles := m.Roles()
	if len(roles) != 3 {
		t.Fatalf("expected 3 roles, got %d: %v", len(roles), roles)
	}
	want := []string{"100", "200", "300"}
	for i, r := range roles {
		if r != want[i] {
			t.Errorf("role %d = %q, want %q", i, r, want[i])
		}
	}
}

// TestMemberMirrorRolesEmpty returns nil for an unsynced member.
func TestMemberMirrorRolesEmpty(t *testing.T) {
	m := MemberMirror{}
	if roles := m.Roles(); roles != nil {
		t.Errorf("expected nil roles, got %v", roles)
	}
}

// TestActiveBoostExpiry checks the lazy-expiry predicate both sides of now.
func TestActiveBoostExpiry(t *testing.T) {
	now := time.Now()
	live := ActiveBoost{EndsAt: now.Add(time.Minute)}
	if !live.Active(now) {
		t.Error("boost ending in the future should be active")
	}
	expired := ActiveBoost{EndsAt: now.Add(-time.Second)}
	if expired.Active(now) {
		t.Error("boost ending in the past should be inactive")
	}
}
