package services

import "testing"

// TestReconcilePlanReplacesPreviousTier: reaching level 10 while holding the
// level-5 role swaps the tiers.
func TestReconcilePlanReplacesPreviousTier(t *testing.T) {
	levelRoles := map[int]string{5: "roleA", 10: "roleB"}
	plan := ReconcilePlan(levelRoles, []string{"roleA"}, 10)

	if len(plan.Grant) != 1 || plan.Grant[0] != "roleB" {
		t.Fatalf("expected grant [roleB], got %v", plan.Grant)
	}
	if len(plan.Revoke) != 1 || plan.Revoke[0] != "roleA" {
		t.Fatalf("expected revoke [roleA], got %v", plan.Revoke)
	}
}

// TestReconcilePlanNoConfiguredRole leaves held tier roles untouched when
// the new level has no reward.
func TestReconcilePlanNoConfiguredRole(t *testing.T) {
	levelRoles := map[int]string{5: "roleA"}
	plan := ReconcilePlan(levelRoles, []string{"roleA"}, 7)
	if len(plan.Grant) != 0 || len(plan.Revoke) != 0 {
		t.Fatalf("expected empty plan, got %+v", plan)
	}
}

// TestReconcilePlanAlreadyHoldsTarget avoids a redundant grant.
func TestReconcilePlanAlreadyHoldsTarget(t *testing.T) {
	levelRoles := map[int]string{10: "roleB"}
	plan := ReconcilePlan(levelRoles, []string{"roleB"}, 10)
	if len(plan.Grant) != 0 {
		t.Fatalf("expected no grant, got %v", plan.Grant)
	}
	if len(plan.Revoke) != 0 {
		t.Fatalf("expected no revoke, got %v", plan.Revoke)
	}
}

// TestReconcilePlanRevokesAllStaleTiers clears every configured level role
// the member still holds, however many accumulated.
func TestReconcilePlanRevokesAllStaleTiers(t *testing.T) {
	levelRoles := map[int]string{5: "roleA", 10: "roleB", 20: "roleC"}
	plan := ReconcilePlan(levelRoles, []string{"roleA", "roleB", "unrelated"}, 20)

	if len(plan.Grant) != 1 || plan.Grant[0] != "roleC" {
		t.Fatalf("expected grant [roleC], got %v", plan.Grant)
	}
	if len(plan.Revoke) != 2 {
		t.Fatalf("expected 2 revokes, got %v", plan.Revoke)
	}
	revoked := map[string]bool{}
	for _, r := range plan.Revoke {
		revoked[r] = true
	}
	if !revoked["roleA"] || !revoked["roleB"] {
		t.Fatalf("expected roleA and roleB revoked, got %v", plan.Revoke)
	}
	if revoked["unrelated"] {
		t.Fatal("unconfigured roles must never be revoked")
	}
}
