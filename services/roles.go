package services

import (
	"log"

	"community-level-system/models"

	"gorm.io/gorm"
)

// RoleManager applies role changes against the platform gateway. Grant and
// revoke are best-effort: permission failures must never fail an XP award.
type RoleManager interface {
	GrantRole(guildID, userID, roleID string) error
	RevokeRole(guildID, userID, roleID string) error
}

// RolePlan is the outcome of reconciling a level transition against the
// guild's configured reward-role ladder.
type RolePlan struct {
	Grant  []string
	Revoke []string
}

// ReconcilePlan computes the replace-mode plan: when the new level has a
// configured role, the member keeps only that role among all configured
// level roles. When it has none, held tier roles stay untouched.
func ReconcilePlan(levelRoles map[int]string, heldRoles []string, newLevel int) RolePlan {
	var plan RolePlan

	newRoleID, ok := levelRoles[newLevel]
	if !ok {
		return plan
	}

	configured := make(map[string]bool, len(levelRoles))
	for _, roleID := range levelRoles {
		configured[roleID] = true
	}

	holdsNew := false
	for _, roleID := range heldRoles {
		if roleID == newRoleID {
			holdsNew = true
			continue
		}
		if configured[roleID] {
			plan.Revoke = append(plan.Revoke, roleID)
		}
	}
	if !holdsNew {
		plan.Grant = append(plan.Grant, newRoleID)
	}
	return plan
}

// RoleReconciler loads the guild's level-role ladder and applies replace-mode
// plans through the gateway.
type RoleReconciler struct {
	DB      *gorm.DB
	Manager RoleManager
}

func NewRoleReconciler(db *gorm.DB, manager RoleManager) *RoleReconciler {
	return &RoleReconciler{DB: db, Manager: manager}
}

// Reconcile computes the plan for a member who just reached newLevel.
func (r *RoleReconciler) Reconcile(guildID string, heldRoles []string, newLevel int) (RolePlan, error) {
	var rows []models.LevelRole
	if err := r.DB.Where("guild_id = ?", guildID).Find(&rows).Error; err != nil {
		return RolePlan{}, err
	}
	levelRoles := make(map[int]string, len(rows))
	for _, row := range rows {
		levelRoles[row.Level] = row.RoleID
	}
	return ReconcilePlan(levelRoles, heldRoles, newLevel), nil
}

// Apply pushes the plan to the gateway. Failures are logged and swallowed:
// progression and role rewards are decoupled in failure terms.
func (r *RoleReconciler) Apply(guildID, userID string, plan RolePlan) {
	if r.Manager == nil {
		return
	}
	for _, roleID := range plan.Revoke {
		if err := r.Manager.RevokeRole(guildID, userID, roleID); err != nil {
			log.Printf("⚠️ [ROLES] Could not revoke role %s from %s in %s: %v", roleID, userID, guildID, err)
		}
	}
	for _, roleID := range plan.Grant {
		if err := r.Manager.GrantRole(guildID, userID, roleID); err != nil {
			log.Printf("⚠️ [ROLES] Could not grant role %s to %s in %s: %v", roleID, userID, guildID, err)
		}
	}
}
