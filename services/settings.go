package services

import (
	"time"

	"community-level-system/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettingsService owns guild configuration: multiplier mappings, the reward
// ladder, salaries and routing destinations. All writes are upserts.
type SettingsService struct {
	DB *gorm.DB
}

func NewSettingsService(db *gorm.DB) *SettingsService {
	return &SettingsService{DB: db}
}

// GetSettings loads the guild's settings row, returning defaults when none
// has been written yet.
func (s *SettingsService) GetSettings(guildID string) (*models.GuildSettings, error) {
	var settings models.GuildSettings
	err := s.DB.Where("guild_id = ?", guildID).First(&settings).Error
	if err == gorm.ErrRecordNotFound {
		return &models.GuildSettings{
			GuildID:         guildID,
			EventMultiplier: 1.0,
			WeeklyResetDay:  int(time.Monday),
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (s *SettingsService) updateSetting(guildID, column string, value interface{}) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		// Materialize the row first so partial updates always have a target.
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.GuildSettings{GuildID: guildID, EventMultiplier: 1.0, WeeklyResetDay: int(time.Monday)}).Error; err != nil {
			return err
		}
		return tx.Model(&models.GuildSettings{}).
			Where("guild_id = ?", guildID).
			Update(column, value).Error
	})
}

// SetRoleMultiplier marks a role as an XP booster.
func (s *SettingsService) SetRoleMultiplier(guildID, roleID string, multiplier float64) error {
	if multiplier < 1.0 {
		return validationErr("multiplier must be at least 1.0")
	}
	return s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "role_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"guild_id", "multiplier", "updated_at"}),
	}).Create(&models.RoleMultiplier{RoleID: roleID, GuildID: guildID, Multiplier: multiplier}).Error
}

// SetChannelMultiplier marks a channel as an XP booster.
func (s *SettingsService) SetChannelMultiplier(guildID, channelID string, multiplier float64) error {
	if multiplier < 1.0 {
		return validationErr("multiplier must be at least 1.0")
	}
	return s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "channel_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"guild_id", "multiplier", "updated_at"}),
	}).Create(&models.ChannelMultiplier{ChannelID: channelID, GuildID: guildID, Multiplier: multiplier}).Error
}

// SetLevelRole assigns the reward role earned at a level. Level 1 is the
// starting level and cannot carry a reward.
func (s *SettingsService) SetLevelRole(guildID string, level int, roleID string) error {
	if level < 2 {
		return validationErr("level must be 2 or higher")
	}
	if level > models.MaxLevel {
		return validationErr("level must be at most %d", models.MaxLevel)
	}
	return s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "guild_id"}, {Name: "level"}},
		DoUpdates: clause.AssignmentColumns([]string{"role_id", "updated_at"}),
	}).Create(&models.LevelRole{GuildID: guildID, Level: level, RoleID: roleID}).Error
}

// SetSalaryRole gives a role hourly passive XP.
func (s *SettingsService) SetSalaryRole(guildID, roleID string, hourlyAmount int64) error {
	if hourlyAmount < 0 {
		return validationErr("hourly amount cannot be negative")
	}
	return s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "role_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"guild_id", "hourly_amount", "updated_at"}),
	}).Create(&models.SalaryRole{RoleID: roleID, GuildID: guildID, HourlyAmount: hourlyAmount}).Error
}

// SetVoiceRole marks a role as eligible for voice-presence XP.
func (s *SettingsService) SetVoiceRole(guildID, roleID string) error {
	return s.DB.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.VoiceRole{RoleID: roleID, GuildID: guildID}).Error
}

// SetLevel100Salary sets the flat hourly amount for members at level 100+.
func (s *SettingsService) SetLevel100Salary(guildID string, hourlyAmount int64) error {
	if hourlyAmount < 0 {
		return validationErr("hourly amount cannot be negative")
	}
	return s.updateSetting(guildID, "level100_salary", hourlyAmount)
}

// SetEventMultiplier sets the community-wide global tier.
func (s *SettingsService) SetEventMultiplier(guildID string, multiplier float64) error {
	if multiplier < 1.0 {
		return validationErr("multiplier must be at least 1.0")
	}
	return s.updateSetting(guildID, "event_multiplier", multiplier)
}

// SetLevelChannel routes level-up announcements. Empty clears the routing
// (announcements fall back to the origin channel).
func (s *SettingsService) SetLevelChannel(guildID, channelID string) error {
	return s.updateSetting(guildID, "level_channel_id", channelID)
}

// SetBirthdayChannel routes birthday announcements. Empty disables them.
func (s *SettingsService) SetBirthdayChannel(guildID, channelID string) error {
	return s.updateSetting(guildID, "birthday_channel_id", channelID)
}

// SetAuditChannel routes suspicious-award alerts. Empty disables them.
func (s *SettingsService) SetAuditChannel(guildID, channelID string) error {
	return s.updateSetting(guildID, "audit_channel_id", channelID)
}

// SetWeeklyResetDay picks the weekday on which WeeklyXP is zeroed.
func (s *SettingsService) SetWeeklyResetDay(guildID string, weekday int) error {
	if weekday < int(time.Sunday) || weekday > int(time.Saturday) {
		return validationErr("weekday must be between 0 (Sunday) and 6 (Saturday)")
	}
	return s.updateSetting(guildID, "weekly_reset_day", weekday)
}
