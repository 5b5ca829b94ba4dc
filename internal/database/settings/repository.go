// Package settings provides database operations for per-user notification settings.
//
// # Usage
//
//	repo := settings.NewRepository(db)
//	s, err := repo.Get(userID)
package settings

import (
	"errors"

	"gorm.io/gorm"

	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/entities"
)

// Repository handles all settings database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new settings repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Get returns the user's settings, creating the default row when missing.
func (r *Repository) Get(userID uint) (*entities.UserSettings, error) {
	var s entities.UserSettings
	err := r.db.Where("user_id = ?", userID).First(&s).Error
	if err == nil {
		return &s, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	s = entities.UserSettings{
		UserID:            userID,
		DailyReminders:    true,
		SessionReminders:  true,
		AchievementAlerts: true,
	}
	if err := r.db.Create(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// Update replaces all four preferences for the user.
func (r *Repository) Update(userID uint, s entities.UserSettings) (*entities.UserSettings, error) {
	if _, err := r.Get(userID); err != nil {
		return nil, err
	}

	err := r.db.Model(&entities.UserSettings{}).Where("user_id = ?", userID).Updates(map[string]any{
		"push_enabled":       s.PushEnabled,
		"daily_reminders":    s.DailyReminders,
		"session_reminders":  s.SessionReminders,
		"achievement_alerts": s.AchievementAlerts,
	}).Error
	if err != nil {
		return nil, err
	}

	return r.Get(userID)
}
