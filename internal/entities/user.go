package entities

import (
	"time"
)

type User struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	Name         string       `gorm:"size:255" json:"name"`
	Email        string       `gorm:"uniqueIndex;size:255" json:"email"`
	PasswordHash string       `gorm:"size:255" json:"-"`
	Avatar       string       `gorm:"size:8" json:"avatar"`
	LastLoginAt  *time.Time   `json:"last_login_at,omitempty"`
	Settings     UserSettings `gorm:"foreignKey:UserID" json:"-"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// UserSettings holds notification preferences, one row per user.
type UserSettings struct {
	UserID            uint      `gorm:"primaryKey" json:"-"`
	PushEnabled       bool      `gorm:"default:false" json:"push_enabled"`
	DailyReminders    bool      `gorm:"default:true" json:"daily_reminders"`
	SessionReminders  bool      `gorm:"default:true" json:"session_reminders"`
	AchievementAlerts bool      `gorm:"default:true" json:"achievement_alerts"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (UserSettings) TableName() string {
	return "user_settings"
}
