// Package users provides database operations for user accounts.
//
// # Usage
//
//	repo := users.NewRepository(db)
//	user, err := repo.GetUserByEmail(email)
package users

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/entities"
)

// Repository handles all user database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new users repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateUser inserts the user together with a default settings row.
func (r *Repository) CreateUser(user *entities.User) error {
	user.Email = strings.ToLower(user.Email)
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Settings").Create(user).Error; err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		settings := entities.UserSettings{
			UserID:            user.ID,
			DailyReminders:    true,
			SessionReminders:  true,
			AchievementAlerts: true,
		}
		if err := tx.Create(&settings).Error; err != nil {
			return fmt.Errorf("failed to create user settings: %w", err)
		}
		user.Settings = settings
		return nil
	})
}

// GetUserByEmail retrieves a user by email (case-insensitive) with settings loaded.
func (r *Repository) GetUserByEmail(email string) (*entities.User, error) {
	var user entities.User
	err := r.db.Preload("Settings").Where("email = ?", strings.ToLower(email)).First(&user).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// GetUserByID retrieves a user by ID with settings loaded.
func (r *Repository) GetUserByID(id uint) (*entities.User, error) {
	var user entities.User
	err := r.db.Preload("Settings").First(&user, id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// EmailExists reports whether an account already uses the email.
func (r *Repository) EmailExists(email string) (bool, error) {
	var count int64
	err := r.db.Model(&entities.User{}).Where("email = ?", strings.ToLower(email)).Count(&count).Error
	return count > 0, err
}

// TouchLastLogin records a successful login.
func (r *Repository) TouchLastLogin(id uint, at time.Time) error {
	return r.db.Model(&entities.User{}).Where("id = ?", id).Update("last_login_at", at).Error
}

// CountUsers returns the number of registered accounts.
func (r *Repository) CountUsers() (int64, error) {
	var count int64
	err := r.db.Model(&entities.User{}).Count(&count).Error
	return count, err
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entities.ErrNotFound
	}
	return err
}
