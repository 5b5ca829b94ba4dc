// Package timers provides database operations for focus timer runs.
package timers

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/entities"
)

// ListLimit caps how many timers List returns.
const ListLimit = 50

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository that writes through tx.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// List returns the user's most recent timers, newest first.
func (r *Repository) List(userID uint) ([]entities.FocusTimer, error) {
	timers := []entities.FocusTimer{}
	err := r.db.Where("user_id = ?", userID).
		Order("started_at DESC, id DESC").
		Limit(ListLimit).
		Find(&timers).Error
	return timers, err
}

func (r *Repository) GetByID(userID, id uint) (*entities.FocusTimer, error) {
	return find(r.db, userID, id)
}

func (r *Repository) Create(timer *entities.FocusTimer) error {
	return r.db.Create(timer).Error
}

// Complete marks the timer completed. completedNow is false when it already was.
func (r *Repository) Complete(userID, id uint, now time.Time) (timer *entities.FocusTimer, completedNow bool, err error) {
	err = r.db.Transaction(func(tx *gorm.DB) error {
		t, err := find(tx, userID, id)
		if err != nil {
			return err
		}
		timer = t
		if t.Completed {
			return nil
		}
		t.Completed = true
		t.CompletedAt = &now
		completedNow = true
		return tx.Save(t).Error
	})
	if err != nil {
		return nil, false, err
	}
	return timer, completedNow, nil
}

// ListCompleted returns every completed timer of the user.
func (r *Repository) ListCompleted(userID uint) ([]entities.FocusTimer, error) {
	timers := []entities.FocusTimer{}
	err := r.db.Where("user_id = ? AND completed = ?", userID, true).Order("started_at ASC").Find(&timers).Error
	return timers, err
}

func find(db *gorm.DB, userID, id uint) (*entities.FocusTimer, error) {
	var timer entities.FocusTimer
	if err := db.Where("id = ? AND user_id = ?", id, userID).First(&timer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrNotFound
		}
		return nil, err
	}
	return &timer, nil
}
