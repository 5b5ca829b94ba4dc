// Package sessions provides database operations for study sessions.
//
// All operations are scoped by user id; a session id belonging to another
// user behaves exactly like a missing one.
//
// # Usage
//
//	repo := sessions.NewRepository(db)
//	s, completedNow, err := repo.Complete(userID, id, time.Now())
package sessions

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/entities"
)

// Patch holds optional fields for a merge update. Nil fields are left unchanged.
type Patch struct {
	Title       *string
	Description *string
	Subject     *string
	Duration    *int
	Status      *entities.SessionStatus
}

// Repository handles all study session database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new sessions repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository that writes through tx.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// ListByUser returns the user's sessions, newest first.
func (r *Repository) ListByUser(userID uint) ([]entities.StudySession, error) {
	sessions := []entities.StudySession{}
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC, id DESC").Find(&sessions).Error
	return sessions, err
}

// GetByID returns the session if it belongs to the user.
func (r *Repository) GetByID(userID, id uint) (*entities.StudySession, error) {
	return find(r.db, userID, id)
}

// Create inserts a new session. Defaults must already be applied.
func (r *Repository) Create(session *entities.StudySession) error {
	return r.db.Create(session).Error
}

// Update merges the patch into the session. completedNow is true when the
// patch moved the session into the completed state.
func (r *Repository) Update(userID, id uint, patch Patch, now time.Time) (session *entities.StudySession, completedNow bool, err error) {
	err = r.db.Transaction(func(tx *gorm.DB) error {
		s, err := find(tx, userID, id)
		if err != nil {
			return err
		}

		if patch.Title != nil {
			if err := entities.RequireText("title", *patch.Title); err != nil {
				return err
			}
			s.Title = *patch.Title
		}
		if patch.Description != nil {
			s.Description = *patch.Description
		}
		if patch.Subject != nil {
			s.Subject = *patch.Subject
		}
		if patch.Duration != nil {
			if *patch.Duration <= 0 {
				return entities.NewValidationError("duration", "must be greater than 0")
			}
			s.Duration = *patch.Duration
		}
		if patch.Status != nil {
			next := *patch.Status
			if !next.Valid() {
				return entities.NewValidationError("status", "invalid status value")
			}
			if !s.Status.CanTransitionTo(next) {
				return entities.NewValidationError("status", "cannot move from "+string(s.Status)+" to "+string(next))
			}
			completedNow = applyStatus(s, next, now)
		}

		session = s
		return tx.Save(s).Error
	})
	if err != nil {
		return nil, false, err
	}
	return session, completedNow, nil
}

// Delete removes the session.
func (r *Repository) Delete(userID, id uint) error {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&entities.StudySession{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return entities.ErrNotFound
	}
	return nil
}

// Start moves a planned session to inprogress. Sessions in any other state
// are returned unchanged.
func (r *Repository) Start(userID, id uint, now time.Time) (*entities.StudySession, error) {
	var session *entities.StudySession
	err := r.db.Transaction(func(tx *gorm.DB) error {
		s, err := find(tx, userID, id)
		if err != nil {
			return err
		}
		session = s
		if s.Status != entities.SessionStatusPlanned {
			return nil
		}
		applyStatus(s, entities.SessionStatusInProgress, now)
		return tx.Save(s).Error
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// Complete moves a planned or inprogress session to completed. completedNow
// is false when the session was already finished, so callers count it once.
func (r *Repository) Complete(userID, id uint, now time.Time) (session *entities.StudySession, completedNow bool, err error) {
	err = r.db.Transaction(func(tx *gorm.DB) error {
		s, err := find(tx, userID, id)
		if err != nil {
			return err
		}
		session = s
		if !s.Status.CanTransitionTo(entities.SessionStatusCompleted) || s.Status == entities.SessionStatusCompleted {
			return nil
		}
		completedNow = applyStatus(s, entities.SessionStatusCompleted, now)
		return tx.Save(s).Error
	})
	if err != nil {
		return nil, false, err
	}
	return session, completedNow, nil
}

// ListCompletedBetween returns completed sessions created in [from, to).
func (r *Repository) ListCompletedBetween(userID uint, from, to time.Time) ([]entities.StudySession, error) {
	sessions := []entities.StudySession{}
	err := r.db.Where("user_id = ? AND status = ? AND created_at >= ? AND created_at < ?",
		userID, entities.SessionStatusCompleted, from, to).
		Order("created_at DESC").
		Find(&sessions).Error
	return sessions, err
}

func applyStatus(s *entities.StudySession, next entities.SessionStatus, now time.Time) (completedNow bool) {
	if s.Status == next {
		return false
	}
	switch next {
	case entities.SessionStatusInProgress:
		if s.StartedAt == nil {
			s.StartedAt = &now
		}
	case entities.SessionStatusCompleted:
		s.CompletedAt = &now
		completedNow = true
	}
	s.Status = next
	return completedNow
}

func find(db *gorm.DB, userID, id uint) (*entities.StudySession, error) {
	var s entities.StudySession
	err := db.Where("id = ? AND user_id = ?", id, userID).First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// CountCompleted returns how many completed sessions the user has.
func (r *Repository) CountCompleted(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&entities.StudySession{}).
		Where("user_id = ? AND status = ?", userID, entities.SessionStatusCompleted).
		Count(&count).Error
	return count, err
}
