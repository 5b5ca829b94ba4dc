// Package sync records client sync coordinator runs.
//
// The client keeps these rows in its cache database so `focusmode sync
// status` can show when pending changes were last pushed.
//
// # Usage
//
//	repo := sync.NewRepository(db)
//	err := repo.StartRun(runID, entities.SyncTriggerManual)
package sync

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/entities"
)

// staleAfter is how long a running row may go without updates before it is
// considered interrupted.
const staleAfter = 10 * time.Minute

// Repository handles all sync run database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new sync repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// StartRun inserts a running row for runID.
func (r *Repository) StartRun(runID string, trigger entities.SyncTrigger) error {
	now := time.Now()
	run := entities.SyncRun{
		RunID:     runID,
		Trigger:   trigger,
		Status:    entities.SyncStatusRunning,
		StartedAt: now,
		UpdatedAt: now,
	}
	return r.db.Create(&run).Error
}

// CompleteRun stores the counters of a finished run. A non-empty errorMsg
// marks the run failed.
func (r *Repository) CompleteRun(runID string, pushed, failed, skipped int, errorMsg string) error {
	now := time.Now()
	status := entities.SyncStatusCompleted
	if errorMsg != "" {
		status = entities.SyncStatusFailed
	}

	return r.db.Model(&entities.SyncRun{}).
		Where("run_id = ?", runID).
		Updates(map[string]any{
			"status":       status,
			"pushed":       pushed,
			"failed":       failed,
			"skipped":      skipped,
			"error":        errorMsg,
			"updated_at":   now,
			"completed_at": now,
		}).Error
}

// LastRun returns the most recently started run, or nil when none exist.
func (r *Repository) LastRun() (*entities.SyncRun, error) {
	var run entities.SyncRun
	err := r.db.Order("started_at DESC, id DESC").First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// RecentRuns returns up to limit runs, newest first.
func (r *Repository) RecentRuns(limit int) ([]entities.SyncRun, error) {
	runs := []entities.SyncRun{}
	err := r.db.Order("started_at DESC, id DESC").Limit(limit).Find(&runs).Error
	return runs, err
}

// IsRunning reports whether a run is in progress. Stale running rows are
// marked failed and ignored.
func (r *Repository) IsRunning() (bool, error) {
	var run entities.SyncRun
	err := r.db.Where("status = ?", entities.SyncStatusRunning).Order("started_at DESC").First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if run.UpdatedAt.Before(time.Now().Add(-staleAfter)) {
		_ = r.CompleteRun(run.RunID, run.Pushed, run.Failed, run.Skipped, "sync was interrupted")
		return false, nil
	}
	return true, nil
}
