package entities

import (
	"time"
)

type SyncStatus string

const (
	SyncStatusRunning   SyncStatus = "running"
	SyncStatusCompleted SyncStatus = "completed"
	SyncStatusFailed    SyncStatus = "failed"
)

// SyncTrigger records why a client sync run started.
type SyncTrigger string

const (
	SyncTriggerPeriodic SyncTrigger = "periodic"
	SyncTriggerOnline   SyncTrigger = "online"
	SyncTriggerManual   SyncTrigger = "manual"
)

// SyncRun is one pass of the client sync coordinator, kept in the client cache database.
type SyncRun struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	RunID       string      `gorm:"size:36;uniqueIndex" json:"run_id"`
	Trigger     SyncTrigger `gorm:"size:20" json:"trigger"`
	Status      SyncStatus  `gorm:"size:20;index" json:"status"`
	Pushed      int         `json:"pushed"`
	Failed      int         `json:"failed"`
	Skipped     int         `json:"skipped"`
	Error       string      `gorm:"type:text" json:"error,omitempty"`
	StartedAt   time.Time   `json:"started_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	CompletedAt *time.Time  `json:"completed_at,omitempty"`
}

func (SyncRun) TableName() string {
	return "sync_runs"
}
