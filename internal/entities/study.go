package entities

import (
	"time"
)

type SessionStatus string

const (
	SessionStatusPlanned    SessionStatus = "planned"
	SessionStatusInProgress SessionStatus = "inprogress"
	SessionStatusCompleted  SessionStatus = "completed"
	SessionStatusCancelled  SessionStatus = "cancelled"
)

// DefaultSessionDuration is used when a session is created without a duration, in minutes.
const DefaultSessionDuration = 25

type NoteCategory string

const (
	NoteCategoryStudy    NoteCategory = "study"
	NoteCategoryPersonal NoteCategory = "personal"
	NoteCategoryWork     NoteCategory = "work"
	NoteCategoryOther    NoteCategory = "other"
)

type BookCategory string

const (
	BookCategoryAcademic   BookCategory = "academic"
	BookCategoryFiction    BookCategory = "fiction"
	BookCategoryNonFiction BookCategory = "non-fiction"
	BookCategoryReference  BookCategory = "reference"
)

type StudySession struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	UserID      uint          `gorm:"index" json:"user_id"`
	Title       string        `gorm:"size:500" json:"title"`
	Description string        `gorm:"type:text" json:"description"`
	Subject     string        `gorm:"size:500" json:"subject"`
	Duration    int           `json:"duration"`
	Status      SessionStatus `gorm:"size:20;index;default:'planned'" json:"status"`
	StartedAt   *time.Time    `json:"started_at"`
	CompletedAt *time.Time    `json:"completed_at"`
	CreatedAt   time.Time     `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

func (StudySession) TableName() string {
	return "study_sessions"
}

type Note struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	UserID    uint         `gorm:"index" json:"user_id"`
	Title     string       `gorm:"size:500" json:"title"`
	Content   string       `gorm:"type:text" json:"content"`
	Category  NoteCategory `gorm:"size:20;index;default:'study'" json:"category"`
	CreatedAt time.Time    `gorm:"index" json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

type Book struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	UserID      uint         `gorm:"index" json:"user_id"`
	Title       string       `gorm:"size:500" json:"title"`
	Author      string       `gorm:"size:255" json:"author"`
	Description string       `gorm:"type:text" json:"description"`
	Category    BookCategory `gorm:"size:20;default:'academic'" json:"category"`
	IsComplete  bool         `gorm:"default:false" json:"is_complete"`
	CreatedAt   time.Time    `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

type FocusTimer struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	UserID          uint       `gorm:"index" json:"user_id"`
	TimerType       string     `gorm:"size:50" json:"timer_type"`
	Duration        int        `json:"duration"`
	TaskDescription string     `gorm:"size:500" json:"task_description"`
	Completed       bool       `gorm:"default:false" json:"completed"`
	StartedAt       time.Time  `gorm:"autoCreateTime;index" json:"started_at"`
	CompletedAt     *time.Time `json:"completed_at"`
}

func (FocusTimer) TableName() string {
	return "focus_timers"
}
