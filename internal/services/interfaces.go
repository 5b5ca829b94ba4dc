package services

import (
	"time"

	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/database/stats"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/entities"
)

// SessionStore is the part of the sessions repository the study service needs.
type SessionStore interface {
	ListByUser(userID uint) ([]entities.StudySession, error)
	Complete(userID, id uint, now time.Time) (*entities.StudySession, bool, error)
	CountCompleted(userID uint) (int64, error)
}

// TimerStore is the part of the timers repository the study service needs.
type TimerStore interface {
	Complete(userID, id uint, now time.Time) (*entities.FocusTimer, bool, error)
	ListCompleted(userID uint) ([]entities.FocusTimer, error)
}

// StatsStore reads and accumulates per-day statistics.
type StatsStore interface {
	RecordStudy(userID uint, minutes int, at time.Time) error
	Today(userID uint) (entities.TodayStat, error)
	Weekly(userID uint) ([]entities.DayStat, error)
	Monthly(userID uint) ([]entities.MonthStat, error)
	CurrentStreak(userID uint) (int, error)
	Rebuild(userID uint, entries []stats.Entry) error
}

// CompletionStores are the stores one completion writes through.
type CompletionStores struct {
	Sessions SessionStore
	Timers   TimerStore
	Stats    StatsStore
}

// Transactor runs fn against stores bound to a single transaction. An error
// from fn rolls back every write fn made.
type Transactor interface {
	InTransaction(fn func(CompletionStores) error) error
}

// Counter counts records owned by a user.
type Counter interface {
	CountByUser(userID uint) (int64, error)
}

// UserReader loads a user with settings.
type UserReader interface {
	GetUserByID(id uint) (*entities.User, error)
}
