package http

import (
	"context"
	"time"

	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/database/books"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/database/notes"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/database/sessions"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/entities"
)

// Each controller depends only on the methods it calls. The gorm
// repositories under internal/database satisfy all of them.

type SessionStore interface {
	ListByUser(userID uint) ([]entities.StudySession, error)
	GetByID(userID, id uint) (*entities.StudySession, error)
	Create(session *entities.StudySession) error
	Update(userID, id uint, patch sessions.Patch, now time.Time) (*entities.StudySession, bool, error)
	Delete(userID, id uint) error
	Start(userID, id uint, now time.Time) (*entities.StudySession, error)
}

type NoteStore interface {
	List(userID uint, category string) ([]entities.Note, error)
	Create(note *entities.Note) error
	Update(userID, id uint, patch notes.Patch) (*entities.Note, error)
	Delete(userID, id uint) error
}

type BookStore interface {
	List(userID uint) ([]entities.Book, error)
	Create(book *entities.Book) error
	Update(userID, id uint, patch books.Patch) (*entities.Book, error)
	ToggleStatus(userID, id uint) (*entities.Book, error)
	Delete(userID, id uint) error
}

type TimerStore interface {
	List(userID uint) ([]entities.FocusTimer, error)
	Create(timer *entities.FocusTimer) error
}

type StatsReader interface {
	Today(userID uint) (entities.TodayStat, error)
	Weekly(userID uint) ([]entities.DayStat, error)
	Monthly(userID uint) ([]entities.MonthStat, error)
	CurrentStreak(userID uint) (int, error)
	History(userID uint, days int) ([]entities.StudyStat, error)
}

type SettingsStore interface {
	Get(userID uint) (*entities.UserSettings, error)
	Update(userID uint, s entities.UserSettings) (*entities.UserSettings, error)
}

// StudyWorkflow credits completions to the daily statistics.
type StudyWorkflow interface {
	CompleteSession(userID, id uint, duration *int) (*entities.StudySession, error)
	SessionCompleted(userID uint, session *entities.StudySession) error
	CompleteTimer(userID, id uint, duration *int) (*entities.FocusTimer, error)
	Summary(ctx context.Context, userID uint) entities.StatsSummary
	Dashboard(userID uint) (*entities.Dashboard, entities.TodayStat, error)
	RebuildStats(userID uint) (int, error)
}

// UserGetter loads the authenticated account.
type UserGetter interface {
	GetUserByID(id uint) (*entities.User, error)
}
