package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/database"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/database/books"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/database/notes"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/database/sessions"
	statsrepo "github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/database/stats"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/database/timers"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/database/users"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/entities"
)

type testEnv struct {
	db       *gorm.DB
	service  *StudyService
	sessions *sessions.Repository
	timers   *timers.Repository
	stats    *statsrepo.Repository
	users    *users.Repository
	notes    *notes.Repository
}

func setupService(t *testing.T) *testEnv {
	db, err := database.NewSQLiteDatabase(filepath.Join(t.TempDir(), "study.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	env := &testEnv{
		db:       db.DB,
		sessions: sessions.NewRepository(db.DB),
		timers:   timers.NewRepository(db.DB),
		stats:    statsrepo.NewRepository(db.DB, time.Local),
		users:    users.NewRepository(db.DB),
		notes:    notes.NewRepository(db.DB),
	}
	env.service = NewStudyService(StudyServiceDeps{
		Sessions: env.sessions,
		Timers:   env.timers,
		Stats:    env.stats,
		Notes:    env.notes,
		Books:    books.NewRepository(db.DB),
		Users:    env.users,
		Tx:       NewGormTransactor(db.DB, env.sessions, env.timers, env.stats),
	})
	return env
}

func (e *testEnv) session(t *testing.T, userID uint, duration int) *entities.StudySession {
	s := &entities.StudySession{UserID: userID, Title: "Math", Duration: duration, Status: entities.SessionStatusPlanned}
	require.NoError(t, e.sessions.Create(s))
	return s
}

func intPtr(i int) *int { return &i }

func TestStudyService_CompleteSession_RecordsOnce(t *testing.T) {
	env := setupService(t)
	s := env.session(t, 1, 25)

	_, err := env.service.CompleteSession(1, s.ID, nil)
	require.NoError(t, err)
	_, err = env.service.CompleteSession(1, s.ID, nil)
	require.NoError(t, err)

	today, err := env.stats.Today(1)
	require.NoError(t, err)
	assert.Equal(t, 25, today.TotalMinutes)

	rows, err := env.stats.History(1, 1)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 25, rows[0].TotalMinutes)
	assert.Equal(t, 1, rows[0].TotalSessions)
}

func TestStudyService_CompleteSession_DurationOverride(t *testing.T) {
	tests := []struct {
		name     string
		override *int
		want     int
		rows     int
	}{
		{"no override uses session duration", nil, 25, 1},
		{"override replaces minutes", intPtr(40), 40, 1},
		{"negative override records nothing", intPtr(-5), 0, 0},
		{"zero override records nothing", intPtr(0), 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupService(t)
			s := env.session(t, 1, 25)

			done, err := env.service.CompleteSession(1, s.ID, tt.override)
			require.NoError(t, err)
			assert.Equal(t, entities.SessionStatusCompleted, done.Status)

			rows, err := env.stats.History(1, 1)
			require.NoError(t, err)
			require.Len(t, rows, tt.rows)
			if tt.rows > 0 {
				assert.Equal(t, tt.want, rows[0].TotalMinutes)
			}
		})
	}
}

func TestStudyService_CompleteSession_NotFound(t *testing.T) {
	env := setupService(t)
	s := env.session(t, 1, 25)

	_, err := env.service.CompleteSession(2, s.ID, nil)
	assert.True(t, errors.Is(err, entities.ErrNotFound))
}

func TestStudyService_CompleteTimer(t *testing.T) {
	env := setupService(t)

	timer := &entities.FocusTimer{UserID: 1, TimerType: "pomodoro", Duration: 25}
	require.NoError(t, env.timers.Create(timer))

	_, err := env.service.CompleteTimer(1, timer.ID, intPtr(20))
	require.NoError(t, err)

	_, err = env.service.CompleteTimer(1, timer.ID, intPtr(20))
	require.NoError(t, err)

	rows, err := env.stats.History(1, 1)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 20, rows[0].TotalMinutes)

	_, err = env.service.CompleteTimer(2, timer.ID, nil)
	assert.ErrorIs(t, err, entities.ErrNotFound)
}

func TestStudyService_Summary(t *testing.T) {
	env := setupService(t)

	for _, d := range []int{25, 30} {
		s := env.session(t, 1, d)
		_, err := env.service.CompleteSession(1, s.ID, nil)
		require.NoError(t, err)
	}

	summary := env.service.Summary(context.Background(), 1)
	assert.Equal(t, 55, summary.Today.TotalMinutes)
	assert.Equal(t, 2, summary.Today.TotalSessions)
	require.Len(t, summary.Weekly, 1)
	assert.Equal(t, 55, summary.Weekly[0].TotalMinutes)
	assert.Equal(t, 2, summary.Weekly[0].SessionsCount)
	assert.Equal(t, 55, summary.WeeklyTotalMinutes)
	assert.Equal(t, 1, summary.Streak)
	require.Len(t, summary.Monthly, 1)
	assert.InDelta(t, 7.9, summary.DailyAverageMinutes, 0.001)
}

func TestStudyService_Summary_Empty(t *testing.T) {
	env := setupService(t)

	summary := env.service.Summary(context.Background(), 42)
	assert.NotNil(t, summary.Weekly)
	assert.NotNil(t, summary.Monthly)
	assert.Zero(t, summary.Streak)
	assert.Zero(t, summary.DailyAverageMinutes)
}

func TestDailyAverage(t *testing.T) {
	assert.Equal(t, 0.0, DailyAverage(nil))
	assert.Equal(t, 10.0, DailyAverage([]entities.DayStat{{TotalMinutes: 70}}))
}

func TestStudyService_Dashboard(t *testing.T) {
	env := setupService(t)

	user := &entities.User{Name: "Rina", Email: "rina@example.com", PasswordHash: "x", Avatar: "R"}
	require.NoError(t, env.users.CreateUser(user))
	require.NoError(t, env.notes.Create(&entities.Note{UserID: user.ID, Title: "t", Content: "c", Category: entities.NoteCategoryStudy}))

	s := env.session(t, user.ID, 30)
	_, err := env.service.CompleteSession(user.ID, s.ID, nil)
	require.NoError(t, err)

	dashboard, today, err := env.service.Dashboard(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rina", dashboard.Name)
	assert.Equal(t, int64(1), dashboard.CompletedSessions)
	assert.Equal(t, int64(1), dashboard.TotalNotes)
	assert.Equal(t, int64(0), dashboard.TotalBooks)
	assert.True(t, dashboard.DailyReminders)
	assert.Equal(t, 30, today.TotalMinutes)
}

func TestStudyService_RebuildStats(t *testing.T) {
	env := setupService(t)

	s := env.session(t, 1, 25)
	_, err := env.service.CompleteSession(1, s.ID, intPtr(90))
	require.NoError(t, err)
	env.session(t, 1, 50)

	timer := &entities.FocusTimer{UserID: 1, TimerType: "pomodoro", Duration: 15}
	require.NoError(t, env.timers.Create(timer))
	_, err = env.service.CompleteTimer(1, timer.ID, nil)
	require.NoError(t, err)

	count, err := env.service.RebuildStats(1)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	rows, err := env.stats.History(1, 1)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 40, rows[0].TotalMinutes)
	assert.Equal(t, 2, rows[0].TotalSessions)
}

// failStatsWrites makes every insert into study_stats fail until the
// returned func is called.
func failStatsWrites(t *testing.T, db *gorm.DB) (restore func()) {
	t.Helper()
	const name = "test:fail_stats"
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register(name, func(tx *gorm.DB) {
		if tx.Statement.Table == "study_stats" {
			_ = tx.AddError(errors.New("disk full"))
		}
	}))
	return func() { db.Callback().Create().Remove(name) }
}

func TestStudyService_CompleteSession_RollsBackWhenStatsFail(t *testing.T) {
	env := setupService(t)
	s := env.session(t, 1, 30)

	restore := failStatsWrites(t, env.db)
	_, err := env.service.CompleteSession(1, s.ID, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to record study stats")

	got, err := env.sessions.GetByID(1, s.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.SessionStatusPlanned, got.Status)
	assert.Nil(t, got.CompletedAt)

	// The retry completes and credits the session.
	restore()
	_, err = env.service.CompleteSession(1, s.ID, nil)
	require.NoError(t, err)

	rows, err := env.stats.History(1, 1)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 30, rows[0].TotalMinutes)
	assert.Equal(t, 1, rows[0].CompletedSessions)
}

func TestStudyService_CompleteTimer_RollsBackWhenStatsFail(t *testing.T) {
	env := setupService(t)
	timer := &entities.FocusTimer{UserID: 1, TimerType: "pomodoro", Duration: 25}
	require.NoError(t, env.timers.Create(timer))

	restore := failStatsWrites(t, env.db)
	_, err := env.service.CompleteTimer(1, timer.ID, nil)
	require.Error(t, err)

	completed, err := env.timers.ListCompleted(1)
	require.NoError(t, err)
	assert.Empty(t, completed)

	restore()
	_, err = env.service.CompleteTimer(1, timer.ID, nil)
	require.NoError(t, err)

	completed, err = env.timers.ListCompleted(1)
	require.NoError(t, err)
	assert.Len(t, completed, 1)
}
