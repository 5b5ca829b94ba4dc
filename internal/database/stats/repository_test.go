package stats

import (
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, *gorm.DB, func()) {
	dbPath := "./test_stats_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.StudyStat{}, &entities.StudySession{})
	require.NoError(t, err)

	repo := NewRepository(db, time.Local)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return repo, db, cleanup
}

func day(offset int) time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 12, 0, 0, 0, time.Local).AddDate(0, 0, offset)
}

func completedSession(t *testing.T, db *gorm.DB, userID uint, duration int, createdAt time.Time) {
	s := &entities.StudySession{
		UserID:    userID,
		Title:     "s",
		Duration:  duration,
		Status:    entities.SessionStatusCompleted,
		CreatedAt: createdAt,
	}
	require.NoError(t, db.Create(s).Error)
}

func TestRepository_RecordStudy_Accumulates(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.RecordStudy(1, 25, day(0)))
	require.NoError(t, repo.RecordStudy(1, 30, day(0)))

	rows, err := repo.History(1, 1)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 55, rows[0].TotalMinutes)
	assert.Equal(t, 2, rows[0].TotalSessions)
	assert.Equal(t, 2, rows[0].CompletedSessions)
	assert.Equal(t, 1, rows[0].StreakDays)
}

func TestRepository_RecordStudy_CompetingFirstRow(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	date := day(0).Format(entities.StatDateLayout)
	var once sync.Once
	err := db.Callback().Create().Before("gorm:create").Register("test:competing_insert", func(tx *gorm.DB) {
		if tx.Statement.Table != "study_stats" {
			return
		}
		// Another completion lands the day's first row right before ours
		once.Do(func() {
			now := time.Now()
			err := tx.Session(&gorm.Session{NewDB: true}).Exec(
				"INSERT INTO study_stats (user_id, date, total_minutes, total_sessions, completed_sessions, streak_days, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
				1, date, 25, 1, 1, 1, now, now).Error
			require.NoError(t, err)
		})
	})
	require.NoError(t, err)

	require.NoError(t, repo.RecordStudy(1, 30, day(0)))

	rows, err := repo.History(1, 1)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 55, rows[0].TotalMinutes)
	assert.Equal(t, 2, rows[0].TotalSessions)
	assert.Equal(t, 2, rows[0].CompletedSessions)
}

func TestRepository_RecordStudy_Streak(t *testing.T) {
	t.Run("previous day extends streak", func(t *testing.T) {
		repo, _, cleanup := setupTestDB(t)
		defer cleanup()

		require.NoError(t, repo.RecordStudy(1, 25, day(-2)))
		require.NoError(t, repo.RecordStudy(1, 25, day(-1)))
		require.NoError(t, repo.RecordStudy(1, 25, day(0)))

		streak, err := repo.CurrentStreak(1)
		require.NoError(t, err)
		assert.Equal(t, 3, streak)
	})

	t.Run("gap resets streak", func(t *testing.T) {
		repo, _, cleanup := setupTestDB(t)
		defer cleanup()

		require.NoError(t, repo.RecordStudy(1, 25, day(-3)))
		require.NoError(t, repo.RecordStudy(1, 25, day(0)))

		streak, err := repo.CurrentStreak(1)
		require.NoError(t, err)
		assert.Equal(t, 1, streak)
	})

	t.Run("stale streak is zero", func(t *testing.T) {
		repo, _, cleanup := setupTestDB(t)
		defer cleanup()

		require.NoError(t, repo.RecordStudy(1, 25, day(-5)))
		require.NoError(t, repo.RecordStudy(1, 25, day(-4)))

		streak, err := repo.CurrentStreak(1)
		require.NoError(t, err)
		assert.Equal(t, 0, streak)
	})

	t.Run("yesterday still counts", func(t *testing.T) {
		repo, _, cleanup := setupTestDB(t)
		defer cleanup()

		require.NoError(t, repo.RecordStudy(1, 25, day(-2)))
		require.NoError(t, repo.RecordStudy(1, 25, day(-1)))

		streak, err := repo.CurrentStreak(1)
		require.NoError(t, err)
		assert.Equal(t, 2, streak)
	})

	t.Run("no rows", func(t *testing.T) {
		repo, _, cleanup := setupTestDB(t)
		defer cleanup()

		streak, err := repo.CurrentStreak(1)
		require.NoError(t, err)
		assert.Equal(t, 0, streak)
	})
}

func TestRepository_Weekly(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	completedSession(t, db, 1, 25, day(0))
	completedSession(t, db, 1, 30, day(0))
	completedSession(t, db, 1, 40, day(-2))
	completedSession(t, db, 1, 50, day(-10))
	completedSession(t, db, 2, 60, day(0))
	require.NoError(t, db.Create(&entities.StudySession{
		UserID: 1, Title: "planned", Duration: 90, Status: entities.SessionStatusPlanned, CreatedAt: day(0),
	}).Error)

	weekly, err := repo.Weekly(1)
	require.NoError(t, err)
	require.Len(t, weekly, 2)

	assert.Equal(t, day(0).Format(entities.StatDateLayout), weekly[0].StudyDate)
	assert.Equal(t, 55, weekly[0].TotalMinutes)
	assert.Equal(t, 2, weekly[0].SessionsCount)
	assert.Equal(t, 40, weekly[1].TotalMinutes)
}

func TestRepository_Today(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	completedSession(t, db, 1, 25, day(0))
	completedSession(t, db, 1, 30, day(0))
	completedSession(t, db, 1, 45, day(-1))

	today, err := repo.Today(1)
	require.NoError(t, err)
	assert.Equal(t, 55, today.TotalMinutes)
	assert.Equal(t, 2, today.TotalSessions)

	empty, err := repo.Today(7)
	require.NoError(t, err)
	assert.Equal(t, entities.TodayStat{}, empty)
}

func TestRepository_Monthly(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	today := day(0)
	lastMonth := time.Date(today.Year(), today.Month()-1, 1, 12, 0, 0, 0, time.Local)
	rows := []entities.StudyStat{
		{UserID: 1, Date: today.Format(entities.StatDateLayout), TotalMinutes: 30, TotalSessions: 1, CompletedSessions: 1},
		{UserID: 1, Date: lastMonth.Format(entities.StatDateLayout), TotalMinutes: 20, TotalSessions: 2, CompletedSessions: 2},
		{UserID: 1, Date: today.AddDate(-2, 0, 0).Format(entities.StatDateLayout), TotalMinutes: 99, TotalSessions: 9, CompletedSessions: 9},
	}
	require.NoError(t, db.Create(&rows).Error)

	months, err := repo.Monthly(1)
	require.NoError(t, err)
	require.Len(t, months, 2)
	assert.Equal(t, today.Format("2006-01"), months[0].Month)
	assert.Equal(t, 30, months[0].Minutes)
	assert.Equal(t, 2, months[1].Sessions)
}

func TestRepository_History_DefaultDays(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.RecordStudy(1, 10, day(-29)))
	require.NoError(t, repo.RecordStudy(1, 10, day(-30)))

	rows, err := repo.History(1, 0)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestRepository_Rebuild(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.RecordStudy(1, 500, day(-8)))

	err := repo.Rebuild(1, []Entry{
		{Minutes: 25, At: day(0)},
		{Minutes: 20, At: day(-1)},
		{Minutes: 5, At: day(0)},
	})
	require.NoError(t, err)

	rows, err := repo.History(1, 30)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 30, rows[0].TotalMinutes)
	assert.Equal(t, 2, rows[0].StreakDays)
	assert.Equal(t, 20, rows[1].TotalMinutes)
}
