// Package stats provides database operations for per-day study statistics.
//
// Rows in study_stats are keyed by (user_id, date) where date is a calendar
// day in the repository's location. Rows only accumulate; RecordStudy never
// overwrites totals. Aggregations are computed in Go so the same queries run
// on every supported driver.
package stats

import (
	"errors"
	"sort"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/entities"
)

const (
	// DefaultHistoryDays is used when History is called with days <= 0.
	DefaultHistoryDays = 30
	// MonthlyWindow is the number of months returned by Monthly.
	MonthlyWindow = 12
	weeklyWindow  = 7
)

// Entry is one completed unit of study replayed by Rebuild.
type Entry struct {
	Minutes int
	At      time.Time
}

// Repository handles all study statistics database operations.
type Repository struct {
	db  *gorm.DB
	loc *time.Location
	now func() time.Time
}

// NewRepository creates a stats repository bucketing days in loc.
func NewRepository(db *gorm.DB, loc *time.Location) *Repository {
	if loc == nil {
		loc = time.Local
	}
	return &Repository{db: db, loc: loc, now: time.Now}
}

// WithTx returns a copy of the repository that writes through tx.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	c := *r
	c.db = tx
	return &c
}

// SetClock overrides the time source.
func (r *Repository) SetClock(now func() time.Time) {
	r.now = now
}

// Location returns the location used to bucket calendar days.
func (r *Repository) Location() *time.Location {
	return r.loc
}

// RecordStudy adds one completed session of the given minutes to the day of at
// and recomputes that day's streak.
func (r *Repository) RecordStudy(userID uint, minutes int, at time.Time) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return r.record(tx, userID, minutes, at)
	})
}

// record upserts the day's row so concurrent first completions of a day add
// up instead of racing on the (user_id, date) key.
func (r *Repository) record(tx *gorm.DB, userID uint, minutes int, at time.Time) error {
	if minutes < 0 {
		minutes = 0
	}
	day := at.In(r.loc)

	streak := 1
	prev, err := r.findDay(tx, userID, day.AddDate(0, 0, -1).Format(entities.StatDateLayout))
	if err != nil {
		return err
	}
	if prev != nil {
		streak = prev.StreakDays + 1
	}

	stat := entities.StudyStat{
		UserID:            userID,
		Date:              day.Format(entities.StatDateLayout),
		TotalMinutes:      minutes,
		TotalSessions:     1,
		CompletedSessions: 1,
		StreakDays:        streak,
	}
	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoUpdates: clause.Assignments(map[string]any{
			"total_minutes":      gorm.Expr("study_stats.total_minutes + ?", minutes),
			"total_sessions":     gorm.Expr("study_stats.total_sessions + 1"),
			"completed_sessions": gorm.Expr("study_stats.completed_sessions + 1"),
			"streak_days":        streak,
			"updated_at":         r.now(),
		}),
	}).Create(&stat).Error
}

func (r *Repository) findDay(tx *gorm.DB, userID uint, date string) (*entities.StudyStat, error) {
	var stat entities.StudyStat
	err := tx.Where("user_id = ? AND date = ?", userID, date).First(&stat).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &stat, nil
}

// Today sums the completed sessions created today.
func (r *Repository) Today(userID uint) (entities.TodayStat, error) {
	start := r.startOfDay(r.now()).Local()
	var today entities.TodayStat
	err := r.db.Model(&entities.StudySession{}).
		Select("COALESCE(SUM(duration), 0) AS total_minutes, COUNT(*) AS total_sessions").
		Where("user_id = ? AND status = ? AND created_at >= ? AND created_at < ?",
			userID, entities.SessionStatusCompleted, start, start.AddDate(0, 0, 1)).
		Scan(&today).Error
	return today, err
}

// Weekly groups completed sessions of the trailing seven calendar days,
// today included, most recent day first. Days without sessions are omitted.
func (r *Repository) Weekly(userID uint) ([]entities.DayStat, error) {
	// Bounds are bound in the local zone since sqlite compares timestamps as text.
	end := r.startOfDay(r.now()).AddDate(0, 0, 1).Local()
	start := end.AddDate(0, 0, -weeklyWindow)

	var sessions []entities.StudySession
	err := r.db.Select("duration", "created_at").
		Where("user_id = ? AND status = ? AND created_at >= ? AND created_at < ?",
			userID, entities.SessionStatusCompleted, start, end).
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}

	byDay := map[string]*entities.DayStat{}
	for _, s := range sessions {
		date := s.CreatedAt.In(r.loc).Format(entities.StatDateLayout)
		day, ok := byDay[date]
		if !ok {
			day = &entities.DayStat{StudyDate: date}
			byDay[date] = day
		}
		day.SessionsCount++
		day.TotalMinutes += s.Duration
	}

	days := make([]entities.DayStat, 0, len(byDay))
	for _, d := range byDay {
		days = append(days, *d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].StudyDate > days[j].StudyDate })
	return days, nil
}

// Monthly rolls daily rows up into the last MonthlyWindow months with data,
// most recent first.
func (r *Repository) Monthly(userID uint) ([]entities.MonthStat, error) {
	from := r.startOfDay(r.now()).AddDate(0, -(MonthlyWindow - 1), 0)
	from = time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, r.loc)

	var rows []entities.StudyStat
	err := r.db.Where("user_id = ? AND date >= ?", userID, from.Format(entities.StatDateLayout)).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	byMonth := map[string]*entities.MonthStat{}
	for _, row := range rows {
		if len(row.Date) < 7 {
			continue
		}
		key := row.Date[:7]
		m, ok := byMonth[key]
		if !ok {
			m = &entities.MonthStat{Month: key}
			byMonth[key] = m
		}
		m.Sessions += row.TotalSessions
		m.Minutes += row.TotalMinutes
		m.Completed += row.CompletedSessions
	}

	months := make([]entities.MonthStat, 0, len(byMonth))
	for _, m := range byMonth {
		months = append(months, *m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Month > months[j].Month })
	if len(months) > MonthlyWindow {
		months = months[:MonthlyWindow]
	}
	return months, nil
}

// History returns the daily rows of the last days calendar days, newest first.
func (r *Repository) History(userID uint, days int) ([]entities.StudyStat, error) {
	if days <= 0 {
		days = DefaultHistoryDays
	}
	from := r.startOfDay(r.now()).AddDate(0, 0, -(days - 1)).Format(entities.StatDateLayout)

	rows := []entities.StudyStat{}
	err := r.db.Where("user_id = ? AND date >= ?", userID, from).
		Order("date DESC").
		Find(&rows).Error
	return rows, err
}

// CurrentStreak returns the streak of the most recent row if that row is for
// today or yesterday. An older row means the streak is broken.
func (r *Repository) CurrentStreak(userID uint) (int, error) {
	var latest entities.StudyStat
	err := r.db.Where("user_id = ?", userID).Order("date DESC").First(&latest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	today := r.startOfDay(r.now())
	switch latest.Date {
	case today.Format(entities.StatDateLayout), today.AddDate(0, 0, -1).Format(entities.StatDateLayout):
		return latest.StreakDays, nil
	}
	return 0, nil
}

// Rebuild drops the user's rows and replays the entries in time order.
func (r *Repository) Rebuild(userID uint, entries []Entry) error {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].At.Before(sorted[j].At) })

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&entities.StudyStat{}).Error; err != nil {
			return err
		}
		for _, e := range sorted {
			if err := r.record(tx, userID, e.Minutes, e.At); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *Repository) startOfDay(t time.Time) time.Time {
	t = t.In(r.loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, r.loc)
}
