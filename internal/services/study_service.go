package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"

	statsrepo "github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/database/stats"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/entities"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/metrics"
)

const weekDays = 7

// Single-user mode has no account row.
const (
	singleUserID   = 0
	singleUserName = "Student"
)

const (
	kindSession = "session"
	kindTimer   = "timer"
)

// StudyService keeps study_stats in step with session and timer completions
// and assembles the aggregated views.
type StudyService struct {
	sessions SessionStore
	timers   TimerStore
	stats    StatsStore
	notes    Counter
	books    Counter
	users    UserReader
	tx       Transactor
	now      func() time.Time
}

// StudyServiceDeps groups the stores the service depends on.
type StudyServiceDeps struct {
	Sessions SessionStore
	Timers   TimerStore
	Stats    StatsStore
	Notes    Counter
	Books    Counter
	Users    UserReader
	// Tx makes a completion and its stats credit atomic. Without it the
	// two writes commit separately.
	Tx Transactor
}

func NewStudyService(deps StudyServiceDeps) *StudyService {
	tx := deps.Tx
	if tx == nil {
		tx = direct{Sessions: deps.Sessions, Timers: deps.Timers, Stats: deps.Stats}
	}
	return &StudyService{
		sessions: deps.Sessions,
		timers:   deps.Timers,
		stats:    deps.Stats,
		notes:    deps.Notes,
		books:    deps.Books,
		users:    deps.Users,
		tx:       tx,
		now:      time.Now,
	}
}

// CompleteSession completes the session and counts it in today's stats the
// first time it completes. A non-nil duration overrides the minutes credited;
// negative overrides are clamped to zero and zero minutes are not recorded.
// The transition and the credit commit together.
func (s *StudyService) CompleteSession(userID, id uint, duration *int) (*entities.StudySession, error) {
	now := s.now()
	var (
		session *entities.StudySession
		minutes int
	)
	err := s.tx.InTransaction(func(st CompletionStores) error {
		var (
			completedNow bool
			err          error
		)
		session, completedNow, err = st.Sessions.Complete(userID, id, now)
		if err != nil || !completedNow {
			return err
		}
		minutes = credited(session.Duration, duration)
		return credit(st.Stats, userID, minutes, now)
	})
	if err != nil {
		return nil, err
	}
	observe(kindSession, minutes)
	return session, nil
}

// SessionCompleted credits a session that reached completed through a plain update.
func (s *StudyService) SessionCompleted(userID uint, session *entities.StudySession) error {
	if err := credit(s.stats, userID, session.Duration, s.now()); err != nil {
		return err
	}
	observe(kindSession, session.Duration)
	return nil
}

// CompleteTimer completes the timer and credits its minutes once. A non-nil
// duration overrides the timer's own duration.
func (s *StudyService) CompleteTimer(userID, id uint, duration *int) (*entities.FocusTimer, error) {
	now := s.now()
	var (
		timer   *entities.FocusTimer
		minutes int
	)
	err := s.tx.InTransaction(func(st CompletionStores) error {
		var (
			completedNow bool
			err          error
		)
		timer, completedNow, err = st.Timers.Complete(userID, id, now)
		if err != nil || !completedNow {
			return err
		}
		minutes = credited(timer.Duration, duration)
		return credit(st.Stats, userID, minutes, now)
	})
	if err != nil {
		return nil, err
	}
	observe(kindTimer, minutes)
	return timer, nil
}

func credited(own int, override *int) int {
	if override != nil {
		return max(0, *override)
	}
	return own
}

func credit(store StatsStore, userID uint, minutes int, at time.Time) error {
	if minutes <= 0 {
		return nil
	}
	if err := store.RecordStudy(userID, minutes, at); err != nil {
		return fmt.Errorf("failed to record study stats: %w", err)
	}
	return nil
}

func observe(kind string, minutes int) {
	if minutes > 0 {
		metrics.RecordCompletion(kind, minutes)
	}
}

// Summary gathers every statistics view concurrently. A failing view is
// logged and reported as zero so the others still reach the caller.
func (s *StudyService) Summary(ctx context.Context, userID uint) entities.StatsSummary {
	var (
		today   entities.TodayStat
		weekly  []entities.DayStat
		monthly []entities.MonthStat
		streak  int
	)

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := s.stats.Today(userID)
		if err != nil {
			log.Printf("Stats summary: today failed for user %d: %v", userID, err)
			return nil
		}
		today = v
		return nil
	})
	g.Go(func() error {
		v, err := s.stats.Weekly(userID)
		if err != nil {
			log.Printf("Stats summary: weekly failed for user %d: %v", userID, err)
			return nil
		}
		weekly = v
		return nil
	})
	g.Go(func() error {
		v, err := s.stats.Monthly(userID)
		if err != nil {
			log.Printf("Stats summary: monthly failed for user %d: %v", userID, err)
			return nil
		}
		monthly = v
		return nil
	})
	g.Go(func() error {
		v, err := s.stats.CurrentStreak(userID)
		if err != nil {
			log.Printf("Stats summary: streak failed for user %d: %v", userID, err)
			return nil
		}
		streak = v
		return nil
	})
	_ = g.Wait()

	if weekly == nil {
		weekly = []entities.DayStat{}
	}
	if monthly == nil {
		monthly = []entities.MonthStat{}
	}

	summary := entities.StatsSummary{
		Today:   today,
		Weekly:  weekly,
		Monthly: monthly,
		Streak:  streak,
	}
	for _, d := range weekly {
		summary.WeeklyTotalMinutes += d.TotalMinutes
		summary.WeeklyTotalSessions += d.SessionsCount
	}
	summary.DailyAverageMinutes = DailyAverage(weekly)
	return summary
}

// DailyAverage returns the mean minutes per day over a seven day window.
// Days without rows count as zero.
func DailyAverage(days []entities.DayStat) float64 {
	minutes := make(stats.Float64Data, weekDays)
	for i, d := range days {
		if i >= weekDays {
			break
		}
		minutes[i] = float64(d.TotalMinutes)
	}
	mean, err := minutes.Mean()
	if err != nil || math.IsNaN(mean) || math.IsInf(mean, 0) {
		return 0
	}
	rounded, err := stats.Round(mean, 1)
	if err != nil {
		return mean
	}
	return rounded
}

// Dashboard collects the counters shown on the home page.
func (s *StudyService) Dashboard(userID uint) (*entities.Dashboard, entities.TodayStat, error) {
	user, err := s.users.GetUserByID(userID)
	if errors.Is(err, entities.ErrNotFound) && userID == singleUserID {
		user, err = &entities.User{Name: singleUserName}, nil
	}
	if err != nil {
		return nil, entities.TodayStat{}, err
	}

	completed, err := s.sessions.CountCompleted(userID)
	if err != nil {
		return nil, entities.TodayStat{}, err
	}
	notes, err := s.notes.CountByUser(userID)
	if err != nil {
		return nil, entities.TodayStat{}, err
	}
	books, err := s.books.CountByUser(userID)
	if err != nil {
		return nil, entities.TodayStat{}, err
	}

	today, err := s.stats.Today(userID)
	if err != nil {
		log.Printf("Dashboard: today stats failed for user %d: %v", userID, err)
		today = entities.TodayStat{}
	}

	return &entities.Dashboard{
		Name:              user.Name,
		Email:             user.Email,
		Avatar:            user.Avatar,
		PushEnabled:       user.Settings.PushEnabled,
		DailyReminders:    user.Settings.DailyReminders,
		CompletedSessions: completed,
		TotalNotes:        notes,
		TotalBooks:        books,
	}, today, nil
}

// RebuildStats recomputes the user's daily rows from completed sessions and timers.
func (s *StudyService) RebuildStats(userID uint) (int, error) {
	sessions, err := s.sessions.ListByUser(userID)
	if err != nil {
		return 0, fmt.Errorf("failed to list sessions: %w", err)
	}
	timers, err := s.timers.ListCompleted(userID)
	if err != nil {
		return 0, fmt.Errorf("failed to list timers: %w", err)
	}

	var entries []statsrepo.Entry
	for _, session := range sessions {
		if session.Status != entities.SessionStatusCompleted || session.Duration <= 0 {
			continue
		}
		at := session.CreatedAt
		if session.CompletedAt != nil {
			at = *session.CompletedAt
		}
		entries = append(entries, statsrepo.Entry{Minutes: session.Duration, At: at})
	}
	for _, timer := range timers {
		if timer.Duration <= 0 {
			continue
		}
		at := timer.StartedAt
		if timer.CompletedAt != nil {
			at = *timer.CompletedAt
		}
		entries = append(entries, statsrepo.Entry{Minutes: timer.Duration, At: at})
	}

	if err := s.stats.Rebuild(userID, entries); err != nil {
		return 0, fmt.Errorf("failed to rebuild stats: %w", err)
	}
	log.Printf("Stats rebuilt for user %d from %d entries", userID, len(entries))
	return len(entries), nil
}
