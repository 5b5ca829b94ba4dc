// Package stats reports study statistics, from the API when it can be
// reached and from the cached sessions otherwise.
package stats

import (
	"context"
	"log"
	"math"
	"sort"
	"time"

	mstats "github.com/montanaflynn/stats"

	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/client/datastore"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/client/models"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/client/remote"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/entities"
)

const (
	weekDays   = 7
	dateLayout = "2006-01-02"
)

// Remote is the statistics part of the API client.
type Remote interface {
	Summary(ctx context.Context) (models.Summary, error)
	Weekly(ctx context.Context) ([]models.Day, error)
	Streak(ctx context.Context) (int, error)
}

// SessionReader lists cached sessions.
type SessionReader interface {
	Read(ctx context.Context, q datastore.Query) ([]models.Session, error)
}

type Aggregator struct {
	remote   Remote
	sessions SessionReader
	auth     datastore.Authenticator
	loc      *time.Location
	now      func() time.Time
}

// New creates an aggregator. remoteStats may be nil for an offline client;
// loc selects the calendar used to group local sessions and defaults to
// time.Local.
func New(remoteStats Remote, sessions SessionReader, auth datastore.Authenticator, loc *time.Location) *Aggregator {
	if loc == nil {
		loc = time.Local
	}
	return &Aggregator{
		remote:   remoteStats,
		sessions: sessions,
		auth:     auth,
		loc:      loc,
		now:      time.Now,
	}
}

func (a *Aggregator) online() bool {
	return a.remote != nil && a.auth != nil && a.auth.Authenticated()
}

// Summary returns today's totals, the trailing week, the monthly rollup and
// the streak. Source tells which store answered.
func (a *Aggregator) Summary(ctx context.Context) (models.Summary, error) {
	if a.online() {
		s, err := a.remote.Summary(ctx)
		if err == nil {
			s.Source = models.SourceRemote
			return s, nil
		}
		if !remote.IsUnavailable(err) {
			return models.Summary{}, err
		}
		log.Printf("Stats: summary unavailable remotely, computing from cache: %v", err)
	}
	return a.localSummary(ctx)
}

// Weekly returns the days of the trailing week that have completed
// sessions, most recent first.
func (a *Aggregator) Weekly(ctx context.Context) ([]models.Day, error) {
	if a.online() {
		days, err := a.remote.Weekly(ctx)
		if err == nil {
			return days, nil
		}
		if !remote.IsUnavailable(err) {
			return nil, err
		}
		log.Printf("Stats: weekly unavailable remotely, computing from cache: %v", err)
	}
	s, err := a.localSummary(ctx)
	if err != nil {
		return nil, err
	}
	return s.Weekly, nil
}

// Streak returns the current run of consecutive study days. The cache
// cannot compute it, so an offline client reports 0.
func (a *Aggregator) Streak(ctx context.Context) (int, error) {
	if !a.online() {
		return 0, nil
	}
	n, err := a.remote.Streak(ctx)
	if err == nil {
		return n, nil
	}
	if !remote.IsUnavailable(err) {
		return 0, err
	}
	log.Printf("Stats: streak unavailable remotely: %v", err)
	return 0, nil
}

func (a *Aggregator) localSummary(ctx context.Context) (models.Summary, error) {
	sessions, err := a.sessions.Read(ctx, datastore.Query{})
	if err != nil {
		return models.Summary{}, err
	}

	now := a.now().In(a.loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, a.loc)
	from := today.AddDate(0, 0, -(weekDays - 1))
	to := today.AddDate(0, 0, 1)

	byDate := make(map[string]*models.Day)
	for _, s := range sessions {
		if s.Status != entities.SessionStatusCompleted {
			continue
		}
		created := s.CreatedAt.In(a.loc)
		if created.Before(from) || !created.Before(to) {
			continue
		}
		date := created.Format(dateLayout)
		d, ok := byDate[date]
		if !ok {
			d = &models.Day{Date: date}
			byDate[date] = d
		}
		d.SessionsCount++
		d.TotalMinutes += max(0, s.Duration.Int())
	}

	summary := models.Summary{
		Weekly:  make([]models.Day, 0, len(byDate)),
		Monthly: []models.Month{},
		Source:  models.SourceLocal,
	}
	for _, d := range byDate {
		summary.Weekly = append(summary.Weekly, *d)
		summary.WeeklyTotalMinutes += d.TotalMinutes
		summary.WeeklyTotalSessions += d.SessionsCount
	}
	// Dates are zero padded, so string order is calendar order
	sort.Slice(summary.Weekly, func(i, j int) bool {
		return summary.Weekly[i].Date > summary.Weekly[j].Date
	})
	if d, ok := byDate[today.Format(dateLayout)]; ok {
		summary.Today = models.Today{TotalMinutes: d.TotalMinutes, TotalSessions: d.SessionsCount}
	}
	summary.DailyAverageMinutes = dailyAverage(summary.Weekly)
	return summary, nil
}

// dailyAverage spreads the week's minutes over seven days; days without
// sessions count as zero.
func dailyAverage(days []models.Day) float64 {
	minutes := make(mstats.Float64Data, weekDays)
	for i, d := range days {
		if i >= weekDays {
			break
		}
		minutes[i] = float64(d.TotalMinutes)
	}
	mean, err := mstats.Mean(minutes)
	if err != nil || math.IsNaN(mean) || math.IsInf(mean, 0) {
		return 0
	}
	rounded, err := mstats.Round(mean, 1)
	if err != nil {
		return mean
	}
	return rounded
}
