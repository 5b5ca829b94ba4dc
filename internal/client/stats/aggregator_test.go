package stats

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/client/datastore"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/client/models"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/client/remote"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/entities"
)

type authFlag bool

func (a authFlag) Authenticated() bool { return bool(a) }

type sessionList []models.Session

func (l sessionList) Read(context.Context, datastore.Query) ([]models.Session, error) {
	return l, nil
}

type fakeRemote struct {
	summary models.Summary
	weekly  []models.Day
	streak  int
	err     error
	calls   int
}

func (f *fakeRemote) Summary(context.Context) (models.Summary, error) {
	f.calls++
	return f.summary, f.err
}

func (f *fakeRemote) Weekly(context.Context) ([]models.Day, error) {
	f.calls++
	return f.weekly, f.err
}

func (f *fakeRemote) Streak(context.Context) (int, error) {
	f.calls++
	return f.streak, f.err
}

var fixedNow = time.Date(2024, 3, 15, 14, 0, 0, 0, time.UTC)

func completed(minutes int, at time.Time) models.Session {
	return models.Session{
		Title:     "s",
		Duration:  models.Minutes(minutes),
		Status:    entities.SessionStatusCompleted,
		CreatedAt: at,
	}
}

func newLocal(sessions ...models.Session) *Aggregator {
	a := New(nil, sessionList(sessions), authFlag(false), time.UTC)
	a.now = func() time.Time { return fixedNow }
	return a
}

func TestAggregator_LocalSameDayTotals(t *testing.T) {
	a := newLocal(
		completed(25, fixedNow.Add(-2*time.Hour)),
		completed(30, fixedNow.Add(-1*time.Hour)),
	)

	s, err := a.Summary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, models.SourceLocal, s.Source)
	require.Len(t, s.Weekly, 1)
	assert.Equal(t, "2024-03-15", s.Weekly[0].Date)
	assert.Equal(t, 55, s.Weekly[0].TotalMinutes)
	assert.Equal(t, 2, s.Weekly[0].SessionsCount)
	assert.Equal(t, models.Today{TotalMinutes: 55, TotalSessions: 2}, s.Today)
	assert.Equal(t, 55, s.WeeklyTotalMinutes)
	assert.Equal(t, 2, s.WeeklyTotalSessions)
	assert.InDelta(t, 7.9, s.DailyAverageMinutes, 0.001)
	assert.Zero(t, s.Streak)
	assert.NotNil(t, s.Monthly)
	assert.Empty(t, s.Monthly)
}

func TestAggregator_LocalWeekWindow(t *testing.T) {
	a := newLocal(
		completed(10, fixedNow.AddDate(0, 0, -1)),
		completed(20, fixedNow.AddDate(0, 0, -6)),
		completed(40, fixedNow.AddDate(0, 0, -7)),
		completed(15, fixedNow.AddDate(0, 0, 1)),
		models.Session{Title: "planned", Duration: 60, Status: entities.SessionStatusPlanned, CreatedAt: fixedNow},
		models.Session{Title: "running", Duration: 60, Status: entities.SessionStatusInProgress, CreatedAt: fixedNow},
	)

	s, err := a.Summary(context.Background())
	require.NoError(t, err)

	require.Len(t, s.Weekly, 2)
	assert.Equal(t, "2024-03-14", s.Weekly[0].Date)
	assert.Equal(t, "2024-03-09", s.Weekly[1].Date)
	assert.Equal(t, 30, s.WeeklyTotalMinutes)
	assert.Equal(t, models.Today{}, s.Today)
}

func TestAggregator_LocalGroupsByTimezone(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)
	// 23:30 UTC on the 14th is already the 15th in Tokyo
	late := time.Date(2024, 3, 14, 23, 30, 0, 0, time.UTC)

	a := New(nil, sessionList{completed(25, late)}, authFlag(false), tokyo)
	a.now = func() time.Time { return fixedNow }

	s, err := a.Summary(context.Background())
	require.NoError(t, err)
	require.Len(t, s.Weekly, 1)
	assert.Equal(t, "2024-03-15", s.Weekly[0].Date)
	assert.Equal(t, 25, s.Today.TotalMinutes)
}

func TestAggregator_MissingDurationsNeverNaN(t *testing.T) {
	var decoded []models.Session
	raw := `[
		{"title":"a","status":"completed","createdAt":"2024-03-15T09:00:00Z"},
		{"title":"b","status":"completed","duration":null,"createdAt":"2024-03-15T10:00:00Z"},
		{"title":"c","status":"completed","duration":"abc","createdAt":"2024-03-15T11:00:00Z"}
	]`
	require.NoError(t, json.Unmarshal([]byte(raw), &decoded))

	a := newLocal(decoded...)
	s, err := a.Summary(context.Background())
	require.NoError(t, err)

	require.Len(t, s.Weekly, 1)
	assert.Equal(t, 3, s.Weekly[0].SessionsCount)
	assert.Zero(t, s.Weekly[0].TotalMinutes)
	assert.False(t, math.IsNaN(s.DailyAverageMinutes))
	assert.Zero(t, s.DailyAverageMinutes)
}

func TestAggregator_EmptyCache(t *testing.T) {
	s, err := newLocal().Summary(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, s.Weekly)
	assert.Empty(t, s.Weekly)
	assert.Zero(t, s.DailyAverageMinutes)
}

func TestAggregator_RemoteFirst(t *testing.T) {
	api := &fakeRemote{summary: models.Summary{Today: models.Today{TotalMinutes: 90}, Streak: 4}}
	a := New(api, sessionList{completed(25, fixedNow)}, authFlag(true), time.UTC)

	s, err := a.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.SourceRemote, s.Source)
	assert.Equal(t, 90, s.Today.TotalMinutes)
	assert.Equal(t, 4, s.Streak)
}

func TestAggregator_UnavailableFallsBack(t *testing.T) {
	api := &fakeRemote{err: &remote.UnavailableError{StatusCode: 502}}
	a := New(api, sessionList{completed(25, fixedNow)}, authFlag(true), time.UTC)
	a.now = func() time.Time { return fixedNow }
	ctx := context.Background()

	s, err := a.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.SourceLocal, s.Source)
	assert.Equal(t, 25, s.Today.TotalMinutes)

	days, err := a.Weekly(ctx)
	require.NoError(t, err)
	require.Len(t, days, 1)

	streak, err := a.Streak(ctx)
	require.NoError(t, err)
	assert.Zero(t, streak)
}

func TestAggregator_AuthRejectedSurfaced(t *testing.T) {
	api := &fakeRemote{err: remote.ErrAuthRejected}
	a := New(api, sessionList{}, authFlag(true), time.UTC)
	ctx := context.Background()

	_, err := a.Summary(ctx)
	assert.ErrorIs(t, err, remote.ErrAuthRejected)
	_, err = a.Weekly(ctx)
	assert.ErrorIs(t, err, remote.ErrAuthRejected)
	_, err = a.Streak(ctx)
	assert.True(t, errors.Is(err, remote.ErrAuthRejected))
}

func TestAggregator_SignedOutSkipsRemote(t *testing.T) {
	api := &fakeRemote{streak: 9}
	a := New(api, sessionList{}, authFlag(false), time.UTC)

	streak, err := a.Streak(context.Background())
	require.NoError(t, err)
	assert.Zero(t, streak)
	assert.Zero(t, api.calls)
}

func TestDailyAverage(t *testing.T) {
	assert.Zero(t, dailyAverage(nil))
	assert.InDelta(t, 10.0, dailyAverage([]models.Day{{TotalMinutes: 70}}), 0.001)
	assert.InDelta(t, 15.0, dailyAverage([]models.Day{{TotalMinutes: 35}, {TotalMinutes: 70}}), 0.001)
}
