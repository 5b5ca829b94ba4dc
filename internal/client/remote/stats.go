package remote

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/client/models"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/entities"
)

// Summary fetches every statistics view in one call.
func (c *Client) Summary(ctx context.Context) (models.Summary, error) {
	var s entities.StatsSummary
	if err := c.do(ctx, http.MethodGet, "/stats/summary", nil, &s); err != nil {
		return models.Summary{}, err
	}
	return summaryFromWire(s), nil
}

func (c *Client) Weekly(ctx context.Context) ([]models.Day, error) {
	var days []entities.DayStat
	if err := c.do(ctx, http.MethodGet, "/stats/weekly", nil, &days); err != nil {
		return nil, err
	}
	return daysFromWire(days), nil
}

func (c *Client) Streak(ctx context.Context) (int, error) {
	var resp struct {
		StreakDays int `json:"streak_days"`
	}
	if err := c.do(ctx, http.MethodGet, "/stats/streak", nil, &resp); err != nil {
		return 0, err
	}
	return resp.StreakDays, nil
}

// HistoryDay is one day of the accumulated study ledger.
type HistoryDay struct {
	Date              string `json:"date"`
	TotalMinutes      int    `json:"totalMinutes"`
	TotalSessions     int    `json:"totalSessions"`
	CompletedSessions int    `json:"completedSessions"`
	StreakDays        int    `json:"streakDays"`
}

// History returns the ledger rows of the last days days, newest first.
func (c *Client) History(ctx context.Context, days int) ([]HistoryDay, error) {
	var rows []entities.StudyStat
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/stats/history?days=%d", days), nil, &rows); err != nil {
		return nil, err
	}
	out := make([]HistoryDay, 0, len(rows))
	for _, r := range rows {
		out = append(out, HistoryDay{
			Date:              r.Date,
			TotalMinutes:      r.TotalMinutes,
			TotalSessions:     r.TotalSessions,
			CompletedSessions: r.CompletedSessions,
			StreakDays:        r.StreakDays,
		})
	}
	return out, nil
}

// Rebuild asks the server to recompute the ledger. taskID is empty when the
// server rebuilt inline.
func (c *Client) Rebuild(ctx context.Context) (taskID string, err error) {
	var resp dataEnvelope[struct {
		TaskID string `json:"task_id"`
	}]
	if err := c.do(ctx, http.MethodPost, "/stats/rebuild", nil, &resp); err != nil {
		return "", err
	}
	return resp.Data.TaskID, nil
}
