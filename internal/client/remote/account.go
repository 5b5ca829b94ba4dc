package remote

import (
	"context"
	"net/http"

	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/client/models"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/entities"
)

type authUser struct {
	ID       uint                   `json:"id"`
	Name     string                 `json:"name"`
	Email    string                 `json:"email"`
	Avatar   string                 `json:"avatar"`
	Settings *entities.UserSettings `json:"settings,omitempty"`
}

type authResponse struct {
	Message string   `json:"message"`
	User    authUser `json:"user"`
	Token   string   `json:"token"`
}

// AuthResult is returned by Register and Login. Settings is nil after
// registration.
type AuthResult struct {
	User     models.User
	Settings *models.Settings
	Token    string
}

func (r authResponse) result() AuthResult {
	out := AuthResult{
		User: models.User{
			ID:     r.User.ID,
			Name:   r.User.Name,
			Email:  r.User.Email,
			Avatar: r.User.Avatar,
		},
		Token: r.Token,
	}
	if r.User.Settings != nil {
		s := settingsFromWire(*r.User.Settings)
		out.Settings = &s
	}
	return out
}

// Register creates an account. A duplicate email matches ErrConflict.
func (c *Client) Register(ctx context.Context, name, email, password string) (AuthResult, error) {
	var resp authResponse
	body := map[string]string{"name": name, "email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/register", body, &resp); err != nil {
		return AuthResult{}, err
	}
	return resp.result(), nil
}

// Login exchanges credentials for a bearer token. Wrong credentials match
// ErrAuthRejected.
func (c *Client) Login(ctx context.Context, email, password string) (AuthResult, error) {
	var resp authResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &resp); err != nil {
		return AuthResult{}, err
	}
	return resp.result(), nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
}

type dashboardResponse struct {
	User struct {
		ID    uint   `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
	Dashboard  *entities.Dashboard `json:"dashboard"`
	TodayStats entities.TodayStat  `json:"todayStats"`
}

func (c *Client) Dashboard(ctx context.Context) (models.Dashboard, error) {
	var resp dashboardResponse
	if err := c.do(ctx, http.MethodGet, "/user/dashboard", nil, &resp); err != nil {
		return models.Dashboard{}, err
	}

	out := models.Dashboard{
		User:  models.User{ID: resp.User.ID, Email: resp.User.Email},
		Today: models.Today{TotalMinutes: resp.TodayStats.TotalMinutes, TotalSessions: resp.TodayStats.TotalSessions},
	}
	if d := resp.Dashboard; d != nil {
		out.User.Name = d.Name
		out.User.Avatar = d.Avatar
		out.CompletedSessions = d.CompletedSessions
		out.TotalNotes = d.TotalNotes
		out.TotalBooks = d.TotalBooks
	}
	return out, nil
}

func (c *Client) Settings(ctx context.Context) (models.Settings, error) {
	var s entities.UserSettings
	if err := c.do(ctx, http.MethodGet, "/settings", nil, &s); err != nil {
		return models.Settings{}, err
	}
	return settingsFromWire(s), nil
}

func (c *Client) UpdateSettings(ctx context.Context, s models.Settings) (models.Settings, error) {
	body := map[string]bool{
		"push_enabled":       s.PushEnabled,
		"daily_reminders":    s.DailyReminders,
		"session_reminders":  s.SessionReminders,
		"achievement_alerts": s.AchievementAlerts,
	}
	return send(ctx, c, http.MethodPut, "/settings", body, settingsFromWire)
}
