package remote

import (
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/client/models"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/entities"
)

type createdEnvelope[T any] struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
	Data    T      `json:"data"`
}

type dataEnvelope[T any] struct {
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// Request bodies only carry the fields that are set, so the same shape
// serves create and merge-update.

type sessionBody struct {
	Title       string                 `json:"title,omitempty"`
	Description string                 `json:"description,omitempty"`
	Subject     string                 `json:"subject,omitempty"`
	Duration    *int                   `json:"duration,omitempty"`
	Status      entities.SessionStatus `json:"status,omitempty"`
}

type noteBody struct {
	Title    string                `json:"title,omitempty"`
	Content  string                `json:"content,omitempty"`
	Category entities.NoteCategory `json:"category,omitempty"`
}

type bookBody struct {
	Title       string                `json:"title,omitempty"`
	Author      string                `json:"author,omitempty"`
	Description string                `json:"description,omitempty"`
	Category    entities.BookCategory `json:"category,omitempty"`
}

type timerBody struct {
	TimerType       string `json:"timer_type"`
	Duration        int    `json:"duration"`
	TaskDescription string `json:"task_description,omitempty"`
}

type durationBody struct {
	Duration *int `json:"duration,omitempty"`
}

var synced = models.Meta{Remote: true}

func sessionFromWire(s entities.StudySession) models.Session {
	return models.Session{
		ID:          int64(s.ID),
		Title:       s.Title,
		Description: s.Description,
		Subject:     s.Subject,
		Duration:    models.Minutes(s.Duration),
		Status:      s.Status,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
		StartedAt:   s.StartedAt,
		CompletedAt: s.CompletedAt,
		Meta:        synced,
	}
}

func sessionToWire(s models.Session) sessionBody {
	return sessionBody{
		Title:       s.Title,
		Description: s.Description,
		Subject:     s.Subject,
		Duration:    s.Duration.IntPtr(),
		Status:      s.Status,
	}
}

func noteFromWire(n entities.Note) models.Note {
	return models.Note{
		ID:        int64(n.ID),
		Title:     n.Title,
		Content:   n.Content,
		Category:  n.Category,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
		Meta:      synced,
	}
}

func noteToWire(n models.Note) noteBody {
	return noteBody{Title: n.Title, Content: n.Content, Category: n.Category}
}

func bookFromWire(b entities.Book) models.Book {
	return models.Book{
		ID:          int64(b.ID),
		Title:       b.Title,
		Author:      b.Author,
		Description: b.Description,
		Category:    b.Category,
		IsComplete:  b.IsComplete,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
		Meta:        synced,
	}
}

func bookToWire(b models.Book) bookBody {
	return bookBody{Title: b.Title, Author: b.Author, Description: b.Description, Category: b.Category}
}

func timerFromWire(t entities.FocusTimer) models.Timer {
	return models.Timer{
		ID:              int64(t.ID),
		TimerType:       t.TimerType,
		Duration:        models.Minutes(t.Duration),
		TaskDescription: t.TaskDescription,
		Completed:       t.Completed,
		StartedAt:       t.StartedAt,
		CompletedAt:     t.CompletedAt,
		Meta:            synced,
	}
}

func timerToWire(t models.Timer) timerBody {
	return timerBody{TimerType: t.TimerType, Duration: t.Duration.Int(), TaskDescription: t.TaskDescription}
}

func summaryFromWire(s entities.StatsSummary) models.Summary {
	out := models.Summary{
		Today:               models.Today{TotalMinutes: s.Today.TotalMinutes, TotalSessions: s.Today.TotalSessions},
		Weekly:              daysFromWire(s.Weekly),
		WeeklyTotalMinutes:  s.WeeklyTotalMinutes,
		WeeklyTotalSessions: s.WeeklyTotalSessions,
		DailyAverageMinutes: s.DailyAverageMinutes,
		Monthly:             make([]models.Month, 0, len(s.Monthly)),
		Streak:              s.Streak,
		Source:              models.SourceRemote,
	}
	for _, m := range s.Monthly {
		out.Monthly = append(out.Monthly, models.Month{Month: m.Month, Sessions: m.Sessions, Minutes: m.Minutes, Completed: m.Completed})
	}
	return out
}

func daysFromWire(days []entities.DayStat) []models.Day {
	out := make([]models.Day, 0, len(days))
	for _, d := range days {
		out = append(out, models.Day{Date: d.StudyDate, SessionsCount: d.SessionsCount, TotalMinutes: d.TotalMinutes})
	}
	return out
}

func settingsFromWire(s entities.UserSettings) models.Settings {
	return models.Settings{
		PushEnabled:       s.PushEnabled,
		DailyReminders:    s.DailyReminders,
		SessionReminders:  s.SessionReminders,
		AchievementAlerts: s.AchievementAlerts,
	}
}
