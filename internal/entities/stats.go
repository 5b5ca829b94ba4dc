package entities

import "time"

// StatDateLayout is the layout of StudyStat.Date.
const StatDateLayout = "2006-01-02"

// StudyStat accumulates one user's study activity for one calendar day.
type StudyStat struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	UserID            uint      `gorm:"uniqueIndex:idx_study_stats_user_date" json:"user_id"`
	Date              string    `gorm:"size:10;uniqueIndex:idx_study_stats_user_date" json:"date"`
	TotalMinutes      int       `json:"total_minutes"`
	TotalSessions     int       `json:"total_sessions"`
	CompletedSessions int       `json:"completed_sessions"`
	StreakDays        int       `json:"streak_days"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (StudyStat) TableName() string {
	return "study_stats"
}

// DayStat is one row of the weekly breakdown.
type DayStat struct {
	StudyDate     string `json:"study_date"`
	SessionsCount int    `json:"sessions_count"`
	TotalMinutes  int    `json:"total_minutes"`
}

// MonthStat is one row of the monthly rollup.
type MonthStat struct {
	Month     string `json:"month"`
	Sessions  int    `json:"sessions"`
	Minutes   int    `json:"minutes"`
	Completed int    `json:"completed"`
}

// TodayStat holds today's totals over completed sessions.
type TodayStat struct {
	TotalMinutes  int `json:"total_minutes"`
	TotalSessions int `json:"total_sessions"`
}

// Dashboard holds per-user counters shown on the home page.
type Dashboard struct {
	Name              string `json:"name"`
	Email             string `json:"email"`
	Avatar            string `json:"avatar"`
	PushEnabled       bool   `json:"push_enabled"`
	DailyReminders    bool   `json:"daily_reminders"`
	CompletedSessions int64  `json:"completed_sessions"`
	TotalNotes        int64  `json:"total_notes"`
	TotalBooks        int64  `json:"total_books"`
}

// StatsSummary combines every statistics view in one response.
type StatsSummary struct {
	Today               TodayStat   `json:"today"`
	Weekly              []DayStat   `json:"weekly"`
	WeeklyTotalMinutes  int         `json:"weekly_total_minutes"`
	WeeklyTotalSessions int         `json:"weekly_total_sessions"`
	DailyAverageMinutes float64     `json:"daily_average_minutes"`
	Monthly             []MonthStat `json:"monthly"`
	Streak              int         `json:"streak"`
}
