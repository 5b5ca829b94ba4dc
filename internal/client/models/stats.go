package models

// Summary sources.
const (
	SourceRemote = "remote"
	SourceLocal  = "local"
)

type Today struct {
	TotalMinutes  int `json:"totalMinutes"`
	TotalSessions int `json:"totalSessions"`
}

// Day is one calendar day of the weekly breakdown. Date is YYYY-MM-DD.
type Day struct {
	Date          string `json:"date"`
	SessionsCount int    `json:"sessionsCount"`
	TotalMinutes  int    `json:"totalMinutes"`
}

type Month struct {
	Month     string `json:"month"`
	Sessions  int    `json:"sessions"`
	Minutes   int    `json:"minutes"`
	Completed int    `json:"completed"`
}

// Summary combines today's totals, the trailing week, the monthly rollup
// and the current streak.
type Summary struct {
	Today               Today   `json:"today"`
	Weekly              []Day   `json:"weekly"`
	WeeklyTotalMinutes  int     `json:"weeklyTotalMinutes"`
	WeeklyTotalSessions int     `json:"weeklyTotalSessions"`
	DailyAverageMinutes float64 `json:"dailyAverageMinutes"`
	Monthly             []Month `json:"monthly"`
	Streak              int     `json:"streak"`
	Source              string  `json:"source"`
}

// User is the account shown after login.
type User struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar"`
}

// Settings are the account's notification preferences.
type Settings struct {
	PushEnabled       bool `json:"pushEnabled"`
	DailyReminders    bool `json:"dailyReminders"`
	SessionReminders  bool `json:"sessionReminders"`
	AchievementAlerts bool `json:"achievementAlerts"`
}

// Dashboard is the home page summary of an account.
type Dashboard struct {
	User              User  `json:"user"`
	CompletedSessions int64 `json:"completedSessions"`
	TotalNotes        int64 `json:"totalNotes"`
	TotalBooks        int64 `json:"totalBooks"`
	Today             Today `json:"today"`
}
