package http

import (
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/auth"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/config"
)

// RouterConfig contains the dependencies needed to build the router.
type RouterConfig struct {
	Version string
	Health  Pinger

	Sessions SessionStore
	Notes    NoteStore
	Books    BookStore
	Timers   TimerStore
	Stats    StatsReader
	Settings SettingsStore
	Study    StudyWorkflow

	// TaskQueue is optional; without it stats rebuilds run inline.
	TaskQueue TaskQueue

	// Authentication
	AuthConfig     config.Auth
	AuthService    *auth.Service
	AuthMiddleware *auth.Middleware
	SessionManager *auth.SessionManager
	RateLimiter    *auth.RateLimiter
	TokenIssuer    *auth.TokenIssuer
	CSRFSecret     []byte

	Metrics config.Metrics
}
