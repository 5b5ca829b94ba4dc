package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/auth"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/metrics"
)

// NewRouter creates the JSON API router with every endpoint.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	if cfg.Metrics.Enabled {
		router.Use(metrics.Middleware())
	}

	router.Use(auth.SecurityHeadersMiddleware())

	// CSRF must run before the session middleware so the session context
	// survives CSRF's request replacement.
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.AuthConfig.SecureCookies, cfg.TokenIssuer))
	}
	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.SessionLoadSave())
	}

	if cfg.AuthMiddleware != nil {
		if cfg.Metrics.Enabled {
			cfg.AuthMiddleware.AllowPath(cfg.Metrics.Path)
		}
		router.Use(cfg.AuthMiddleware.Handler())
	} else {
		router.Use(func(c *gin.Context) {
			c.Set(auth.ContextKeyUserID, auth.DefaultUserID)
			c.Set(auth.ContextKeyAuthType, auth.AuthTypeNone)
			c.Next()
		})
	}

	health := NewHealthController(cfg.Health, cfg.Version)
	router.GET("/api/health", health.Status)

	if cfg.Metrics.Enabled {
		router.GET(cfg.Metrics.Path, metrics.Handler())
	}

	api := router.Group("/api")

	if cfg.AuthService != nil && cfg.AuthService.IsAuthEnabled() {
		authController := auth.NewAuthController(cfg.AuthService, cfg.SessionManager, cfg.RateLimiter)
		authController.RegisterRoutes(api.Group("/auth"))
	}

	registerAPIRoutes(api, cfg)

	router.NoRoute(func(c *gin.Context) {
		respondError(c, http.StatusNotFound, "Not found", "Route "+c.Request.URL.Path+" not found")
	})

	return router
}

// registerAPIRoutes mounts the per-user resources below /api.
func registerAPIRoutes(api *gin.RouterGroup, cfg RouterConfig) {
	NewSessionsController(cfg.Sessions, cfg.Study).RegisterRoutes(api.Group("/sessions"))
	NewNotesController(cfg.Notes).RegisterRoutes(api.Group("/notes"))
	NewBooksController(cfg.Books).RegisterRoutes(api.Group("/books"))
	NewTimersController(cfg.Timers, cfg.Study).RegisterRoutes(api.Group("/timers"))
	NewStatsController(cfg.Stats, cfg.Study, cfg.TaskQueue).RegisterRoutes(api.Group("/stats"))

	userController := NewUserController(cfg.Study)
	api.GET("/user/dashboard", userController.Dashboard)

	settingsController := NewSettingsController(cfg.Settings)
	api.GET("/settings", settingsController.Get)
	api.PUT("/settings", settingsController.Update)

	if cfg.TaskQueue != nil {
		tasksController := NewTasksController(cfg.TaskQueue)
		api.GET("/tasks/:id", tasksController.GetTaskStatus)
	}
}
