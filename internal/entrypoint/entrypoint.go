package entrypoint

import (
	"context"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/auth"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/config"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/database"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/database/books"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/database/notes"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/database/sessions"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/database/settings"
	statsrepo "github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/database/stats"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/database/timers"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/database/users"
	http_controllers "github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/http"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/metrics"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/services"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until SIGINT or SIGTERM.
func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Starting server at %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// kill -2 is syscall.SIGINT, SIGKILL cannot be caught
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

// Run wires the API server from cfg and blocks until shutdown.
func Run(cfg *config.Config, version string) {
	log.Printf("Starting FocusMode API v%s", version)

	db, err := database.NewDatabase(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	if cfg.Metrics.Enabled {
		if err := metrics.InstrumentGorm(db.DB); err != nil {
			log.Printf("WARNING: database metrics disabled: %v", err)
		}
	}

	sessionRepo := sessions.NewRepository(db.DB)
	noteRepo := notes.NewRepository(db.DB)
	bookRepo := books.NewRepository(db.DB)
	timerRepo := timers.NewRepository(db.DB)
	statsRepo := statsrepo.NewRepository(db.DB, cfg.Stats.Location())
	userRepo := users.NewRepository(db.DB)

	study := services.NewStudyService(services.StudyServiceDeps{
		Sessions: sessionRepo,
		Timers:   timerRepo,
		Stats:    statsRepo,
		Notes:    noteRepo,
		Books:    bookRepo,
		Users:    userRepo,
		Tx:       services.NewGormTransactor(db.DB, sessionRepo, timerRepo, statsRepo),
	})

	routerCfg := http_controllers.RouterConfig{
		Version:    version,
		Health:     db,
		Sessions:   sessionRepo,
		Notes:      noteRepo,
		Books:      bookRepo,
		Timers:     timerRepo,
		Stats:      statsRepo,
		Settings:   settings.NewRepository(db.DB),
		Study:      study,
		AuthConfig: cfg.Auth,
		Metrics:    cfg.Metrics,
	}

	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskClient, err = tasks.NewClient(tasks.QueuePath(sqlitePath(cfg.Database), "."), tasks.FromConfig(cfg.Tasks))
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(tasks.NewRebuildStatsQueue(study))

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		taskClient.Start(taskCtx)
		routerCfg.TaskQueue = taskClient
	}

	var rateLimiter *auth.RateLimiter
	if cfg.Auth.Mode == config.AuthModeLocal {
		log.Printf("Authentication mode: local")

		tokens := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenExpiry)
		authService := auth.NewService(userRepo, tokens, cfg.Auth)

		sqlDB, err := db.DB.DB()
		if err != nil {
			log.Fatalf("Failed to get SQL DB for sessions: %v", err)
		}
		sessionManager, err := auth.NewSessionManager(sqlDB, db.Driver, cfg.Auth)
		if err != nil {
			log.Fatalf("Failed to initialize session manager: %v", err)
		}

		csrfSecret, err := sessionSecret(cfg.Auth.SessionSecret)
		if err != nil {
			log.Fatalf("Failed to generate CSRF secret: %v", err)
		}

		rateLimiter = auth.NewRateLimiter(cfg.Auth)

		routerCfg.AuthService = authService
		routerCfg.AuthMiddleware = auth.NewMiddleware(authService, sessionManager, cfg.Auth)
		routerCfg.SessionManager = sessionManager
		routerCfg.RateLimiter = rateLimiter
		routerCfg.TokenIssuer = tokens
		routerCfg.CSRFSecret = csrfSecret

		if count, err := userRepo.CountUsers(); err == nil && count == 0 {
			log.Printf("No users found. POST /api/auth/register to create an account.")
		}
	} else {
		log.Printf("Authentication mode: none (no authentication required)")
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
		if rateLimiter != nil {
			rateLimiter.Stop()
		}
	}

	Serve(router, cfg, onShutdown)
}

// sqlitePath is the server database file, or "" for network databases.
func sqlitePath(cfg config.Database) string {
	if cfg.Driver == config.DatabaseDriverSQLite || cfg.Driver == "" {
		return filepath.Clean(cfg.Path)
	}
	return ""
}

// sessionSecret decodes a hex secret, falls back to raw bytes for other
// strings and generates a fresh one when empty.
func sessionSecret(configured string) ([]byte, error) {
	if configured != "" {
		if b, err := hex.DecodeString(configured); err == nil {
			return b, nil
		}
		return []byte(configured), nil
	}

	secret, err := auth.GenerateSecret()
	if err != nil {
		return nil, err
	}
	log.Printf("Generated session secret (set AUTH_SESSION_SECRET to persist)")
	return hex.DecodeString(secret)
}
