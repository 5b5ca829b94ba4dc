package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/auth"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/database"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/database/books"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/database/notes"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/database/sessions"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/database/settings"
	statsrepo "github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/database/stats"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/database/timers"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/database/users"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/services"
)

// testUserHeader selects the acting user in tests.
const testUserHeader = "X-Test-User"

type testEnv struct {
	db       *database.Database
	sessions *sessions.Repository
	notes    *notes.Repository
	books    *books.Repository
	timers   *timers.Repository
	stats    *statsrepo.Repository
	users    *users.Repository
	study    *services.StudyService
	router   *gin.Engine
}

func setupTestEnv(t *testing.T) *testEnv {
	return setupTestEnvWithQueue(t, nil)
}

func setupTestEnvWithQueue(t *testing.T, queue TaskQueue) *testEnv {
	t.Helper()

	db, err := database.NewSQLiteDatabase(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	env := &testEnv{
		db:       db,
		sessions: sessions.NewRepository(db.DB),
		notes:    notes.NewRepository(db.DB),
		books:    books.NewRepository(db.DB),
		timers:   timers.NewRepository(db.DB),
		stats:    statsrepo.NewRepository(db.DB, time.Local),
		users:    users.NewRepository(db.DB),
	}
	env.study = services.NewStudyService(services.StudyServiceDeps{
		Sessions: env.sessions,
		Timers:   env.timers,
		Stats:    env.stats,
		Notes:    env.notes,
		Books:    env.books,
		Users:    env.users,
		Tx:       services.NewGormTransactor(env.db.DB, env.sessions, env.timers, env.stats),
	})

	cfg := RouterConfig{
		Sessions: env.sessions,
		Notes:    env.notes,
		Books:    env.books,
		Timers:   env.timers,
		Stats:    env.stats,
		Settings: settings.NewRepository(db.DB),
		Study:    env.study,
	}
	if queue != nil {
		cfg.TaskQueue = queue
	}

	router := gin.New()
	router.Use(func(c *gin.Context) {
		id, _ := strconv.ParseUint(c.GetHeader(testUserHeader), 10, 32)
		if id == 0 {
			id = 1
		}
		c.Set(auth.ContextKeyUserID, uint(id))
		c.Next()
	})
	registerAPIRoutes(router.Group("/api"), cfg)
	env.router = router

	return env
}

// do sends a JSON request as user 1 unless another user is given.
func (e *testEnv) do(t *testing.T, method, path string, body any, userID ...uint) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if len(userID) > 0 {
		req.Header.Set(testUserHeader, strconv.FormatUint(uint64(userID[0]), 10))
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

// created decodes a 201 body with the record typed as T.
type created[T any] struct {
	Message string `json:"message"`
	ID      uint   `json:"id"`
	Data    T      `json:"data"`
}

type success[T any] struct {
	Message string `json:"message"`
	Data    T      `json:"data"`
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
