package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/entities"
)

func TestUserController_Dashboard(t *testing.T) {
	env := setupTestEnv(t)
	user := &entities.User{Name: "Ada", Email: "ada@example.com", Avatar: "A"}
	require.NoError(t, env.users.CreateUser(user))

	env.completeSession(t, 30)
	env.do(t, "POST", "/api/notes", map[string]any{"title": "n", "content": "c"}, user.ID)
	env.do(t, "POST", "/api/books", map[string]any{"title": "b"}, user.ID)

	w := env.do(t, "GET", "/api/user/dashboard", nil, user.ID)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[DashboardResponse](t, w)
	assert.Equal(t, user.ID, resp.User.ID)
	assert.Equal(t, "Ada", resp.Dashboard.Name)
	assert.Equal(t, int64(1), resp.Dashboard.CompletedSessions)
	assert.Equal(t, int64(1), resp.Dashboard.TotalNotes)
	assert.Equal(t, int64(1), resp.Dashboard.TotalBooks)
	assert.Equal(t, 30, resp.TodayStats.TotalMinutes)
}

func TestUserController_DashboardUnknownUser(t *testing.T) {
	env := setupTestEnv(t)
	w := env.do(t, "GET", "/api/user/dashboard", nil, 42)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
