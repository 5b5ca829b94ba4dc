package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/entities"
)

func TestSettingsController(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(t, "GET", "/api/settings", nil)
	require.Equal(t, http.StatusOK, w.Code)
	defaults := decode[entities.UserSettings](t, w)
	assert.False(t, defaults.PushEnabled)
	assert.True(t, defaults.DailyReminders)

	w = env.do(t, "PUT", "/api/settings", map[string]any{
		"push_enabled":       true,
		"daily_reminders":    "yes",
		"session_reminders":  1,
		"achievement_alerts": true,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[success[entities.UserSettings]](t, w).Data
	assert.True(t, updated.PushEnabled)
	assert.False(t, updated.DailyReminders)
	assert.False(t, updated.SessionReminders)
	assert.True(t, updated.AchievementAlerts)

	stored := decode[entities.UserSettings](t, env.do(t, "GET", "/api/settings", nil))
	assert.Equal(t, updated.PushEnabled, stored.PushEnabled)
	assert.Equal(t, updated.DailyReminders, stored.DailyReminders)
}

func TestSettingsController_RejectsNonObject(t *testing.T) {
	env := setupTestEnv(t)
	w := env.do(t, "PUT", "/api/settings", []bool{true})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
