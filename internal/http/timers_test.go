package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/entities"
)

func TestTimersController_CreateAndList(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(t, "POST", "/api/timers", map[string]any{"timer_type": "pomodoro", "duration": 25, "task_description": "Chapter 3"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	timer := decode[created[entities.FocusTimer]](t, w).Data
	assert.False(t, timer.Completed)
	assert.Equal(t, "Chapter 3", timer.TaskDescription)

	list := decode[[]entities.FocusTimer](t, env.do(t, "GET", "/api/timers", nil))
	require.Len(t, list, 1)
	assert.Equal(t, "pomodoro", list[0].TimerType)
}

func TestTimersController_CreateValidation(t *testing.T) {
	env := setupTestEnv(t)

	assert.Equal(t, http.StatusBadRequest, env.do(t, "POST", "/api/timers", map[string]any{"duration": 25}).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(t, "POST", "/api/timers", map[string]any{"timer_type": "pomodoro"}).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(t, "POST", "/api/timers", map[string]any{"timer_type": "pomodoro", "duration": -5}).Code)
}

func TestTimersController_Complete(t *testing.T) {
	t.Run("credits the timer duration without a body", func(t *testing.T) {
		env := setupTestEnv(t)
		timer := decode[created[entities.FocusTimer]](t, env.do(t, "POST", "/api/timers", map[string]any{"timer_type": "pomodoro", "duration": 25})).Data

		w := env.do(t, "POST", "/api/timers/"+itoa(timer.ID)+"/complete", nil)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		done := decode[success[entities.FocusTimer]](t, w).Data
		assert.True(t, done.Completed)
		assert.NotNil(t, done.CompletedAt)

		history, err := env.stats.History(1, 1)
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, 25, history[0].TotalMinutes)
	})

	t.Run("body duration overrides", func(t *testing.T) {
		env := setupTestEnv(t)
		timer := decode[created[entities.FocusTimer]](t, env.do(t, "POST", "/api/timers", map[string]any{"timer_type": "pomodoro", "duration": 25})).Data

		w := env.do(t, "POST", "/api/timers/"+itoa(timer.ID)+"/complete", map[string]any{"duration": 10})
		require.Equal(t, http.StatusOK, w.Code)

		history, err := env.stats.History(1, 1)
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, 10, history[0].TotalMinutes)
	})

	t.Run("is scoped to the owner", func(t *testing.T) {
		env := setupTestEnv(t)
		timer := decode[created[entities.FocusTimer]](t, env.do(t, "POST", "/api/timers", map[string]any{"timer_type": "pomodoro", "duration": 25})).Data

		w := env.do(t, "POST", "/api/timers/"+itoa(timer.ID)+"/complete", nil, 2)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
