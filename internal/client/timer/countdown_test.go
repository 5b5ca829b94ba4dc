package timer

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/client/models"
)

func TestDurationFor(t *testing.T) {
	assert.Equal(t, 25*time.Minute, DurationFor(models.TimerPomodoro))
	assert.Equal(t, 5*time.Minute, DurationFor(models.TimerShortBreak))
	assert.Equal(t, 15*time.Minute, DurationFor(models.TimerLongBreak))
	assert.Equal(t, 25*time.Minute, DurationFor("unknown"))
}

func TestCountdown_RunsToZero(t *testing.T) {
	c := NewCountdownWithInterval(50*time.Millisecond, 10*time.Millisecond)

	var mu sync.Mutex
	var ticks []time.Duration
	done := make(chan struct{})
	c.OnTick(func(r time.Duration) {
		mu.Lock()
		ticks = append(ticks, r)
		mu.Unlock()
	})
	c.OnDone(func() { close(done) })

	c.Start()
	assert.True(t, c.Running())

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("countdown did not finish")
	}

	assert.False(t, c.Running())
	assert.Zero(t, c.Remaining())

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, ticks, 5)
	assert.Equal(t, 40*time.Millisecond, ticks[0])
	assert.Zero(t, ticks[4])
}

func TestCountdown_PauseKeepsRemaining(t *testing.T) {
	c := NewCountdownWithInterval(time.Hour, 10*time.Millisecond)
	c.Start()
	require.Eventually(t, func() bool { return c.Remaining() < time.Hour }, time.Second, 5*time.Millisecond)

	c.Pause()
	assert.False(t, c.Running())
	paused := c.Remaining()

	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, paused, c.Remaining())

	c.Resume()
	assert.True(t, c.Running())
	require.Eventually(t, func() bool { return c.Remaining() < paused }, time.Second, 5*time.Millisecond)
	c.Pause()
}

func TestCountdown_ResetDiscardsElapsed(t *testing.T) {
	c := NewCountdownWithInterval(time.Hour, 10*time.Millisecond)
	c.Start()
	require.Eventually(t, func() bool { return c.Remaining() < time.Hour }, time.Second, 5*time.Millisecond)

	c.Reset()
	assert.False(t, c.Running())
	assert.Equal(t, time.Hour, c.Remaining())

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, time.Hour, c.Remaining())
}

func TestCountdown_RestartBeginsFromFullDuration(t *testing.T) {
	c := NewCountdownWithInterval(time.Hour, 10*time.Millisecond)
	c.Start()
	require.Eventually(t, func() bool { return c.Remaining() < time.Hour }, time.Second, 5*time.Millisecond)

	c.Pause()
	c.Start()
	assert.True(t, c.Running())
	assert.LessOrEqual(t, time.Hour-c.Remaining(), 50*time.Millisecond)
	c.Reset()
}

func TestCountdown_ResumeAfterFinishIsNoop(t *testing.T) {
	c := NewCountdownWithInterval(10*time.Millisecond, 10*time.Millisecond)
	done := make(chan struct{})
	c.OnDone(func() { close(done) })
	c.Start()
	<-done

	c.Resume()
	assert.False(t, c.Running())
	assert.Zero(t, c.Remaining())
}

func TestCountdown_DefaultInterval(t *testing.T) {
	c := NewCountdown(25 * time.Minute)
	assert.Equal(t, time.Second, c.interval)
	assert.False(t, c.Running())
	assert.Equal(t, 25*time.Minute, c.Remaining())
}
