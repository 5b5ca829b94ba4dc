// Package timer runs the focus countdown shown while studying.
package timer

import (
	"sync"
	"time"

	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/client/models"
)

// DurationFor returns the default length of a timer type; unknown types get
// the pomodoro length.
func DurationFor(timerType string) time.Duration {
	switch timerType {
	case models.TimerShortBreak:
		return 5 * time.Minute
	case models.TimerLongBreak:
		return 15 * time.Minute
	default:
		return 25 * time.Minute
	}
}

// Countdown ticks on its own goroutine. Callbacks run on that goroutine and
// must not call back into the Countdown synchronously.
type Countdown struct {
	mu        sync.Mutex
	total     time.Duration
	remaining time.Duration
	interval  time.Duration
	running   bool
	// generation invalidates tickers left over from an earlier Start
	generation int
	stop       chan struct{}

	onTick func(remaining time.Duration)
	onDone func()
}

// NewCountdown creates a stopped countdown of d that ticks every second.
func NewCountdown(d time.Duration) *Countdown {
	return NewCountdownWithInterval(d, time.Second)
}

func NewCountdownWithInterval(d, interval time.Duration) *Countdown {
	if interval <= 0 {
		interval = time.Second
	}
	return &Countdown{total: d, remaining: d, interval: interval}
}

// OnTick registers a callback receiving the remaining time after each tick.
func (c *Countdown) OnTick(fn func(remaining time.Duration)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onTick = fn
}

// OnDone registers a callback run once when the countdown reaches zero.
func (c *Countdown) OnDone(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onDone = fn
}

// Start begins counting from the full duration.
func (c *Countdown) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.halt()
	c.remaining = c.total
	c.launch()
}

// Pause stops ticking and keeps the remaining time.
func (c *Countdown) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.halt()
}

// Resume continues a paused countdown. It does nothing when running or
// finished.
func (c *Countdown) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running || c.remaining <= 0 {
		return
	}
	c.launch()
}

// Reset stops the countdown and discards elapsed time.
func (c *Countdown) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.halt()
	c.remaining = c.total
}

func (c *Countdown) Remaining() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

func (c *Countdown) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// halt expects c.mu held.
func (c *Countdown) halt() {
	if !c.running {
		return
	}
	close(c.stop)
	c.running = false
	c.generation++
}

// launch expects c.mu held.
func (c *Countdown) launch() {
	if c.remaining <= 0 {
		return
	}
	c.running = true
	c.generation++
	c.stop = make(chan struct{})
	go c.loop(c.generation, c.stop)
}

func (c *Countdown) loop(generation int, stop <-chan struct{}) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}

		c.mu.Lock()
		if c.generation != generation {
			c.mu.Unlock()
			return
		}
		c.remaining -= c.interval
		if c.remaining < 0 {
			c.remaining = 0
		}
		remaining := c.remaining
		finished := remaining == 0
		if finished {
			c.running = false
			c.generation++
		}
		onTick, onDone := c.onTick, c.onDone
		c.mu.Unlock()

		if onTick != nil {
			onTick(remaining)
		}
		if finished {
			if onDone != nil {
				onDone()
			}
			return
		}
	}
}
