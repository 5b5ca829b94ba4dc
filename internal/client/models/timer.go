package models

import (
	"time"

	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/entities"
)

// Timer types offered by the focus timer.
const (
	TimerPomodoro   = "pomodoro"
	TimerShortBreak = "short-break"
	TimerLongBreak  = "long-break"
)

// Timer is a saved focus timer run. StartedAt doubles as the creation time.
type Timer struct {
	ID              int64      `json:"id"`
	TimerType       string     `json:"timerType"`
	Duration        Minutes    `json:"duration"`
	TaskDescription string     `json:"taskDescription"`
	Completed       bool       `json:"completed"`
	StartedAt       time.Time  `json:"startedAt"`
	CompletedAt     *time.Time `json:"completedAt,omitempty"`
	Meta            Meta       `json:"_sync"`
}

func (Timer) Collection() string { return CollectionTimers }

func (t Timer) Key() int64 { return t.ID }

func (t Timer) WithKey(id int64) Timer {
	t.ID = id
	return t
}

func (t Timer) SyncMeta() Meta { return t.Meta }

func (t Timer) WithSyncMeta(meta Meta) Timer {
	t.Meta = meta
	return t
}

func (t Timer) Created() time.Time { return t.StartedAt }

func (t Timer) Stamp(now time.Time) Timer {
	if t.StartedAt.IsZero() {
		t.StartedAt = now
	}
	return t
}

func (t Timer) Merge(patch Timer, _ time.Time) Timer {
	t.TimerType = pick(patch.TimerType, t.TimerType)
	t.TaskDescription = pick(patch.TaskDescription, t.TaskDescription)
	if patch.Duration > 0 {
		t.Duration = patch.Duration
	}
	return t
}

// WithEdits only carries the task description; the server never edits timers.
func (t Timer) WithEdits(from Timer) Timer {
	t.TaskDescription = from.TaskDescription
	return t
}

func (t Timer) Apply(verb Verb, now time.Time) (Timer, bool, error) {
	if verb != VerbComplete {
		return t, false, ErrUnsupportedVerb
	}
	if t.Completed {
		return t, false, nil
	}
	t.Completed = true
	t.CompletedAt = &now
	return t, true, nil
}

func (t Timer) Baseline(replay []Verb) Timer {
	if hasTransition(replay, VerbComplete) {
		t.Completed = false
		t.CompletedAt = nil
	}
	return t
}

func (t Timer) Validate(verb Verb) error {
	if verb == VerbCreate {
		return entities.ValidateTimer(t.TimerType, t.Duration.Int())
	}
	return nil
}

func (Timer) Matches(string) bool { return true }
