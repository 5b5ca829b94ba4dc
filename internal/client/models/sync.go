package models

import (
	"slices"
	"time"
)

// Verb is a queued write operation.
type Verb string

const (
	VerbCreate   Verb = "create"
	VerbUpdate   Verb = "update"
	VerbStart    Verb = "start"
	VerbComplete Verb = "complete"
	VerbToggle   Verb = "toggle"
	VerbDelete   Verb = "delete"
)

// Meta is the sync state of a cached record.
type Meta struct {
	// Remote is set once the server has assigned the record's id.
	Remote bool `json:"remote,omitempty"`
	// Pending lists verbs not yet pushed, oldest first.
	Pending []Verb `json:"pending,omitempty"`
	// Deleted marks a tombstone that hides the record until the delete is pushed.
	Deleted bool `json:"deleted,omitempty"`
	// Rev counts local writes. EditRev is the Rev of the latest field edit.
	Rev     int64 `json:"rev,omitempty"`
	EditRev int64 `json:"editRev,omitempty"`
}

// SyncPending reports whether the record still has changes to push.
func (m Meta) SyncPending() bool {
	return len(m.Pending) > 0
}

// LocalOnly reports whether the record exists only in the local cache.
func (m Meta) LocalOnly() bool {
	return !m.Remote
}

// Queue appends verb to the pending list. A record already pending create
// pushes its whole state, so later updates fold into the create. Consecutive
// updates collapse into one. Every call counts as a local write.
func (m Meta) Queue(verb Verb) Meta {
	m.Rev++
	pending := slices.Clone(m.Pending)
	switch verb {
	case VerbUpdate:
		m.EditRev = m.Rev
		if slices.Contains(pending, VerbCreate) {
			return m
		}
		if n := len(pending); n > 0 && pending[n-1] == VerbUpdate {
			return m
		}
	case VerbDelete:
		m.Deleted = true
		pending = nil
	}
	m.Pending = append(pending, verb)
	return m
}

// EntityReport counts one entity type's outcome in a sync run.
type EntityReport struct {
	Pushed  int `json:"pushed"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

// SyncReport is the outcome of one sync run.
type SyncReport struct {
	RunID      string                  `json:"runId"`
	Trigger    string                  `json:"trigger"`
	StartedAt  time.Time               `json:"startedAt"`
	FinishedAt time.Time               `json:"finishedAt"`
	Entities   map[string]EntityReport `json:"entities"`
	Error      string                  `json:"error,omitempty"`
}

// Add records one entity type's counters.
func (r *SyncReport) Add(collection string, er EntityReport) {
	if r.Entities == nil {
		r.Entities = make(map[string]EntityReport)
	}
	cur := r.Entities[collection]
	cur.Pushed += er.Pushed
	cur.Failed += er.Failed
	cur.Skipped += er.Skipped
	r.Entities[collection] = cur
}

func (r SyncReport) Pushed() int {
	n := 0
	for _, e := range r.Entities {
		n += e.Pushed
	}
	return n
}

func (r SyncReport) Failed() int {
	n := 0
	for _, e := range r.Entities {
		n += e.Failed
	}
	return n
}

func (r SyncReport) Skipped() int {
	n := 0
	for _, e := range r.Entities {
		n += e.Skipped
	}
	return n
}
