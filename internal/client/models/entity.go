package models

import (
	"errors"
	"time"
)

// ErrUnsupportedVerb is returned when a verb does not apply to a record type.
var ErrUnsupportedVerb = errors.New("operation not supported for this record type")

// Collection names, shared by the local cache and sync reports.
const (
	CollectionSessions = "sessions"
	CollectionNotes    = "notes"
	CollectionBooks    = "books"
	CollectionTimers   = "timers"
)

// Entity is implemented by the value types of every cached record. Methods
// return modified copies.
type Entity[T any] interface {
	Collection() string
	Key() int64
	WithKey(id int64) T
	SyncMeta() Meta
	WithSyncMeta(meta Meta) T
	Created() time.Time

	// Stamp sets creation and update timestamps on a new record.
	Stamp(now time.Time) T
	// Merge copies the non-zero fields of patch over the receiver.
	Merge(patch T, now time.Time) T
	// WithEdits copies the user-editable fields of from over the receiver,
	// keeping its key, state and timestamps.
	WithEdits(from T) T
	// Apply performs a state transition. changed is false when the
	// record was left as is.
	Apply(verb Verb, now time.Time) (next T, changed bool, err error)
	// Baseline is the state to create remotely before replaying verbs.
	Baseline(replay []Verb) T
	// Validate checks the fields required by verb.
	Validate(verb Verb) error
	// Matches reports whether the record belongs to category. An empty
	// category matches everything.
	Matches(category string) bool
}

func hasTransition(replay []Verb, verbs ...Verb) bool {
	for _, v := range replay {
		for _, want := range verbs {
			if v == want {
				return true
			}
		}
	}
	return false
}

func pick(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}

func allCategories(category string) bool {
	return category == "" || category == "all"
}
