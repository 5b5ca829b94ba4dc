package models

import (
	"time"

	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/entities"
)

// Session is a study session.
type Session struct {
	ID          int64                  `json:"id"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Subject     string                 `json:"subject"`
	Duration    Minutes                `json:"duration"`
	Status      entities.SessionStatus `json:"status"`
	CreatedAt   time.Time              `json:"createdAt"`
	UpdatedAt   time.Time              `json:"updatedAt"`
	StartedAt   *time.Time             `json:"startedAt,omitempty"`
	CompletedAt *time.Time             `json:"completedAt,omitempty"`
	Meta        Meta                   `json:"_sync"`
}

func (Session) Collection() string { return CollectionSessions }

func (s Session) Key() int64 { return s.ID }

func (s Session) WithKey(id int64) Session {
	s.ID = id
	return s
}

func (s Session) SyncMeta() Meta { return s.Meta }

func (s Session) WithSyncMeta(meta Meta) Session {
	s.Meta = meta
	return s
}

func (s Session) Created() time.Time { return s.CreatedAt }

func (s Session) Stamp(now time.Time) Session {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now
	if s.Status == "" {
		s.Status = entities.SessionStatusPlanned
	}
	return s
}

func (s Session) Merge(patch Session, now time.Time) Session {
	s.Title = pick(patch.Title, s.Title)
	s.Description = pick(patch.Description, s.Description)
	s.Subject = pick(patch.Subject, s.Subject)
	if patch.Duration > 0 {
		s.Duration = patch.Duration
	}
	if patch.Status != "" && patch.Status != s.Status {
		s, _ = s.moveTo(patch.Status, now)
	}
	s.UpdatedAt = now
	return s
}

func (s Session) WithEdits(from Session) Session {
	s.Title = from.Title
	s.Description = from.Description
	s.Subject = from.Subject
	s.Duration = from.Duration
	return s
}

func (s Session) Apply(verb Verb, now time.Time) (Session, bool, error) {
	switch verb {
	case VerbStart:
		if s.Status != entities.SessionStatusPlanned {
			return s, false, nil
		}
		next, changed := s.moveTo(entities.SessionStatusInProgress, now)
		return next, changed, nil
	case VerbComplete:
		if s.Status == entities.SessionStatusCompleted || !s.Status.CanTransitionTo(entities.SessionStatusCompleted) {
			return s, false, nil
		}
		next, changed := s.moveTo(entities.SessionStatusCompleted, now)
		return next, changed, nil
	}
	return s, false, ErrUnsupportedVerb
}

func (s Session) moveTo(next entities.SessionStatus, now time.Time) (Session, bool) {
	if !s.Status.CanTransitionTo(next) || s.Status == next {
		return s, false
	}
	switch next {
	case entities.SessionStatusInProgress:
		if s.StartedAt == nil {
			s.StartedAt = &now
		}
	case entities.SessionStatusCompleted:
		s.CompletedAt = &now
	}
	s.Status = next
	s.UpdatedAt = now
	return s, true
}

// Baseline resets the status when start or complete will be replayed, so
// the server credits study time when the transition arrives.
func (s Session) Baseline(replay []Verb) Session {
	if hasTransition(replay, VerbStart, VerbComplete) {
		s.Status = entities.SessionStatusPlanned
		s.StartedAt = nil
		s.CompletedAt = nil
	}
	return s
}

func (s Session) Validate(verb Verb) error {
	switch verb {
	case VerbCreate:
		if err := entities.RequireText("title", s.Title); err != nil {
			return err
		}
		if s.Duration <= 0 {
			return entities.NewValidationError("duration", "must be greater than 0")
		}
		if _, err := entities.ResolveSessionStatus(s.Status); err != nil {
			return err
		}
	case VerbUpdate:
		if s.Duration < 0 {
			return entities.NewValidationError("duration", "must be greater than 0")
		}
		if s.Status != "" && !s.Status.Valid() {
			return entities.NewValidationError("status", "invalid status value")
		}
	}
	return nil
}

func (Session) Matches(string) bool { return true }
