package entities

import (
	"strings"
	"unicode/utf8"
)

// MaxInputLength caps free-text fields after trimming.
const MaxInputLength = 500

// SanitizeInput trims surrounding whitespace and truncates to MaxInputLength runes.
func SanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= MaxInputLength {
		return s
	}
	runes := []rune(s)
	return string(runes[:MaxInputLength])
}

func (s SessionStatus) Valid() bool {
	switch s {
	case SessionStatusPlanned, SessionStatusInProgress, SessionStatusCompleted, SessionStatusCancelled:
		return true
	}
	return false
}

func (s SessionStatus) rank() int {
	switch s {
	case SessionStatusPlanned:
		return 0
	case SessionStatusInProgress:
		return 1
	case SessionStatusCompleted:
		return 2
	}
	return -1
}

// CanTransitionTo reports whether a session may move from s to next.
// Progress is monotonic planned -> inprogress -> completed; cancelled is
// terminal and reachable from any unfinished state. Staying put is allowed.
func (s SessionStatus) CanTransitionTo(next SessionStatus) bool {
	if s == next {
		return true
	}
	if s == SessionStatusCompleted || s == SessionStatusCancelled {
		return false
	}
	if next == SessionStatusCancelled {
		return true
	}
	return next.rank() > s.rank()
}

func (c NoteCategory) Valid() bool {
	switch c {
	case NoteCategoryStudy, NoteCategoryPersonal, NoteCategoryWork, NoteCategoryOther:
		return true
	}
	return false
}

func (c BookCategory) Valid() bool {
	switch c {
	case BookCategoryAcademic, BookCategoryFiction, BookCategoryNonFiction, BookCategoryReference:
		return true
	}
	return false
}

// RequireText rejects empty values.
func RequireText(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return NewValidationError(field, "is required")
	}
	return nil
}

// ResolveSessionDuration applies the default to an omitted duration and
// rejects non-positive values.
func ResolveSessionDuration(duration *int) (int, error) {
	if duration == nil {
		return DefaultSessionDuration, nil
	}
	if *duration <= 0 {
		return 0, NewValidationError("duration", "must be greater than 0")
	}
	return *duration, nil
}

// ResolveSessionStatus defaults an empty status to planned and rejects unknown values.
func ResolveSessionStatus(status SessionStatus) (SessionStatus, error) {
	if status == "" {
		return SessionStatusPlanned, nil
	}
	if !status.Valid() {
		return "", NewValidationError("status", "invalid status value")
	}
	return status, nil
}

// ResolveNoteCategory defaults an empty category to study and rejects unknown values.
func ResolveNoteCategory(category NoteCategory) (NoteCategory, error) {
	if category == "" {
		return NoteCategoryStudy, nil
	}
	if !category.Valid() {
		return "", NewValidationError("category", "invalid note category")
	}
	return category, nil
}

// ResolveBookCategory defaults an empty category to academic and rejects unknown values.
func ResolveBookCategory(category BookCategory) (BookCategory, error) {
	if category == "" {
		return BookCategoryAcademic, nil
	}
	if !category.Valid() {
		return "", NewValidationError("category", "invalid book category")
	}
	return category, nil
}

// ValidateTimer checks the fields required to save a focus timer.
func ValidateTimer(timerType string, duration int) error {
	if err := RequireText("timer_type", timerType); err != nil {
		return err
	}
	if duration <= 0 {
		return NewValidationError("duration", "must be a positive number")
	}
	return nil
}
