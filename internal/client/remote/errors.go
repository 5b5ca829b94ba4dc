package remote

import (
	"errors"
	"fmt"
)

var (
	// ErrRemoteUnavailable matches every *UnavailableError. Callers fall
	// back to the local store.
	ErrRemoteUnavailable = errors.New("remote store unavailable")
	// ErrAuthRejected is returned for 401 and 403 responses.
	ErrAuthRejected = errors.New("authentication rejected")
	// ErrConflict is returned for 409 responses, such as a duplicate email.
	ErrConflict = errors.New("conflict")
)

// UnavailableError wraps a network failure, a timeout or a 5xx response.
type UnavailableError struct {
	StatusCode int
	Err        error
}

func (e *UnavailableError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("remote store unavailable: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("remote store unavailable: %v", e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

func (e *UnavailableError) Is(target error) bool {
	return target == ErrRemoteUnavailable
}

// APIError is a non-2xx answer with the server's {error, message} body.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	kind       error
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

func (e *APIError) Unwrap() error {
	return e.kind
}

// IsUnavailable reports whether err should trigger local fallback.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrRemoteUnavailable)
}
