// Package session holds the signed-in user and bearer token of the client.
//
// A Context is created once per process and handed to every component that
// needs to know who is signed in. Begin and End mark the login and logout
// boundaries; an optional Persister keeps the credential across CLI
// invocations.
package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/client/models"
)

// ErrNoToken is returned by Begin when called without a bearer token.
var ErrNoToken = errors.New("session token is required")

// State is the persisted form of a signed-in session.
type State struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

// Persister stores the current State. Load returns a zero State when
// nothing was saved.
type Persister interface {
	Load() (State, error)
	Save(State) error
	Clear() error
}

// Context is safe for concurrent use.
type Context struct {
	mu      sync.RWMutex
	state   State
	persist Persister
}

// New creates an empty context. persist may be nil.
func New(persist Persister) *Context {
	return &Context{persist: persist}
}

// Restore loads a previously saved session, if any.
func (c *Context) Restore() error {
	if c.persist == nil {
		return nil
	}
	state, err := c.persist.Load()
	if err != nil {
		return fmt.Errorf("failed to restore session: %w", err)
	}

	c.mu.Lock()
	c.state = state
	c.mu.Unlock()
	return nil
}

// Begin starts a session for user after a successful login or registration.
func (c *Context) Begin(user models.User, token string) error {
	if token == "" {
		return ErrNoToken
	}
	state := State{User: user, Token: token}

	if c.persist != nil {
		if err := c.persist.Save(state); err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}
	}

	c.mu.Lock()
	c.state = state
	c.mu.Unlock()
	return nil
}

// End clears the session. The in-memory state is cleared even when the
// persister fails.
func (c *Context) End() error {
	c.mu.Lock()
	c.state = State{}
	c.mu.Unlock()

	if c.persist != nil {
		if err := c.persist.Clear(); err != nil {
			return fmt.Errorf("failed to clear session: %w", err)
		}
	}
	return nil
}

func (c *Context) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.Token
}

func (c *Context) User() models.User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.User
}

// Authenticated reports whether a bearer token is held.
func (c *Context) Authenticated() bool {
	return c.Token() != ""
}
