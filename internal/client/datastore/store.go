// Package datastore is the data access layer of the FocusMode client.
//
// Every entity type is served through the Store capability. RemoteStore
// talks to the API, LocalStore writes to the on-device cache and
// FallbackStore composes them: the remote store is tried once when a
// credential is held, and network failures, timeouts and 5xx answers fall
// through to the local store. Authentication failures, validation errors and
// missing records answered by the server are returned to the caller.
//
// Records written locally carry a queue of pending verbs that Push replays
// against the remote store once it is reachable again.
//
// # Usage
//
//	m := datastore.New(datastore.Options{
//	    Backend: backend,
//	    Remote:  remote.NewClient(apiURL, 10*time.Second, sess),
//	    Session: sess,
//	})
//	s, err := m.Sessions.Create(ctx, datastore.SessionInput{Title: "Math"})
package datastore

import (
	"context"

	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/client/models"
)

// Query selects records. A zero ID reads every record; Category filters
// notes and books, with "" and "all" meaning no filter.
type Query struct {
	ID       int64
	Category string
}

// Op is a write. ID addresses the record for every verb except create.
type Op[T any] struct {
	Verb  models.Verb
	ID    int64
	Value T
}

// Store is the capability shared by the remote, local and fallback stores.
// Read returns records most recent first and never fails for no rows.
type Store[T any] interface {
	Read(ctx context.Context, q Query) ([]T, error)
	Write(ctx context.Context, op Op[T]) (T, error)
	Remove(ctx context.Context, id int64) error
}

// Authenticator reports whether a credential is held. *session.Context
// implements it.
type Authenticator interface {
	Authenticated() bool
}
