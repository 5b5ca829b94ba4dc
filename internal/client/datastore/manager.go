package datastore

import (
	"context"
	"time"

	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/client/localstore"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/client/models"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/client/remote"
)

// Options wires a Manager. Remote may be nil to run fully offline.
type Options struct {
	Backend localstore.Backend
	Remote  *remote.Client
	Session Authenticator
	Now     func() time.Time
}

type pusher struct {
	collection string
	push       func(ctx context.Context) (models.EntityReport, error)
}

// Manager holds the facade of every entity type.
type Manager struct {
	Sessions *Sessions
	Notes    *Notes
	Books    *Books
	Timers   *Timers

	IDs     *localstore.IDMap
	pushers []pusher
}

func New(opts Options) *Manager {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	ids := NewIDSource(now)
	idMap := localstore.NewIDMap(opts.Backend)

	sessions := compose[models.Session](opts, ids, idMap, now, sessionsEndpoint)
	notes := compose[models.Note](opts, ids, idMap, now, notesEndpoint)
	books := compose[models.Book](opts, ids, idMap, now, booksEndpoint)
	timers := compose[models.Timer](opts, ids, idMap, now, timersEndpoint)

	return &Manager{
		Sessions: &Sessions{store: sessions},
		Notes:    &Notes{store: notes},
		Books:    &Books{store: books},
		Timers:   &Timers{store: timers},
		IDs:      idMap,
		pushers: []pusher{
			{models.CollectionSessions, sessions.Push},
			{models.CollectionNotes, notes.Push},
			{models.CollectionBooks, books.Push},
			{models.CollectionTimers, timers.Push},
		},
	}
}

func sessionsEndpoint(c *remote.Client) Endpoint[models.Session] { return c.Sessions() }

func notesEndpoint(c *remote.Client) Endpoint[models.Note] { return c.Notes() }

func booksEndpoint(c *remote.Client) Endpoint[models.Book] { return c.Books() }

func timersEndpoint(c *remote.Client) Endpoint[models.Timer] { return c.Timers() }

func compose[T models.Entity[T]](opts Options, ids *IDSource, idMap *localstore.IDMap, now func() time.Time, endpoint func(*remote.Client) Endpoint[T]) *FallbackStore[T] {
	local := NewLocalStore[T](opts.Backend, ids, now)
	var remoteStore Store[T]
	if opts.Remote != nil {
		remoteStore = NewRemoteStore[T](endpoint(opts.Remote))
	}
	return NewFallbackStore[T](remoteStore, local, opts.Session, idMap)
}

// LocalSessions reads the cached sessions without touching the network.
func (m *Manager) LocalSessions() *LocalStore[models.Session] {
	return m.Sessions.store.Local()
}

// Push replays queued changes of every entity type. Types are pushed
// independently; only a rejected credential stops the run early.
func (m *Manager) Push(ctx context.Context) (models.SyncReport, error) {
	var report models.SyncReport
	for _, p := range m.pushers {
		er, err := p.push(ctx)
		report.Add(p.collection, er)
		if err != nil {
			return report, err
		}
	}
	return report, nil
}
