package datastore

import (
	"context"
	"errors"
	"log"

	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/client/localstore"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/client/models"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/client/remote"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/entities"
)

// FallbackStore tries the remote store once, then the local store.
type FallbackStore[T models.Entity[T]] struct {
	remote     Store[T]
	local      *LocalStore[T]
	auth       Authenticator
	ids        *localstore.IDMap
	collection string
}

// NewFallbackStore composes the stores. remote may be nil for an offline
// client.
func NewFallbackStore[T models.Entity[T]](remoteStore Store[T], local *LocalStore[T], auth Authenticator, ids *localstore.IDMap) *FallbackStore[T] {
	var zero T
	return &FallbackStore[T]{
		remote:     remoteStore,
		local:      local,
		auth:       auth,
		ids:        ids,
		collection: zero.Collection(),
	}
}

// Local returns the local half of the store.
func (f *FallbackStore[T]) Local() *LocalStore[T] {
	return f.local
}

func (f *FallbackStore[T]) Read(ctx context.Context, q Query) ([]T, error) {
	id, err := f.resolve(ctx, q.ID)
	if err != nil {
		return nil, err
	}
	q.ID = id

	online, err := f.useRemote(ctx, q.ID)
	if err != nil {
		return nil, err
	}
	if online {
		items, err := f.remote.Read(ctx, q)
		switch {
		case err == nil && q.ID != 0:
			if len(items) > 0 {
				if err := f.local.Cache(ctx, items[0]); err != nil {
					return nil, err
				}
			}
			return items, nil
		case err == nil:
			if err := f.local.Refresh(ctx, items, allCategories(q.Category)); err != nil {
				return nil, err
			}
			// The cache now overlays pending local changes on the listing
		case remote.IsUnavailable(err):
			log.Printf("Data store: %s read failed remotely, serving local cache: %v", f.collection, err)
		default:
			return nil, err
		}
	}
	return f.local.Read(ctx, q)
}

func (f *FallbackStore[T]) Write(ctx context.Context, op Op[T]) (T, error) {
	var zero T
	if err := op.Value.Validate(op.Verb); err != nil {
		return zero, err
	}

	id, err := f.resolve(ctx, op.ID)
	if err != nil {
		return zero, err
	}
	op.ID = id

	online, err := f.useRemote(ctx, op.ID)
	if err != nil {
		return zero, err
	}
	if online {
		v, err := f.remote.Write(ctx, op)
		if err == nil {
			if err := f.local.Cache(ctx, v); err != nil {
				return zero, err
			}
			return v, nil
		}
		if !remote.IsUnavailable(err) {
			return zero, err
		}
		log.Printf("Data store: %s %s failed remotely, writing locally: %v", f.collection, op.Verb, err)
	}
	return f.local.Write(ctx, op)
}

func (f *FallbackStore[T]) Remove(ctx context.Context, id int64) error {
	id, err := f.resolve(ctx, id)
	if err != nil {
		return err
	}

	online, err := f.useRemote(ctx, id)
	if err != nil {
		return err
	}
	if online {
		err := f.remote.Remove(ctx, id)
		if err == nil {
			return f.local.Forget(ctx, id)
		}
		if !remote.IsUnavailable(err) {
			return err
		}
		log.Printf("Data store: %s delete failed remotely, deleting locally: %v", f.collection, err)
	}
	return f.local.Remove(ctx, id)
}

// useRemote reports whether a call for id goes to the remote store first.
// Records with queued changes stay local until pushed so their verbs keep
// their order.
func (f *FallbackStore[T]) useRemote(ctx context.Context, id int64) (bool, error) {
	if f.remote == nil || f.auth == nil || !f.auth.Authenticated() {
		return false, nil
	}
	if id == 0 {
		return true, nil
	}
	v, ok, err := f.local.Lookup(ctx, id)
	if err != nil {
		return false, err
	}
	if !ok {
		return true, nil
	}
	meta := v.SyncMeta()
	return !meta.LocalOnly() && !meta.SyncPending(), nil
}

func (f *FallbackStore[T]) resolve(ctx context.Context, id int64) (int64, error) {
	if f.ids == nil || id == 0 {
		return id, nil
	}
	return f.ids.Resolve(ctx, f.collection, id)
}

// Push replays queued verbs against the remote store, oldest record first.
// A failed record stays queued. An unavailable remote ends the pass for
// this entity type and a rejected credential ends it with an error.
func (f *FallbackStore[T]) Push(ctx context.Context) (models.EntityReport, error) {
	var report models.EntityReport
	if f.remote == nil {
		return report, nil
	}

	pending, err := f.local.Pending(ctx)
	if err != nil {
		return report, err
	}

	for i, rec := range pending {
		err := f.push(ctx, rec)
		if err == nil {
			report.Pushed++
			continue
		}

		report.Failed++
		rest := len(pending) - i - 1
		switch {
		case errors.Is(err, remote.ErrAuthRejected):
			report.Skipped += rest
			return report, err
		case remote.IsUnavailable(err):
			log.Printf("Data store: %s sync stopped, remote unavailable: %v", f.collection, err)
			report.Skipped += rest
			return report, nil
		case ctx.Err() != nil:
			report.Skipped += rest
			return report, ctx.Err()
		default:
			log.Printf("Data store: failed to sync %s %d: %v", f.collection, rec.Key(), err)
		}
	}
	return report, nil
}

// push replays rec's queued verbs oldest first. After each remote call the
// cached record is reconciled, so verbs queued meanwhile are pushed too.
func (f *FallbackStore[T]) push(ctx context.Context, rec T) error {
	for {
		pending := rec.SyncMeta().Pending
		if len(pending) == 0 {
			return nil
		}
		verb := pending[0]

		var next T
		var err error
		switch verb {
		case models.VerbCreate:
			next, err = f.remote.Write(ctx, Op[T]{Verb: models.VerbCreate, Value: rec.Baseline(pending[1:])})
			if err != nil {
				return err
			}
			if f.ids != nil {
				if err := f.ids.Put(ctx, f.collection, rec.Key(), next.Key()); err != nil {
					return err
				}
			}

		case models.VerbDelete:
			err = f.remote.Remove(ctx, rec.Key())
			if err != nil && !errors.Is(err, entities.ErrNotFound) {
				return err
			}
			return f.local.Forget(ctx, rec.Key())

		case models.VerbUpdate:
			// rec carries the local field edits over the last known server state
			next, err = f.remote.Write(ctx, Op[T]{Verb: models.VerbUpdate, ID: rec.Key(), Value: rec})

		default:
			next, err = f.remote.Write(ctx, Op[T]{Verb: verb, ID: rec.Key()})
		}

		if errors.Is(err, entities.ErrNotFound) {
			log.Printf("Data store: %s %d no longer exists remotely, dropping local copy", f.collection, rec.Key())
			if forgetErr := f.local.Forget(ctx, rec.Key()); forgetErr != nil {
				return forgetErr
			}
			return err
		}
		if err != nil {
			return err
		}

		var ok bool
		rec, ok, err = f.local.Reconcile(ctx, rec, next, verb)
		if err != nil || !ok {
			return err
		}
	}
}

func allCategories(category string) bool {
	return category == "" || category == "all"
}
