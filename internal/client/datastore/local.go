package datastore

import (
	"context"
	"errors"
	"slices"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/client/localstore"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/client/models"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/entities"
)

// IDSource hands out time-based ids, strictly increasing within a process.
type IDSource struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func NewIDSource(now func() time.Time) *IDSource {
	if now == nil {
		now = time.Now
	}
	return &IDSource{now: now}
}

func (s *IDSource) Next() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.now().UnixMilli()
	if id <= s.last {
		id = s.last + 1
	}
	s.last = id
	return id
}

// LocalStore keeps one entity type in a localstore.Backend and queues every
// write for sync.
type LocalStore[T models.Entity[T]] struct {
	backend    localstore.Backend
	ids        *IDSource
	now        func() time.Time
	collection string

	// serializes read-modify-write sequences
	mu sync.Mutex
}

func NewLocalStore[T models.Entity[T]](backend localstore.Backend, ids *IDSource, now func() time.Time) *LocalStore[T] {
	if now == nil {
		now = time.Now
	}
	if ids == nil {
		ids = NewIDSource(now)
	}
	var zero T
	return &LocalStore[T]{
		backend:    backend,
		ids:        ids,
		now:        now,
		collection: zero.Collection(),
	}
}

func (s *LocalStore[T]) Read(ctx context.Context, q Query) ([]T, error) {
	all, err := s.all(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(all))
	for _, v := range all {
		if v.SyncMeta().Deleted {
			continue
		}
		if q.ID != 0 && v.Key() != q.ID {
			continue
		}
		if !v.Matches(q.Category) {
			continue
		}
		out = append(out, v)
	}
	sortRecent(out)
	return out, nil
}

func (s *LocalStore[T]) Write(ctx context.Context, op Op[T]) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	now := s.now()

	if op.Verb == models.VerbCreate {
		id := op.Value.Key()
		if id == 0 {
			var err error
			if id, err = s.freeID(ctx); err != nil {
				return zero, err
			}
		}
		v := op.Value.Stamp(now).WithKey(id).WithSyncMeta(models.Meta{}.Queue(models.VerbCreate))
		if err := s.save(ctx, v); err != nil {
			return zero, err
		}
		return v, nil
	}

	cur, err := s.visible(ctx, op.ID)
	if err != nil {
		return zero, err
	}

	var next T
	if op.Verb == models.VerbUpdate {
		next = cur.Merge(op.Value, now)
	} else {
		var changed bool
		next, changed, err = cur.Apply(op.Verb, now)
		if err != nil {
			return zero, err
		}
		if !changed {
			return cur, nil
		}
	}

	next = next.WithSyncMeta(cur.SyncMeta().Queue(op.Verb))
	if err := s.save(ctx, next); err != nil {
		return zero, err
	}
	return next, nil
}

// Remove drops a record that never reached the server. Records the server
// knows about become tombstones until the delete is pushed.
func (s *LocalStore[T]) Remove(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.visible(ctx, id)
	if err != nil {
		return err
	}
	if cur.SyncMeta().LocalOnly() {
		return s.backend.Delete(ctx, s.collection, key(id))
	}
	return s.save(ctx, cur.WithSyncMeta(cur.SyncMeta().Queue(models.VerbDelete)))
}

// Lookup returns the stored record including tombstones.
func (s *LocalStore[T]) Lookup(ctx context.Context, id int64) (T, bool, error) {
	var zero T
	rec, err := s.backend.Get(ctx, s.collection, key(id))
	if errors.Is(err, entities.ErrNotFound) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, err
	}
	var v T
	if err := rec.Decode(&v); err != nil {
		return zero, false, err
	}
	return v, true, nil
}

// Cache stores a copy of a server record, replacing any local state.
func (s *LocalStore[T]) Cache(ctx context.Context, v T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, v.WithSyncMeta(models.Meta{Remote: true}))
}

// Refresh caches a remote listing. Records with pending changes keep their
// local state. When full is set the listing is complete, so synced records
// missing from it were deleted elsewhere and are dropped.
func (s *LocalStore[T]) Refresh(ctx context.Context, items []T, full bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.all(ctx)
	if err != nil {
		return err
	}
	current := make(map[int64]T, len(all))
	for _, v := range all {
		current[v.Key()] = v
	}

	seen := make(map[int64]bool, len(items))
	for _, item := range items {
		seen[item.Key()] = true
		if cur, ok := current[item.Key()]; ok && cur.SyncMeta().SyncPending() {
			continue
		}
		if err := s.save(ctx, item.WithSyncMeta(models.Meta{Remote: true})); err != nil {
			return err
		}
	}

	if !full {
		return nil
	}
	for id, cur := range current {
		meta := cur.SyncMeta()
		if seen[id] || !meta.Remote || meta.SyncPending() {
			continue
		}
		if err := s.backend.Delete(ctx, s.collection, key(id)); err != nil && !errors.Is(err, entities.ErrNotFound) {
			return err
		}
	}
	return nil
}

// Pending returns records with queued verbs, oldest first.
func (s *LocalStore[T]) Pending(ctx context.Context) ([]T, error) {
	all, err := s.all(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0)
	for _, v := range all {
		if v.SyncMeta().SyncPending() {
			out = append(out, v)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Created().Before(out[j].Created())
	})
	return out, nil
}

// Reconcile stores next, the server's answer to verb pushed from base, and
// returns the record left in the cache. Local writes made since base was
// read survive: their verbs stay queued and a newer field edit queues one
// more update. ok is false when the record was dropped locally meanwhile and
// nothing is left to push.
func (s *LocalStore[T]) Reconcile(ctx context.Context, base, next T, verb models.Verb) (stored T, ok bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	cur, found, err := s.Lookup(ctx, base.Key())
	if err != nil {
		return zero, false, err
	}

	was := base.SyncMeta()
	switch {
	case !found:
		if verb != models.VerbCreate {
			return zero, false, nil
		}
		// Removed while its create was in flight, so the server copy goes too
		stored = next.WithSyncMeta(models.Meta{Remote: true, Deleted: true, Pending: []models.Verb{models.VerbDelete}})

	case cur.SyncMeta().Rev == was.Rev:
		var rest []models.Verb
		if len(was.Pending) > 1 {
			rest = slices.Clone(was.Pending[1:])
		}
		stored = next
		if slices.Contains(rest, models.VerbUpdate) {
			stored = stored.WithEdits(cur)
		}
		stored = stored.WithSyncMeta(models.Meta{Remote: true, Pending: rest, Rev: was.Rev, EditRev: was.EditRev})

	default:
		meta := cur.SyncMeta()
		pending := slices.Clone(meta.Pending)
		if len(pending) > 0 && pending[0] == verb {
			pending = pending[1:]
		}
		if meta.EditRev > was.Rev && !meta.Deleted && !slices.Contains(pending, models.VerbUpdate) {
			pending = append(pending, models.VerbUpdate)
		}
		meta.Remote = true
		meta.Pending = pending
		stored = cur.WithKey(next.Key()).WithSyncMeta(meta)
	}

	if err := s.save(ctx, stored); err != nil {
		return zero, false, err
	}
	if base.Key() != stored.Key() {
		if err := s.backend.Delete(ctx, s.collection, key(base.Key())); err != nil && !errors.Is(err, entities.ErrNotFound) {
			return zero, false, err
		}
	}
	return stored, true, nil
}

// Forget deletes the record without leaving a tombstone.
func (s *LocalStore[T]) Forget(ctx context.Context, id int64) error {
	err := s.backend.Delete(ctx, s.collection, key(id))
	if errors.Is(err, entities.ErrNotFound) {
		return nil
	}
	return err
}

// freeID skips ids left by an earlier process that ran in the same
// millisecond.
func (s *LocalStore[T]) freeID(ctx context.Context) (int64, error) {
	for {
		id := s.ids.Next()
		_, taken, err := s.Lookup(ctx, id)
		if err != nil {
			return 0, err
		}
		if !taken {
			return id, nil
		}
	}
}

func (s *LocalStore[T]) visible(ctx context.Context, id int64) (T, error) {
	v, ok, err := s.Lookup(ctx, id)
	if err != nil {
		return v, err
	}
	if !ok || v.SyncMeta().Deleted {
		var zero T
		return zero, entities.ErrNotFound
	}
	return v, nil
}

func (s *LocalStore[T]) all(ctx context.Context) ([]T, error) {
	recs, err := s.backend.GetAll(ctx, s.collection)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(recs))
	for _, rec := range recs {
		var v T
		if err := rec.Decode(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *LocalStore[T]) save(ctx context.Context, v T) error {
	rec, err := localstore.Encode(s.collection, key(v.Key()), v)
	if err != nil {
		return err
	}
	return s.backend.Set(ctx, rec)
}

func key(id int64) string {
	return strconv.FormatInt(id, 10)
}
