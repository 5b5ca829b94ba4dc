package datastore

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/client/localstore"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/client/models"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/client/remote"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/entities"
)

type authFlag bool

func (a authFlag) Authenticated() bool { return bool(a) }

// fakeEndpoint is an in-memory API resource. err, when set, is returned by
// every call.
type fakeEndpoint[T models.Entity[T]] struct {
	mu     sync.Mutex
	items  map[int64]T
	nextID int64
	err    error
	calls  int
}

func newFakeEndpoint[T models.Entity[T]]() *fakeEndpoint[T] {
	return &fakeEndpoint[T]{items: make(map[int64]T), nextID: 100}
}

func (f *fakeEndpoint[T]) fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeEndpoint[T]) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeEndpoint[T]) begin() error {
	f.mu.Lock()
	f.calls++
	return f.err
}

func (f *fakeEndpoint[T]) List(_ context.Context, category string) ([]T, error) {
	err := f.begin()
	defer f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(f.items))
	for _, v := range f.items {
		if v.Matches(category) {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeEndpoint[T]) Create(_ context.Context, v T) (T, error) {
	err := f.begin()
	defer f.mu.Unlock()
	if err != nil {
		var zero T
		return zero, err
	}
	f.nextID++
	v = v.Stamp(time.Now()).WithKey(f.nextID).WithSyncMeta(models.Meta{Remote: true})
	f.items[v.Key()] = v
	return v, nil
}

func (f *fakeEndpoint[T]) Update(_ context.Context, id int64, v T) (T, error) {
	err := f.begin()
	defer f.mu.Unlock()
	var zero T
	if err != nil {
		return zero, err
	}
	cur, ok := f.items[id]
	if !ok {
		return zero, entities.ErrNotFound
	}
	cur = cur.Merge(v, time.Now())
	f.items[id] = cur
	return cur, nil
}

func (f *fakeEndpoint[T]) Delete(_ context.Context, id int64) error {
	err := f.begin()
	defer f.mu.Unlock()
	if err != nil {
		return err
	}
	if _, ok := f.items[id]; !ok {
		return entities.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

func (f *fakeEndpoint[T]) Do(_ context.Context, verb models.Verb, id int64) (T, error) {
	err := f.begin()
	defer f.mu.Unlock()
	var zero T
	if err != nil {
		return zero, err
	}
	cur, ok := f.items[id]
	if !ok {
		return zero, entities.ErrNotFound
	}
	next, _, err := cur.Apply(verb, time.Now())
	if err != nil {
		return zero, err
	}
	f.items[id] = next
	return next, nil
}

func (f *fakeEndpoint[T]) get(id int64) (T, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.items[id]
	return v, ok
}

func (f *fakeEndpoint[T]) seed(v T) T {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	v = v.Stamp(time.Now()).WithKey(f.nextID)
	f.items[v.Key()] = v
	return v
}

var errOffline = &remote.UnavailableError{StatusCode: 503}

func newBackend(t *testing.T) localstore.Backend {
	t.Helper()
	b, err := localstore.OpenDB(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	return b
}

type harness[T models.Entity[T]] struct {
	api   *fakeEndpoint[T]
	store *FallbackStore[T]
	ids   *localstore.IDMap
}

// newHarness builds a fallback store over a fake endpoint. authenticated
// controls whether the remote store is tried at all.
func newHarness[T models.Entity[T]](t *testing.T, authenticated bool) *harness[T] {
	t.Helper()
	backend := newBackend(t)
	api := newFakeEndpoint[T]()
	ids := localstore.NewIDMap(backend)
	local := NewLocalStore[T](backend, nil, nil)
	return &harness[T]{
		api:   api,
		store: NewFallbackStore[T](NewRemoteStore[T](api), local, authFlag(authenticated), ids),
		ids:   ids,
	}
}

// holdingEndpoint parks Do calls while a hold is active.
type holdingEndpoint[T models.Entity[T]] struct {
	*fakeEndpoint[T]

	holdMu  sync.Mutex
	entered chan struct{}
	release chan struct{}
}

func (h *holdingEndpoint[T]) hold() (entered <-chan struct{}, release func()) {
	h.holdMu.Lock()
	defer h.holdMu.Unlock()
	h.entered = make(chan struct{}, 1)
	h.release = make(chan struct{})
	rel := h.release
	return h.entered, func() { close(rel) }
}

func (h *holdingEndpoint[T]) Do(ctx context.Context, verb models.Verb, id int64) (T, error) {
	h.holdMu.Lock()
	entered, release := h.entered, h.release
	h.holdMu.Unlock()
	if release != nil {
		select {
		case entered <- struct{}{}:
		default:
		}
		<-release
	}
	return h.fakeEndpoint.Do(ctx, verb, id)
}

// newStoreWith builds an authenticated fallback store over api.
func newStoreWith[T models.Entity[T]](t *testing.T, api Endpoint[T]) *FallbackStore[T] {
	t.Helper()
	backend := newBackend(t)
	return NewFallbackStore[T](NewRemoteStore[T](api), NewLocalStore[T](backend, nil, nil), authFlag(true), localstore.NewIDMap(backend))
}
