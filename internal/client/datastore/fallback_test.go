package datastore

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/client/models"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/client/remote"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/entities"
)

func intPtr(v int) *int { return &v }

func TestSessions_CreateDefaults(t *testing.T) {
	h := newHarness[models.Session](t, false)
	sessions := &Sessions{store: h.store}

	s, err := sessions.Create(context.Background(), SessionInput{Title: "  Algebra  "})
	require.NoError(t, err)

	assert.NotZero(t, s.ID)
	assert.Equal(t, "Algebra", s.Title)
	assert.Equal(t, models.Minutes(entities.DefaultSessionDuration), s.Duration)
	assert.Equal(t, entities.SessionStatusPlanned, s.Status)
	assert.False(t, s.CreatedAt.IsZero())
	assert.Equal(t, []models.Verb{models.VerbCreate}, s.Meta.Pending)
	assert.Zero(t, h.api.callCount())
}

func TestSessions_CreateRejectsNonPositiveDuration(t *testing.T) {
	h := newHarness[models.Session](t, true)
	sessions := &Sessions{store: h.store}
	ctx := context.Background()

	for _, d := range []int{0, -5} {
		_, err := sessions.Create(ctx, SessionInput{Title: "Physics", Duration: intPtr(d)})
		assert.ErrorIs(t, err, entities.ErrValidation, "duration %d", d)
	}

	_, err := sessions.Create(ctx, SessionInput{Title: "   "})
	assert.ErrorIs(t, err, entities.ErrValidation)

	assert.Zero(t, h.api.callCount())
	stored, err := h.store.Local().Read(ctx, Query{})
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestSessions_CompleteWithoutStart(t *testing.T) {
	h := newHarness[models.Session](t, false)
	sessions := &Sessions{store: h.store}
	ctx := context.Background()

	s, err := sessions.Create(ctx, SessionInput{Title: "Chemistry", Duration: intPtr(40)})
	require.NoError(t, err)

	done, err := sessions.Complete(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.SessionStatusCompleted, done.Status)
	assert.NotNil(t, done.CompletedAt)
	assert.Nil(t, done.StartedAt)

	// Completing again leaves the record and its queue alone
	again, err := sessions.Complete(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, done.Meta.Pending, again.Meta.Pending)

	_, err = sessions.Start(ctx, s.ID)
	require.NoError(t, err)
	got, err := sessions.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.SessionStatusCompleted, got.Status)
}

func TestSessions_NotFound(t *testing.T) {
	h := newHarness[models.Session](t, false)
	sessions := &Sessions{store: h.store}
	ctx := context.Background()

	_, err := sessions.Get(ctx, 12345)
	assert.ErrorIs(t, err, entities.ErrNotFound)
	_, err = sessions.Start(ctx, 12345)
	assert.ErrorIs(t, err, entities.ErrNotFound)
	_, err = sessions.Update(ctx, 12345, models.Session{Title: "x"})
	assert.ErrorIs(t, err, entities.ErrNotFound)
	assert.ErrorIs(t, sessions.Delete(ctx, 12345), entities.ErrNotFound)
}

func TestBooks_ToggleTwiceRestores(t *testing.T) {
	for _, online := range []bool{false, true} {
		t.Run(fmt.Sprintf("online=%v", online), func(t *testing.T) {
			h := newHarness[models.Book](t, online)
			books := &Books{store: h.store}
			ctx := context.Background()

			b, err := books.Create(ctx, models.Book{Title: "SICP", Author: "Abelson"})
			require.NoError(t, err)
			assert.False(t, b.IsComplete)
			assert.Equal(t, entities.BookCategoryAcademic, b.Category)

			once, err := books.ToggleStatus(ctx, b.ID)
			require.NoError(t, err)
			assert.True(t, once.IsComplete)

			twice, err := books.ToggleStatus(ctx, b.ID)
			require.NoError(t, err)
			assert.False(t, twice.IsComplete)
		})
	}
}

func TestNotes_RoundTrip(t *testing.T) {
	h := newHarness[models.Note](t, false)
	notes := &Notes{store: h.store}
	ctx := context.Background()

	n, err := notes.Create(ctx, models.Note{Title: "Derivatives", Content: "d/dx x^2 = 2x"})
	require.NoError(t, err)
	assert.Equal(t, entities.NoteCategoryStudy, n.Category)

	got, err := notes.Get(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, n.Title, got.Title)
	assert.Equal(t, n.Content, got.Content)
	assert.Equal(t, n.Category, got.Category)

	_, err = notes.Create(ctx, models.Note{Title: "Groceries", Content: "milk", Category: entities.NoteCategoryPersonal})
	require.NoError(t, err)

	study, err := notes.GetAll(ctx, string(entities.NoteCategoryStudy))
	require.NoError(t, err)
	assert.Len(t, study, 1)

	all, err := notes.GetAll(ctx, "all")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = notes.Create(ctx, models.Note{Title: "Empty"})
	assert.ErrorIs(t, err, entities.ErrValidation)
}

func TestFallback_OfflineSessions(t *testing.T) {
	h := newHarness[models.Session](t, true)
	h.api.fail(errOffline)
	sessions := &Sessions{store: h.store}
	ctx := context.Background()

	s, err := sessions.Create(ctx, SessionInput{Title: "History"})
	require.NoError(t, err)
	assert.True(t, s.Meta.LocalOnly())

	updated, err := sessions.Update(ctx, s.ID, models.Session{Duration: 50})
	require.NoError(t, err)
	assert.Equal(t, models.Minutes(50), updated.Duration)
	assert.Equal(t, []models.Verb{models.VerbCreate}, updated.Meta.Pending)

	all, err := sessions.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, s.ID, all[0].ID)

	require.NoError(t, sessions.Delete(ctx, s.ID))
	all, err = sessions.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestFallback_OfflineNotesBooksTimers(t *testing.T) {
	ctx := context.Background()

	t.Run("notes", func(t *testing.T) {
		h := newHarness[models.Note](t, true)
		h.api.fail(errOffline)
		notes := &Notes{store: h.store}

		n, err := notes.Create(ctx, models.Note{Title: "Essay", Content: "outline"})
		require.NoError(t, err)
		_, err = notes.Update(ctx, n.ID, models.Note{Content: "draft"})
		require.NoError(t, err)

		all, err := notes.GetAll(ctx, "")
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, "draft", all[0].Content)

		require.NoError(t, notes.Delete(ctx, n.ID))
		all, err = notes.GetAll(ctx, "")
		require.NoError(t, err)
		assert.Empty(t, all)
	})

	t.Run("books", func(t *testing.T) {
		h := newHarness[models.Book](t, true)
		h.api.fail(errOffline)
		books := &Books{store: h.store}

		b, err := books.Create(ctx, models.Book{Title: "Dune"})
		require.NoError(t, err)
		_, err = books.Update(ctx, b.ID, models.Book{Author: "Herbert"})
		require.NoError(t, err)

		all, err := books.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, "Herbert", all[0].Author)

		require.NoError(t, books.Delete(ctx, b.ID))
		all, err = books.GetAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)
	})

	t.Run("timers", func(t *testing.T) {
		h := newHarness[models.Timer](t, true)
		h.api.fail(errOffline)
		timers := &Timers{store: h.store}

		tm, err := timers.Create(ctx, models.Timer{TimerType: models.TimerPomodoro, Duration: 25})
		require.NoError(t, err)
		assert.False(t, tm.StartedAt.IsZero())

		done, err := timers.Complete(ctx, tm.ID)
		require.NoError(t, err)
		assert.True(t, done.Completed)

		all, err := timers.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.True(t, all[0].Completed)

		_, err = timers.Create(ctx, models.Timer{TimerType: models.TimerPomodoro})
		assert.ErrorIs(t, err, entities.ErrValidation)
	})
}

func TestFallback_AuthRejectedIsSurfaced(t *testing.T) {
	h := newHarness[models.Session](t, true)
	h.api.fail(fmt.Errorf("login again: %w", remote.ErrAuthRejected))
	sessions := &Sessions{store: h.store}
	ctx := context.Background()

	_, err := sessions.Create(ctx, SessionInput{Title: "Biology"})
	assert.ErrorIs(t, err, remote.ErrAuthRejected)

	_, err = sessions.GetAll(ctx)
	assert.ErrorIs(t, err, remote.ErrAuthRejected)

	stored, err := h.store.Local().Read(ctx, Query{})
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestFallback_RemoteErrorsAreSurfaced(t *testing.T) {
	h := newHarness[models.Session](t, true)
	sessions := &Sessions{store: h.store}
	ctx := context.Background()

	_, err := sessions.Update(ctx, 999, models.Session{Title: "Gone"})
	assert.ErrorIs(t, err, entities.ErrNotFound)

	h.api.fail(entities.NewValidationError("", "Title is required"))
	_, err = sessions.Create(ctx, SessionInput{Title: "Valid locally"})
	assert.ErrorIs(t, err, entities.ErrValidation)

	stored, err := h.store.Local().Read(ctx, Query{})
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestFallback_OnlineWritesAreCached(t *testing.T) {
	h := newHarness[models.Session](t, true)
	sessions := &Sessions{store: h.store}
	ctx := context.Background()

	s, err := sessions.Create(ctx, SessionInput{Title: "Geometry"})
	require.NoError(t, err)
	assert.True(t, s.Meta.Remote)
	assert.False(t, s.Meta.SyncPending())

	h.api.fail(errOffline)

	all, err := sessions.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, s.ID, all[0].ID)

	got, err := sessions.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "Geometry", got.Title)
}

func TestFallback_NoCredentialStaysLocal(t *testing.T) {
	h := newHarness[models.Note](t, false)
	notes := &Notes{store: h.store}
	ctx := context.Background()

	_, err := notes.Create(ctx, models.Note{Title: "Local", Content: "only"})
	require.NoError(t, err)
	_, err = notes.GetAll(ctx, "")
	require.NoError(t, err)

	assert.Zero(t, h.api.callCount())
}

func TestFallback_DeleteOfflineLeavesTombstone(t *testing.T) {
	h := newHarness[models.Book](t, true)
	books := &Books{store: h.store}
	ctx := context.Background()

	b, err := books.Create(ctx, models.Book{Title: "Emma"})
	require.NoError(t, err)

	h.api.fail(errOffline)
	require.NoError(t, books.Delete(ctx, b.ID))

	all, err := books.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	tomb, ok, err := h.store.Local().Lookup(ctx, b.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, tomb.Meta.Deleted)
	assert.Equal(t, []models.Verb{models.VerbDelete}, tomb.Meta.Pending)

	h.api.fail(nil)
	report, err := h.store.Push(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Pushed)

	_, onServer := h.api.get(b.ID)
	assert.False(t, onServer)
	_, ok, err = h.store.Local().Lookup(ctx, b.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFallback_RefreshKeepsPendingAndDropsDeleted(t *testing.T) {
	h := newHarness[models.Note](t, true)
	notes := &Notes{store: h.store}
	ctx := context.Background()

	kept := h.api.seed(models.Note{Title: "Kept", Content: "a"})
	edited := h.api.seed(models.Note{Title: "Edited", Content: "b"})
	gone := h.api.seed(models.Note{Title: "Gone", Content: "c"})

	all, err := notes.GetAll(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)

	h.api.fail(errOffline)
	_, err = notes.Update(ctx, edited.ID, models.Note{Content: "local edit"})
	require.NoError(t, err)
	local, err := notes.Create(ctx, models.Note{Title: "New", Content: "d"})
	require.NoError(t, err)

	h.api.fail(nil)
	require.NoError(t, h.api.Delete(ctx, gone.ID))

	all, err = notes.GetAll(ctx, "")
	require.NoError(t, err)

	byID := make(map[int64]models.Note, len(all))
	for _, n := range all {
		byID[n.ID] = n
	}
	assert.Len(t, byID, 3)
	assert.Contains(t, byID, kept.ID)
	assert.Contains(t, byID, local.ID)
	assert.NotContains(t, byID, gone.ID)
	assert.Equal(t, "local edit", byID[edited.ID].Content)
}

func TestFallback_PendingRecordStaysLocal(t *testing.T) {
	h := newHarness[models.Session](t, true)
	h.api.fail(errOffline)
	sessions := &Sessions{store: h.store}
	ctx := context.Background()

	s, err := sessions.Create(ctx, SessionInput{Title: "Offline"})
	require.NoError(t, err)

	h.api.fail(nil)
	calls := h.api.callCount()

	started, err := sessions.Start(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.SessionStatusInProgress, started.Status)
	assert.Equal(t, []models.Verb{models.VerbCreate, models.VerbStart}, started.Meta.Pending)
	assert.Equal(t, calls, h.api.callCount())
}

func TestPush_CreateReplaysTransitionsAndMapsIDs(t *testing.T) {
	h := newHarness[models.Session](t, true)
	h.api.fail(errOffline)
	sessions := &Sessions{store: h.store}
	ctx := context.Background()

	s, err := sessions.Create(ctx, SessionInput{Title: "Offline study", Duration: intPtr(30)})
	require.NoError(t, err)
	_, err = sessions.Start(ctx, s.ID)
	require.NoError(t, err)
	_, err = sessions.Complete(ctx, s.ID)
	require.NoError(t, err)

	h.api.fail(nil)
	report, err := h.store.Push(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.EntityReport{Pushed: 1}, report)

	serverID, err := h.ids.Resolve(ctx, models.CollectionSessions, s.ID)
	require.NoError(t, err)
	assert.NotEqual(t, s.ID, serverID)

	onServer, ok := h.api.get(serverID)
	require.True(t, ok)
	assert.Equal(t, entities.SessionStatusCompleted, onServer.Status)
	assert.Equal(t, models.Minutes(30), onServer.Duration)

	// The temporary id still reaches the record
	got, err := sessions.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, serverID, got.ID)

	pending, err := h.store.Local().Pending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestPush_AuthRejectedStops(t *testing.T) {
	h := newHarness[models.Note](t, true)
	h.api.fail(errOffline)
	notes := &Notes{store: h.store}
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := notes.Create(ctx, models.Note{Title: fmt.Sprintf("n%d", i), Content: "x"})
		require.NoError(t, err)
	}

	h.api.fail(remote.ErrAuthRejected)
	report, err := h.store.Push(ctx)
	assert.ErrorIs(t, err, remote.ErrAuthRejected)
	assert.Equal(t, models.EntityReport{Failed: 1, Skipped: 2}, report)

	pending, err := h.store.Local().Pending(ctx)
	require.NoError(t, err)
	assert.Len(t, pending, 3)
}

func TestPush_UnavailableSkipsRest(t *testing.T) {
	h := newHarness[models.Book](t, true)
	h.api.fail(errOffline)
	books := &Books{store: h.store}
	ctx := context.Background()

	_, err := books.Create(ctx, models.Book{Title: "One"})
	require.NoError(t, err)
	_, err = books.Create(ctx, models.Book{Title: "Two"})
	require.NoError(t, err)

	report, err := h.store.Push(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.EntityReport{Failed: 1, Skipped: 1}, report)
}

func TestPush_RemoteDeletedRecordIsDropped(t *testing.T) {
	h := newHarness[models.Book](t, true)
	books := &Books{store: h.store}
	ctx := context.Background()

	b, err := books.Create(ctx, models.Book{Title: "Removed elsewhere"})
	require.NoError(t, err)

	h.api.fail(errOffline)
	_, err = books.ToggleStatus(ctx, b.ID)
	require.NoError(t, err)

	h.api.fail(nil)
	require.NoError(t, h.api.Delete(ctx, b.ID))

	report, err := h.store.Push(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Failed)

	_, ok, err := h.store.Local().Lookup(ctx, b.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPush_UpdateAfterStartKeepsEdit(t *testing.T) {
	h := newHarness[models.Session](t, true)
	sessions := &Sessions{store: h.store}
	ctx := context.Background()

	s := h.api.seed(models.Session{Title: "Old", Duration: 25})
	_, err := sessions.GetAll(ctx)
	require.NoError(t, err)

	h.api.fail(errOffline)
	_, err = sessions.Start(ctx, s.ID)
	require.NoError(t, err)
	edited, err := sessions.Update(ctx, s.ID, models.Session{Title: "New"})
	require.NoError(t, err)
	assert.Equal(t, []models.Verb{models.VerbStart, models.VerbUpdate}, edited.Meta.Pending)

	h.api.fail(nil)
	report, err := h.store.Push(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.EntityReport{Pushed: 1}, report)

	onServer, ok := h.api.get(s.ID)
	require.True(t, ok)
	assert.Equal(t, "New", onServer.Title)
	assert.Equal(t, entities.SessionStatusInProgress, onServer.Status)

	cached, ok, err := h.store.Local().Lookup(ctx, s.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "New", cached.Title)
	assert.Equal(t, entities.SessionStatusInProgress, cached.Status)
	assert.Empty(t, cached.Meta.Pending)
}

func TestPush_UpdateAfterToggleKeepsEdit(t *testing.T) {
	h := newHarness[models.Book](t, true)
	books := &Books{store: h.store}
	ctx := context.Background()

	b := h.api.seed(models.Book{Title: "Old"})
	_, err := books.GetAll(ctx)
	require.NoError(t, err)

	h.api.fail(errOffline)
	_, err = books.ToggleStatus(ctx, b.ID)
	require.NoError(t, err)
	_, err = books.Update(ctx, b.ID, models.Book{Title: "New", Author: "Austen"})
	require.NoError(t, err)

	h.api.fail(nil)
	report, err := h.store.Push(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Pushed)

	onServer, ok := h.api.get(b.ID)
	require.True(t, ok)
	assert.Equal(t, "New", onServer.Title)
	assert.Equal(t, "Austen", onServer.Author)
	assert.True(t, onServer.IsComplete)

	all, err := books.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "New", all[0].Title)
	assert.True(t, all[0].IsComplete)
}

func TestPush_UpdateBeforeTransitionsKeepsOrder(t *testing.T) {
	h := newHarness[models.Session](t, true)
	sessions := &Sessions{store: h.store}
	ctx := context.Background()

	s := h.api.seed(models.Session{Title: "Old", Duration: 25})
	_, err := sessions.GetAll(ctx)
	require.NoError(t, err)

	h.api.fail(errOffline)
	_, err = sessions.Update(ctx, s.ID, models.Session{Title: "New", Duration: 40})
	require.NoError(t, err)
	_, err = sessions.Start(ctx, s.ID)
	require.NoError(t, err)
	_, err = sessions.Complete(ctx, s.ID)
	require.NoError(t, err)

	h.api.fail(nil)
	_, err = h.store.Push(ctx)
	require.NoError(t, err)

	onServer, ok := h.api.get(s.ID)
	require.True(t, ok)
	assert.Equal(t, "New", onServer.Title)
	assert.Equal(t, models.Minutes(40), onServer.Duration)
	assert.Equal(t, entities.SessionStatusCompleted, onServer.Status)
}

func TestPush_KeepsWritesMadeDuringPush(t *testing.T) {
	api := &holdingEndpoint[models.Session]{fakeEndpoint: newFakeEndpoint[models.Session]()}
	store := newStoreWith[models.Session](t, api)
	sessions := &Sessions{store: store}
	ctx := context.Background()

	s := api.seed(models.Session{Title: "Old", Duration: 25})
	_, err := sessions.GetAll(ctx)
	require.NoError(t, err)

	api.fail(errOffline)
	_, err = sessions.Start(ctx, s.ID)
	require.NoError(t, err)
	api.fail(nil)

	entered, release := api.hold()
	done := make(chan error, 1)
	go func() {
		_, err := store.Push(ctx)
		done <- err
	}()
	<-entered

	// Still pending, so the edit is queued locally behind the start in flight
	edited, err := sessions.Update(ctx, s.ID, models.Session{Title: "New"})
	require.NoError(t, err)
	assert.Equal(t, "New", edited.Title)

	release()
	require.NoError(t, <-done)

	onServer, ok := api.get(s.ID)
	require.True(t, ok)
	assert.Equal(t, "New", onServer.Title)
	assert.Equal(t, entities.SessionStatusInProgress, onServer.Status)

	cached, ok, err := store.Local().Lookup(ctx, s.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "New", cached.Title)
	assert.Empty(t, cached.Meta.Pending)
}

func TestLocalStore_Reconcile(t *testing.T) {
	ctx := context.Background()
	server := models.Note{ID: 500, Title: "Sent", Content: "x", Meta: models.Meta{Remote: true}}

	t.Run("unchanged record takes the server copy", func(t *testing.T) {
		local := NewLocalStore[models.Note](newBackend(t), nil, nil)
		base, err := local.Write(ctx, Op[models.Note]{Verb: models.VerbCreate, Value: models.Note{Title: "Sent", Content: "x"}})
		require.NoError(t, err)

		stored, ok, err := local.Reconcile(ctx, base, server, models.VerbCreate)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, int64(500), stored.ID)
		assert.True(t, stored.Meta.Remote)
		assert.Empty(t, stored.Meta.Pending)

		_, found, err := local.Lookup(ctx, base.ID)
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("edit made in flight queues an update", func(t *testing.T) {
		local := NewLocalStore[models.Note](newBackend(t), nil, nil)
		base, err := local.Write(ctx, Op[models.Note]{Verb: models.VerbCreate, Value: models.Note{Title: "Sent", Content: "x"}})
		require.NoError(t, err)
		_, err = local.Write(ctx, Op[models.Note]{Verb: models.VerbUpdate, ID: base.ID, Value: models.Note{Title: "Later"}})
		require.NoError(t, err)

		stored, ok, err := local.Reconcile(ctx, base, server, models.VerbCreate)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, int64(500), stored.ID)
		assert.Equal(t, "Later", stored.Title)
		assert.Equal(t, []models.Verb{models.VerbUpdate}, stored.Meta.Pending)
	})

	t.Run("removed in flight leaves a tombstone", func(t *testing.T) {
		local := NewLocalStore[models.Note](newBackend(t), nil, nil)
		base, err := local.Write(ctx, Op[models.Note]{Verb: models.VerbCreate, Value: models.Note{Title: "Sent", Content: "x"}})
		require.NoError(t, err)
		require.NoError(t, local.Remove(ctx, base.ID))

		stored, ok, err := local.Reconcile(ctx, base, server, models.VerbCreate)
		require.NoError(t, err)
		require.True(t, ok)
		assert.True(t, stored.Meta.Deleted)
		assert.Equal(t, []models.Verb{models.VerbDelete}, stored.Meta.Pending)

		visible, err := local.Read(ctx, Query{})
		require.NoError(t, err)
		assert.Empty(t, visible)
	})
}
