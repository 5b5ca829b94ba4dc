package datastore

import (
	"context"

	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/client/models"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/entities"
)

func first[T any](items []T, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	if len(items) == 0 {
		return zero, entities.ErrNotFound
	}
	return items[0], nil
}

// SessionInput is a new study session. A nil Duration means the default.
type SessionInput struct {
	Title       string
	Description string
	Subject     string
	Duration    *int
	Status      entities.SessionStatus
}

type Sessions struct {
	store *FallbackStore[models.Session]
}

func (s *Sessions) GetAll(ctx context.Context) ([]models.Session, error) {
	return s.store.Read(ctx, Query{})
}

// Get returns entities.ErrNotFound when no store holds the session.
func (s *Sessions) Get(ctx context.Context, id int64) (models.Session, error) {
	return first(s.store.Read(ctx, Query{ID: id}))
}

func (s *Sessions) Create(ctx context.Context, in SessionInput) (models.Session, error) {
	title := entities.SanitizeInput(in.Title)
	if err := entities.RequireText("title", title); err != nil {
		return models.Session{}, err
	}
	duration, err := entities.ResolveSessionDuration(in.Duration)
	if err != nil {
		return models.Session{}, err
	}
	status, err := entities.ResolveSessionStatus(in.Status)
	if err != nil {
		return models.Session{}, err
	}

	return s.store.Write(ctx, Op[models.Session]{
		Verb: models.VerbCreate,
		Value: models.Session{
			Title:       title,
			Description: entities.SanitizeInput(in.Description),
			Subject:     entities.SanitizeInput(in.Subject),
			Duration:    models.Minutes(duration),
			Status:      status,
		},
	})
}

// Update merges the non-zero fields of patch.
func (s *Sessions) Update(ctx context.Context, id int64, patch models.Session) (models.Session, error) {
	patch.Title = entities.SanitizeInput(patch.Title)
	patch.Description = entities.SanitizeInput(patch.Description)
	patch.Subject = entities.SanitizeInput(patch.Subject)
	return s.store.Write(ctx, Op[models.Session]{Verb: models.VerbUpdate, ID: id, Value: patch})
}

func (s *Sessions) Delete(ctx context.Context, id int64) error {
	return s.store.Remove(ctx, id)
}

// Start moves a planned session to inprogress.
func (s *Sessions) Start(ctx context.Context, id int64) (models.Session, error) {
	return s.store.Write(ctx, Op[models.Session]{Verb: models.VerbStart, ID: id})
}

// Complete finishes a planned or inprogress session.
func (s *Sessions) Complete(ctx context.Context, id int64) (models.Session, error) {
	return s.store.Write(ctx, Op[models.Session]{Verb: models.VerbComplete, ID: id})
}

type Notes struct {
	store *FallbackStore[models.Note]
}

// GetAll lists notes in category; "" or "all" lists every note.
func (n *Notes) GetAll(ctx context.Context, category string) ([]models.Note, error) {
	return n.store.Read(ctx, Query{Category: category})
}

func (n *Notes) Get(ctx context.Context, id int64) (models.Note, error) {
	return first(n.store.Read(ctx, Query{ID: id}))
}

func (n *Notes) Create(ctx context.Context, note models.Note) (models.Note, error) {
	note.ID = 0
	note.Title = entities.SanitizeInput(note.Title)
	note.Content = entities.SanitizeInput(note.Content)
	return n.store.Write(ctx, Op[models.Note]{Verb: models.VerbCreate, Value: note})
}

func (n *Notes) Update(ctx context.Context, id int64, patch models.Note) (models.Note, error) {
	patch.Title = entities.SanitizeInput(patch.Title)
	patch.Content = entities.SanitizeInput(patch.Content)
	return n.store.Write(ctx, Op[models.Note]{Verb: models.VerbUpdate, ID: id, Value: patch})
}

func (n *Notes) Delete(ctx context.Context, id int64) error {
	return n.store.Remove(ctx, id)
}

type Books struct {
	store *FallbackStore[models.Book]
}

func (b *Books) GetAll(ctx context.Context) ([]models.Book, error) {
	return b.store.Read(ctx, Query{})
}

func (b *Books) Create(ctx context.Context, book models.Book) (models.Book, error) {
	book.ID = 0
	book.IsComplete = false
	book.Title = entities.SanitizeInput(book.Title)
	book.Author = entities.SanitizeInput(book.Author)
	book.Description = entities.SanitizeInput(book.Description)
	return b.store.Write(ctx, Op[models.Book]{Verb: models.VerbCreate, Value: book})
}

// Update merges the non-zero fields of patch. IsComplete is ignored; use
// ToggleStatus.
func (b *Books) Update(ctx context.Context, id int64, patch models.Book) (models.Book, error) {
	patch.Title = entities.SanitizeInput(patch.Title)
	patch.Author = entities.SanitizeInput(patch.Author)
	patch.Description = entities.SanitizeInput(patch.Description)
	return b.store.Write(ctx, Op[models.Book]{Verb: models.VerbUpdate, ID: id, Value: patch})
}

func (b *Books) Delete(ctx context.Context, id int64) error {
	return b.store.Remove(ctx, id)
}

// ToggleStatus flips IsComplete.
func (b *Books) ToggleStatus(ctx context.Context, id int64) (models.Book, error) {
	return b.store.Write(ctx, Op[models.Book]{Verb: models.VerbToggle, ID: id})
}

type Timers struct {
	store *FallbackStore[models.Timer]
}

func (t *Timers) GetAll(ctx context.Context) ([]models.Timer, error) {
	return t.store.Read(ctx, Query{})
}

func (t *Timers) Create(ctx context.Context, timer models.Timer) (models.Timer, error) {
	timer.ID = 0
	timer.Completed = false
	timer.CompletedAt = nil
	timer.TimerType = entities.SanitizeInput(timer.TimerType)
	timer.TaskDescription = entities.SanitizeInput(timer.TaskDescription)
	return t.store.Write(ctx, Op[models.Timer]{Verb: models.VerbCreate, Value: timer})
}

func (t *Timers) Complete(ctx context.Context, id int64) (models.Timer, error) {
	return t.store.Write(ctx, Op[models.Timer]{Verb: models.VerbComplete, ID: id})
}
