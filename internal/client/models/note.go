package models

import (
	"time"

	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/entities"
)

type Note struct {
	ID        int64                 `json:"id"`
	Title     string                `json:"title"`
	Content   string                `json:"content"`
	Category  entities.NoteCategory `json:"category"`
	CreatedAt time.Time             `json:"createdAt"`
	UpdatedAt time.Time             `json:"updatedAt"`
	Meta      Meta                  `json:"_sync"`
}

func (Note) Collection() string { return CollectionNotes }

func (n Note) Key() int64 { return n.ID }

func (n Note) WithKey(id int64) Note {
	n.ID = id
	return n
}

func (n Note) SyncMeta() Meta { return n.Meta }

func (n Note) WithSyncMeta(meta Meta) Note {
	n.Meta = meta
	return n
}

func (n Note) Created() time.Time { return n.CreatedAt }

func (n Note) Stamp(now time.Time) Note {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = now
	}
	n.UpdatedAt = now
	if n.Category == "" {
		n.Category = entities.NoteCategoryStudy
	}
	return n
}

func (n Note) Merge(patch Note, now time.Time) Note {
	n.Title = pick(patch.Title, n.Title)
	n.Content = pick(patch.Content, n.Content)
	if patch.Category != "" {
		n.Category = patch.Category
	}
	n.UpdatedAt = now
	return n
}

func (n Note) WithEdits(from Note) Note {
	n.Title = from.Title
	n.Content = from.Content
	n.Category = from.Category
	return n
}

func (n Note) Apply(Verb, time.Time) (Note, bool, error) {
	return n, false, ErrUnsupportedVerb
}

func (n Note) Baseline([]Verb) Note { return n }

func (n Note) Validate(verb Verb) error {
	switch verb {
	case VerbCreate:
		if err := entities.RequireText("title", n.Title); err != nil {
			return err
		}
		if err := entities.RequireText("content", n.Content); err != nil {
			return err
		}
		if _, err := entities.ResolveNoteCategory(n.Category); err != nil {
			return err
		}
	case VerbUpdate:
		if n.Category != "" && !n.Category.Valid() {
			return entities.NewValidationError("category", "invalid note category")
		}
	}
	return nil
}

func (n Note) Matches(category string) bool {
	return allCategories(category) || string(n.Category) == category
}
