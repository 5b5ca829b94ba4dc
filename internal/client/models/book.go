package models

import (
	"time"

	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/entities"
)

type Book struct {
	ID          int64                 `json:"id"`
	Title       string                `json:"title"`
	Author      string                `json:"author"`
	Description string                `json:"description"`
	Category    entities.BookCategory `json:"category"`
	IsComplete  bool                  `json:"isComplete"`
	CreatedAt   time.Time             `json:"createdAt"`
	UpdatedAt   time.Time             `json:"updatedAt"`
	Meta        Meta                  `json:"_sync"`
}

func (Book) Collection() string { return CollectionBooks }

func (b Book) Key() int64 { return b.ID }

func (b Book) WithKey(id int64) Book {
	b.ID = id
	return b
}

func (b Book) SyncMeta() Meta { return b.Meta }

func (b Book) WithSyncMeta(meta Meta) Book {
	b.Meta = meta
	return b
}

func (b Book) Created() time.Time { return b.CreatedAt }

func (b Book) Stamp(now time.Time) Book {
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
	if b.Category == "" {
		b.Category = entities.BookCategoryAcademic
	}
	return b
}

// Merge never touches IsComplete, which only changes through toggle.
func (b Book) Merge(patch Book, now time.Time) Book {
	b.Title = pick(patch.Title, b.Title)
	b.Author = pick(patch.Author, b.Author)
	b.Description = pick(patch.Description, b.Description)
	if patch.Category != "" {
		b.Category = patch.Category
	}
	b.UpdatedAt = now
	return b
}

func (b Book) WithEdits(from Book) Book {
	b.Title = from.Title
	b.Author = from.Author
	b.Description = from.Description
	b.Category = from.Category
	return b
}

func (b Book) Apply(verb Verb, now time.Time) (Book, bool, error) {
	if verb != VerbToggle {
		return b, false, ErrUnsupportedVerb
	}
	b.IsComplete = !b.IsComplete
	b.UpdatedAt = now
	return b, true, nil
}

// Baseline undoes one flip per queued toggle.
func (b Book) Baseline(replay []Verb) Book {
	for _, v := range replay {
		if v == VerbToggle {
			b.IsComplete = !b.IsComplete
		}
	}
	return b
}

func (b Book) Validate(verb Verb) error {
	switch verb {
	case VerbCreate:
		if err := entities.RequireText("title", b.Title); err != nil {
			return err
		}
		if _, err := entities.ResolveBookCategory(b.Category); err != nil {
			return err
		}
	case VerbUpdate:
		if b.Category != "" && !b.Category.Valid() {
			return entities.NewValidationError("category", "invalid book category")
		}
	}
	return nil
}

func (b Book) Matches(category string) bool {
	return allCategories(category) || string(b.Category) == category
}
