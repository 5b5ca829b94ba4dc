// Package notes provides database operations for study notes.
package notes

import (
	"errors"

	"gorm.io/gorm"

	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/entities"
)

// Patch holds optional fields for a merge update.
type Patch struct {
	Title    *string
	Content  *string
	Category *entities.NoteCategory
}

// Repository handles all note database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new notes repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns the user's notes, newest first. An empty category or "all"
// disables the filter.
func (r *Repository) List(userID uint, category string) ([]entities.Note, error) {
	notes := []entities.Note{}
	query := r.db.Where("user_id = ?", userID)
	if category != "" && category != "all" {
		query = query.Where("category = ?", category)
	}
	err := query.Order("created_at DESC, id DESC").Find(&notes).Error
	return notes, err
}

func (r *Repository) GetByID(userID, id uint) (*entities.Note, error) {
	return find(r.db, userID, id)
}

func (r *Repository) Create(note *entities.Note) error {
	return r.db.Create(note).Error
}

// Update merges the patch into the note.
func (r *Repository) Update(userID, id uint, patch Patch) (*entities.Note, error) {
	note, err := find(r.db, userID, id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		if err := entities.RequireText("title", *patch.Title); err != nil {
			return nil, err
		}
		note.Title = *patch.Title
	}
	if patch.Content != nil {
		if err := entities.RequireText("content", *patch.Content); err != nil {
			return nil, err
		}
		note.Content = *patch.Content
	}
	if patch.Category != nil {
		if !patch.Category.Valid() {
			return nil, entities.NewValidationError("category", "invalid note category")
		}
		note.Category = *patch.Category
	}

	if err := r.db.Save(note).Error; err != nil {
		return nil, err
	}
	return note, nil
}

func (r *Repository) Delete(userID, id uint) error {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&entities.Note{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return entities.ErrNotFound
	}
	return nil
}

// CountByUser returns how many notes the user owns.
func (r *Repository) CountByUser(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&entities.Note{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func find(db *gorm.DB, userID, id uint) (*entities.Note, error) {
	var note entities.Note
	if err := db.Where("id = ? AND user_id = ?", id, userID).First(&note).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrNotFound
		}
		return nil, err
	}
	return &note, nil
}
