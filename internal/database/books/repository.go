// Package books provides database operations for the user's book shelf.
//
// # Usage
//
//	repo := books.NewRepository(db)
//	book, err := repo.ToggleStatus(userID, id)
package books

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/entities"
)

// Patch holds optional fields for a merge update. Completion is changed only
// through ToggleStatus.
type Patch struct {
	Title       *string
	Author      *string
	Description *string
	Category    *entities.BookCategory
}

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns the user's books, newest first.
func (r *Repository) List(userID uint) ([]entities.Book, error) {
	books := []entities.Book{}
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC, id DESC").Find(&books).Error
	return books, err
}

// GetByID retrieves a book owned by the user.
func (r *Repository) GetByID(userID, id uint) (*entities.Book, error) {
	return find(r.db, userID, id)
}

// Create saves a new book. New books always start incomplete.
func (r *Repository) Create(book *entities.Book) error {
	book.IsComplete = false
	if err := r.db.Create(book).Error; err != nil {
		return fmt.Errorf("failed to create book: %w", err)
	}
	return nil
}

// Update merges the patch into the book.
func (r *Repository) Update(userID, id uint, patch Patch) (*entities.Book, error) {
	book, err := find(r.db, userID, id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		if err := entities.RequireText("title", *patch.Title); err != nil {
			return nil, err
		}
		book.Title = *patch.Title
	}
	if patch.Author != nil {
		book.Author = *patch.Author
	}
	if patch.Description != nil {
		book.Description = *patch.Description
	}
	if patch.Category != nil {
		if !patch.Category.Valid() {
			return nil, entities.NewValidationError("category", "invalid book category")
		}
		book.Category = *patch.Category
	}

	if err := r.db.Save(book).Error; err != nil {
		return nil, fmt.Errorf("failed to update book: %w", err)
	}
	return book, nil
}

// ToggleStatus flips the completion flag.
func (r *Repository) ToggleStatus(userID, id uint) (*entities.Book, error) {
	var book *entities.Book
	err := r.db.Transaction(func(tx *gorm.DB) error {
		b, err := find(tx, userID, id)
		if err != nil {
			return err
		}
		b.IsComplete = !b.IsComplete
		// Select forces the false value to be written.
		if err := tx.Model(b).Select("is_complete", "updated_at").Updates(b).Error; err != nil {
			return err
		}
		book = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return book, nil
}

// Delete removes the book.
func (r *Repository) Delete(userID, id uint) error {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&entities.Book{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete book: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return entities.ErrNotFound
	}
	return nil
}

// CountByUser returns how many books the user owns.
func (r *Repository) CountByUser(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&entities.Book{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func find(db *gorm.DB, userID, id uint) (*entities.Book, error) {
	var book entities.Book
	if err := db.Where("id = ? AND user_id = ?", id, userID).First(&book).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrNotFound
		}
		return nil, err
	}
	return &book, nil
}
