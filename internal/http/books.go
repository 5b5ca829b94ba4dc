package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/database/books"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/entities"
)

type bookRequest struct {
	Title       string                `json:"title"`
	Author      string                `json:"author"`
	Description string                `json:"description"`
	Category    entities.BookCategory `json:"category"`
}

type updateBookRequest struct {
	Title       *string                `json:"title"`
	Author      *string                `json:"author"`
	Description *string                `json:"description"`
	Category    *entities.BookCategory `json:"category"`
}

type BooksController struct {
	store BookStore
}

func NewBooksController(store BookStore) *BooksController {
	return &BooksController{store: store}
}

func (bc *BooksController) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("", bc.List)
	group.POST("", bc.Create)
	group.PUT("/:id", bc.Update)
	group.DELETE("/:id", bc.Delete)
	group.POST("/:id/toggle", bc.Toggle)
}

func (bc *BooksController) List(c *gin.Context) {
	list, err := bc.store.List(GetUserID(c))
	if err != nil {
		respondInternalError(c, err, "retrieve books")
		return
	}
	c.JSON(http.StatusOK, list)
}

// Create handles POST /api/books. New books always start incomplete.
func (bc *BooksController) Create(c *gin.Context) {
	var req bookRequest
	if !bindJSON(c, &req) {
		return
	}

	book := &entities.Book{
		UserID:      GetUserID(c),
		Title:       entities.SanitizeInput(req.Title),
		Author:      entities.SanitizeInput(req.Author),
		Description: entities.SanitizeInput(req.Description),
	}
	if err := entities.RequireText("title", book.Title); err != nil {
		respondStoreError(c, err, "Book", "create book")
		return
	}
	category, err := entities.ResolveBookCategory(req.Category)
	if err != nil {
		respondStoreError(c, err, "Book", "create book")
		return
	}
	book.Category = category

	if err := bc.store.Create(book); err != nil {
		respondInternalError(c, err, "create book")
		return
	}
	respondCreated(c, "Book created successfully", book.ID, book)
}

func (bc *BooksController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req updateBookRequest
	if !bindJSON(c, &req) {
		return
	}

	book, err := bc.store.Update(GetUserID(c), id, books.Patch{
		Title:       sanitizePtr(req.Title),
		Author:      sanitizePtr(req.Author),
		Description: sanitizePtr(req.Description),
		Category:    req.Category,
	})
	if err != nil {
		respondStoreError(c, err, "Book", "update book")
		return
	}
	respondSuccess(c, "Book updated successfully", book)
}

func (bc *BooksController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := bc.store.Delete(GetUserID(c), id); err != nil {
		respondStoreError(c, err, "Book", "delete book")
		return
	}
	respondSuccess(c, "Book deleted successfully", nil)
}

// Toggle handles POST /api/books/:id/toggle, flipping is_complete.
func (bc *BooksController) Toggle(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	book, err := bc.store.ToggleStatus(GetUserID(c), id)
	if err != nil {
		respondStoreError(c, err, "Book", "toggle book status")
		return
	}
	respondSuccess(c, "Book status updated successfully", book)
}
