package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/database/notes"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/entities"
)

type noteRequest struct {
	Title    string                `json:"title"`
	Content  string                `json:"content"`
	Category entities.NoteCategory `json:"category"`
}

type updateNoteRequest struct {
	Title    *string                `json:"title"`
	Content  *string                `json:"content"`
	Category *entities.NoteCategory `json:"category"`
}

type NotesController struct {
	store NoteStore
}

func NewNotesController(store NoteStore) *NotesController {
	return &NotesController{store: store}
}

func (nc *NotesController) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("", nc.List)
	group.POST("", nc.Create)
	group.PUT("/:id", nc.Update)
	group.DELETE("/:id", nc.Delete)
}

// List handles GET /api/notes?category=. "all" or no category returns every note.
func (nc *NotesController) List(c *gin.Context) {
	list, err := nc.store.List(GetUserID(c), c.Query("category"))
	if err != nil {
		respondInternalError(c, err, "retrieve notes")
		return
	}
	c.JSON(http.StatusOK, list)
}

func (nc *NotesController) Create(c *gin.Context) {
	var req noteRequest
	if !bindJSON(c, &req) {
		return
	}

	note := &entities.Note{
		UserID:  GetUserID(c),
		Title:   entities.SanitizeInput(req.Title),
		Content: entities.SanitizeInput(req.Content),
	}
	if err := entities.RequireText("title", note.Title); err != nil {
		respondStoreError(c, err, "Note", "create note")
		return
	}
	if err := entities.RequireText("content", note.Content); err != nil {
		respondStoreError(c, err, "Note", "create note")
		return
	}
	category, err := entities.ResolveNoteCategory(req.Category)
	if err != nil {
		respondStoreError(c, err, "Note", "create note")
		return
	}
	note.Category = category

	if err := nc.store.Create(note); err != nil {
		respondInternalError(c, err, "create note")
		return
	}
	respondCreated(c, "Note created successfully", note.ID, note)
}

func (nc *NotesController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req updateNoteRequest
	if !bindJSON(c, &req) {
		return
	}

	note, err := nc.store.Update(GetUserID(c), id, notes.Patch{
		Title:    sanitizePtr(req.Title),
		Content:  sanitizePtr(req.Content),
		Category: req.Category,
	})
	if err != nil {
		respondStoreError(c, err, "Note", "update note")
		return
	}
	respondSuccess(c, "Note updated successfully", note)
}

func (nc *NotesController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := nc.store.Delete(GetUserID(c), id); err != nil {
		respondStoreError(c, err, "Note", "delete note")
		return
	}
	respondSuccess(c, "Note deleted successfully", nil)
}
