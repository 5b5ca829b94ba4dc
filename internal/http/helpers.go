package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/auth"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/entities"
)

// GetUserID returns the authenticated user's ID, or 0 in single-user mode.
func GetUserID(c *gin.Context) uint {
	return auth.GetUserID(c)
}

// --- Response Types ---

// ErrorResponse is the error body of every API failure.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// SuccessResponse carries a message and, for writes, the affected record.
type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// CreatedResponse is returned with 201 for every create endpoint.
type CreatedResponse struct {
	Message string `json:"message"`
	ID      uint   `json:"id"`
	Data    any    `json:"data"`
}

// --- Error Response Helpers ---

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Validation error", Message: message})
}

// respondNotFound sends 404 for the named resource, e.g. "Session".
func respondNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: "Not found", Message: resource + " not found"})
}

// respondInternalError logs err and sends a generic 500. action reads like
// "retrieve sessions" and ends up in the message.
func respondInternalError(c *gin.Context, err error, action string) {
	log.Printf("Internal error (%s): %v", action, err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Server error", Message: "Failed to " + action})
}

func respondError(c *gin.Context, status int, errorText, message string) {
	c.JSON(status, ErrorResponse{Error: errorText, Message: message})
}

// respondStoreError maps repository errors onto status codes.
func respondStoreError(c *gin.Context, err error, resource, action string) {
	var validationErr *entities.ValidationError
	switch {
	case errors.As(err, &validationErr):
		respondBadRequest(c, validationErr.Error())
	case errors.Is(err, entities.ErrNotFound):
		respondNotFound(c, resource)
	default:
		respondInternalError(c, err, action)
	}
}

// --- Success Response Helpers ---

func respondSuccess(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, SuccessResponse{Message: message, Data: data})
}

func respondCreated(c *gin.Context, message string, id uint, data any) {
	c.JSON(http.StatusCreated, CreatedResponse{Message: message, ID: id, Data: data})
}

// respondAccepted sends 202 for work handed to the task queue.
func respondAccepted(c *gin.Context, message string, data any) {
	c.JSON(http.StatusAccepted, SuccessResponse{Message: message, Data: data})
}

// --- Parameter Parsing ---

// parseIDParam extracts an unsigned integer ID from URL parameters.
// On failure it responds with 400 and returns 0, false.
func parseIDParam(c *gin.Context, paramName string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(paramName), 10, 32)
	if err != nil {
		respondBadRequest(c, "invalid "+paramName)
		return 0, false
	}
	return uint(id), true
}

// parseQueryInt reads a positive integer query parameter, falling back to def.
func parseQueryInt(c *gin.Context, name string, def int) int {
	n, err := strconv.Atoi(c.Query(name))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

// bindOptionalJSON decodes the body when there is one. An empty body leaves
// dst untouched.
func bindOptionalJSON(c *gin.Context, dst any) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		respondBadRequest(c, "invalid request body")
		return false
	}
	return true
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondBadRequest(c, "invalid request body")
		return false
	}
	return true
}

// sanitizePtr trims and caps an optional text field.
func sanitizePtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := entities.SanitizeInput(*s)
	return &v
}
