package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/database/sessions"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/entities"
)

type createSessionRequest struct {
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Subject     string                 `json:"subject"`
	Duration    *int                   `json:"duration"`
	Status      entities.SessionStatus `json:"status"`
}

type updateSessionRequest struct {
	Title       *string                 `json:"title"`
	Description *string                 `json:"description"`
	Subject     *string                 `json:"subject"`
	Duration    *int                    `json:"duration"`
	Status      *entities.SessionStatus `json:"status"`
}

// completeRequest is the optional body of the complete endpoints.
type completeRequest struct {
	Duration *int `json:"duration"`
}

type SessionsController struct {
	store SessionStore
	study StudyWorkflow
	now   func() time.Time
}

func NewSessionsController(store SessionStore, study StudyWorkflow) *SessionsController {
	return &SessionsController{store: store, study: study, now: time.Now}
}

func (sc *SessionsController) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("", sc.List)
	group.POST("", sc.Create)
	group.PUT("/:id", sc.Update)
	group.DELETE("/:id", sc.Delete)
	group.POST("/:id/start", sc.Start)
	group.POST("/:id/complete", sc.Complete)
}

// List handles GET /api/sessions, newest first.
func (sc *SessionsController) List(c *gin.Context) {
	list, err := sc.store.ListByUser(GetUserID(c))
	if err != nil {
		respondInternalError(c, err, "retrieve sessions")
		return
	}
	c.JSON(http.StatusOK, list)
}

// Create handles POST /api/sessions.
func (sc *SessionsController) Create(c *gin.Context) {
	var req createSessionRequest
	if !bindJSON(c, &req) {
		return
	}

	session, err := newSession(GetUserID(c), req)
	if err != nil {
		respondStoreError(c, err, "Session", "create session")
		return
	}
	if err := sc.store.Create(session); err != nil {
		respondInternalError(c, err, "create session")
		return
	}

	respondCreated(c, "Session created successfully", session.ID, session)
}

func newSession(userID uint, req createSessionRequest) (*entities.StudySession, error) {
	title := entities.SanitizeInput(req.Title)
	if err := entities.RequireText("title", title); err != nil {
		return nil, err
	}
	duration, err := entities.ResolveSessionDuration(req.Duration)
	if err != nil {
		return nil, err
	}
	status, err := entities.ResolveSessionStatus(req.Status)
	if err != nil {
		return nil, err
	}
	return &entities.StudySession{
		UserID:      userID,
		Title:       title,
		Description: entities.SanitizeInput(req.Description),
		Subject:     entities.SanitizeInput(req.Subject),
		Duration:    duration,
		Status:      status,
	}, nil
}

// Update handles PUT /api/sessions/:id. Reaching completed through an
// update credits the stats the same way the complete endpoint does.
func (sc *SessionsController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req updateSessionRequest
	if !bindJSON(c, &req) {
		return
	}

	userID := GetUserID(c)
	patch := sessions.Patch{
		Title:       sanitizePtr(req.Title),
		Description: sanitizePtr(req.Description),
		Subject:     sanitizePtr(req.Subject),
		Duration:    req.Duration,
		Status:      req.Status,
	}
	session, completedNow, err := sc.store.Update(userID, id, patch, sc.now())
	if err != nil {
		respondStoreError(c, err, "Session", "update session")
		return
	}
	if completedNow {
		if err := sc.study.SessionCompleted(userID, session); err != nil {
			respondInternalError(c, err, "update session")
			return
		}
	}

	respondSuccess(c, "Session updated successfully", session)
}

// Delete handles DELETE /api/sessions/:id.
func (sc *SessionsController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := sc.store.Delete(GetUserID(c), id); err != nil {
		respondStoreError(c, err, "Session", "delete session")
		return
	}
	respondSuccess(c, "Session deleted successfully", nil)
}

// Start handles POST /api/sessions/:id/start.
func (sc *SessionsController) Start(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	session, err := sc.store.Start(GetUserID(c), id, sc.now())
	if err != nil {
		respondStoreError(c, err, "Session", "start session")
		return
	}
	respondSuccess(c, "Session started successfully", session)
}

// Complete handles POST /api/sessions/:id/complete with an optional
// {"duration": minutes} body overriding the minutes credited.
func (sc *SessionsController) Complete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req completeRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	session, err := sc.study.CompleteSession(GetUserID(c), id, req.Duration)
	if err != nil {
		respondStoreError(c, err, "Session", "complete session")
		return
	}
	respondSuccess(c, "Session completed successfully", session)
}
