package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/entities"
)

type timerRequest struct {
	TimerType       string `json:"timer_type"`
	Duration        int    `json:"duration"`
	TaskDescription string `json:"task_description"`
}

type TimersController struct {
	store TimerStore
	study StudyWorkflow
}

func NewTimersController(store TimerStore, study StudyWorkflow) *TimersController {
	return &TimersController{store: store, study: study}
}

func (tc *TimersController) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("", tc.List)
	group.POST("", tc.Create)
	group.POST("/:id/complete", tc.Complete)
}

// List handles GET /api/timers, the latest timers first.
func (tc *TimersController) List(c *gin.Context) {
	list, err := tc.store.List(GetUserID(c))
	if err != nil {
		respondInternalError(c, err, "retrieve timers")
		return
	}
	c.JSON(http.StatusOK, list)
}

func (tc *TimersController) Create(c *gin.Context) {
	var req timerRequest
	if !bindJSON(c, &req) {
		return
	}

	timer := &entities.FocusTimer{
		UserID:          GetUserID(c),
		TimerType:       entities.SanitizeInput(req.TimerType),
		Duration:        req.Duration,
		TaskDescription: entities.SanitizeInput(req.TaskDescription),
	}
	if err := entities.ValidateTimer(timer.TimerType, timer.Duration); err != nil {
		respondStoreError(c, err, "Timer", "save timer")
		return
	}
	if err := tc.store.Create(timer); err != nil {
		respondInternalError(c, err, "save timer")
		return
	}
	respondCreated(c, "Timer saved successfully", timer.ID, timer)
}

// Complete handles POST /api/timers/:id/complete. Without a body the timer's
// own duration is credited.
func (tc *TimersController) Complete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req completeRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	timer, err := tc.study.CompleteTimer(GetUserID(c), id, req.Duration)
	if err != nil {
		respondStoreError(c, err, "Timer", "complete timer")
		return
	}
	respondSuccess(c, "Timer completed successfully", timer)
}
