package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/entities"
)

// DashboardResponse is the body of GET /api/user/dashboard.
type DashboardResponse struct {
	User       DashboardUser       `json:"user"`
	Dashboard  *entities.Dashboard `json:"dashboard"`
	TodayStats entities.TodayStat  `json:"todayStats"`
}

type DashboardUser struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
}

type UserController struct {
	study StudyWorkflow
}

func NewUserController(study StudyWorkflow) *UserController {
	return &UserController{study: study}
}

func (uc *UserController) Dashboard(c *gin.Context) {
	userID := GetUserID(c)
	dashboard, today, err := uc.study.Dashboard(userID)
	if err != nil {
		respondStoreError(c, err, "User", "load dashboard data")
		return
	}

	c.JSON(http.StatusOK, DashboardResponse{
		User:       DashboardUser{ID: userID, Email: dashboard.Email},
		Dashboard:  dashboard,
		TodayStats: today,
	})
}
