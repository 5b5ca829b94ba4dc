package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	statsrepo "github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/database/stats"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/tasks"
)

// StreakResponse is the body of GET /api/stats/streak.
type StreakResponse struct {
	StreakDays int `json:"streak_days"`
}

type StatsController struct {
	stats StatsReader
	study StudyWorkflow
	queue TaskQueue
}

// NewStatsController creates the controller. queue may be nil, in which case
// rebuilds run inside the request.
func NewStatsController(stats StatsReader, study StudyWorkflow, queue TaskQueue) *StatsController {
	return &StatsController{stats: stats, study: study, queue: queue}
}

func (sc *StatsController) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("/today", sc.Today)
	group.GET("/weekly", sc.Weekly)
	group.GET("/monthly", sc.Monthly)
	group.GET("/streak", sc.Streak)
	group.GET("/history", sc.History)
	group.GET("/summary", sc.Summary)
	group.POST("/rebuild", sc.Rebuild)
}

func (sc *StatsController) Today(c *gin.Context) {
	today, err := sc.stats.Today(GetUserID(c))
	if err != nil {
		respondInternalError(c, err, "retrieve today's stats")
		return
	}
	c.JSON(http.StatusOK, today)
}

// Weekly handles GET /api/stats/weekly: one row per active day of the last
// seven, most recent first.
func (sc *StatsController) Weekly(c *gin.Context) {
	weekly, err := sc.stats.Weekly(GetUserID(c))
	if err != nil {
		respondInternalError(c, err, "retrieve weekly stats")
		return
	}
	c.JSON(http.StatusOK, weekly)
}

func (sc *StatsController) Monthly(c *gin.Context) {
	monthly, err := sc.stats.Monthly(GetUserID(c))
	if err != nil {
		respondInternalError(c, err, "retrieve monthly stats")
		return
	}
	c.JSON(http.StatusOK, monthly)
}

func (sc *StatsController) Streak(c *gin.Context) {
	streak, err := sc.stats.CurrentStreak(GetUserID(c))
	if err != nil {
		respondInternalError(c, err, "retrieve streak data")
		return
	}
	c.JSON(http.StatusOK, StreakResponse{StreakDays: streak})
}

// History handles GET /api/stats/history?days=N. Missing or invalid days
// means the default window.
func (sc *StatsController) History(c *gin.Context) {
	days := parseQueryInt(c, "days", statsrepo.DefaultHistoryDays)
	history, err := sc.stats.History(GetUserID(c), days)
	if err != nil {
		respondInternalError(c, err, "retrieve study history")
		return
	}
	c.JSON(http.StatusOK, history)
}

// Summary never fails: views that cannot be loaded are reported as zero.
func (sc *StatsController) Summary(c *gin.Context) {
	c.JSON(http.StatusOK, sc.study.Summary(c.Request.Context(), GetUserID(c)))
}

// Rebuild handles POST /api/stats/rebuild.
func (sc *StatsController) Rebuild(c *gin.Context) {
	userID := GetUserID(c)

	if sc.queue == nil {
		entries, err := sc.study.RebuildStats(userID)
		if err != nil {
			respondInternalError(c, err, "rebuild stats")
			return
		}
		respondSuccess(c, "Stats rebuilt successfully", gin.H{"entries": entries})
		return
	}

	ids, err := sc.queue.Enqueue(tasks.RebuildStatsTask{UserID: userID})
	if err != nil {
		respondInternalError(c, err, "queue stats rebuild")
		return
	}
	respondAccepted(c, "Stats rebuild queued", gin.H{"task_id": ids[0]})
}
