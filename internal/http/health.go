package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const serviceName = "FocusMode API"

// Pinger reports database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthResponse struct {
	Status    string  `json:"status"`
	Service   string  `json:"service"`
	Database  string  `json:"database"`
	Version   string  `json:"version,omitempty"`
	Timestamp string  `json:"timestamp"`
	Uptime    float64 `json:"uptime"`
	Error     string  `json:"error,omitempty"`
}

type HealthController struct {
	db      Pinger
	version string
	started time.Time
}

func NewHealthController(db Pinger, version string) *HealthController {
	return &HealthController{
		db:      db,
		version: version,
		started: time.Now(),
	}
}

// Status handles GET /api/health. It answers 500 when the database ping fails.
func (h *HealthController) Status(c *gin.Context) {
	resp := HealthResponse{
		Status:    "OK",
		Service:   serviceName,
		Database:  "Connected",
		Version:   h.version,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(h.started).Seconds(),
	}

	status := http.StatusOK
	if h.db == nil {
		resp.Database = "Not configured"
	} else {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			resp.Status = "ERROR"
			resp.Database = "Disconnected"
			resp.Error = err.Error()
			status = http.StatusInternalServerError
		}
	}

	c.JSON(status, resp)
}
