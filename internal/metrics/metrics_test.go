package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestMiddleware_CountsRequests(t *testing.T) {
	router := gin.New()
	router.Use(Middleware())
	router.GET("/api/notes/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })
	router.GET("/metrics", Handler())

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/api/notes/:id"))
	errorsBefore := testutil.ToFloat64(httpErrorsTotal.WithLabelValues(http.MethodGet, "/boom", "500"))

	for _, path := range []string{"/api/notes/1", "/api/notes/2", "/boom"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, before+2, testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/api/notes/:id")))
	assert.Equal(t, errorsBefore+1, testutil.ToFloat64(httpErrorsTotal.WithLabelValues(http.MethodGet, "/boom", "500")))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.Contains(rr.Body.String(), "focusmode_http_requests_total"))
}

func TestRecordCompletion(t *testing.T) {
	before := testutil.ToFloat64(studyMinutes.WithLabelValues("session"))
	RecordCompletion("session", 25)
	RecordCompletion("session", 0)

	assert.Equal(t, before+25, testutil.ToFloat64(studyMinutes.WithLabelValues("session")))
}

func TestRecordTask(t *testing.T) {
	before := testutil.ToFloat64(tasksProcessed.WithLabelValues("q", "failure"))
	RecordTask("q", errors.New("x"))
	assert.Equal(t, before+1, testutil.ToFloat64(tasksProcessed.WithLabelValues("q", "failure")))
}

type widget struct {
	ID   uint
	Name string
}

func TestInstrumentGorm(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "m.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, InstrumentGorm(db))
	require.NoError(t, db.AutoMigrate(&widget{}))

	require.NoError(t, db.Create(&widget{Name: "a"}).Error)
	var got []widget
	require.NoError(t, db.Find(&got).Error)

	assert.Greater(t, testutil.CollectAndCount(dbLatency), 0)
}
