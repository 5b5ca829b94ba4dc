// Package metrics exposes Prometheus instrumentation for the API server.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

type ctxKey string

const routeLabelKey ctxKey = "metrics_route"

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "focusmode_http_requests_total",
		Help: "Total number of HTTP requests processed.",
	}, []string{"method", "route"})

	httpErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "focusmode_http_errors_total",
		Help: "Total number of HTTP requests resulting in server errors.",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "focusmode_http_request_duration_seconds",
		Help:    "Histogram of latencies for HTTP requests.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	dbLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "focusmode_db_latency_seconds",
		Help:    "Histogram of database operation latencies.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table", "route"})

	studyCompletions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "focusmode_study_completions_total",
		Help: "Completed study sessions and focus timers.",
	}, []string{"kind"})

	studyMinutes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "focusmode_study_minutes_total",
		Help: "Minutes credited to daily statistics.",
	}, []string{"kind"})

	tasksProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "focusmode_tasks_processed_total",
		Help: "Background tasks processed, by queue and outcome.",
	}, []string{"queue", "outcome"})
)

// Middleware records request metrics and stores the route label in the
// request context for downstream instrumentation.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), routeLabelKey, route))

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		statusCode := strconv.Itoa(status)
		method := c.Request.Method

		httpRequestsTotal.WithLabelValues(method, route).Inc()
		httpRequestDuration.WithLabelValues(method, route, statusCode).Observe(time.Since(start).Seconds())
		if status >= http.StatusInternalServerError {
			httpErrorsTotal.WithLabelValues(method, route, statusCode).Inc()
		}
	}
}

// Handler exposes the Prometheus metrics endpoint.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

// ObserveDBLatency records database latency for an operation.
func ObserveDBLatency(ctx context.Context, operation, table string, start time.Time) {
	dbLatency.WithLabelValues(operation, table, routeFromContext(ctx)).Observe(time.Since(start).Seconds())
}

// RecordCompletion counts a completed session or timer and the minutes it credited.
func RecordCompletion(kind string, minutes int) {
	studyCompletions.WithLabelValues(kind).Inc()
	if minutes > 0 {
		studyMinutes.WithLabelValues(kind).Add(float64(minutes))
	}
}

// RecordTask counts a processed background task.
func RecordTask(queue string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	tasksProcessed.WithLabelValues(queue, outcome).Inc()
}

func routeFromContext(ctx context.Context) string {
	if ctx == nil {
		return "unknown"
	}
	if route, ok := ctx.Value(routeLabelKey).(string); ok && route != "" {
		return route
	}
	return "unknown"
}

const startKey = "metrics:start"

// InstrumentGorm registers callbacks that observe the latency of every gorm
// create, query, update, delete and raw statement.
func InstrumentGorm(db *gorm.DB) error {
	cb := db.Callback()
	return errors.Join(
		cb.Create().Before("gorm:create").Register("metrics:before_create", markStart),
		cb.Create().After("gorm:create").Register("metrics:after_create", observe("create")),
		cb.Query().Before("gorm:query").Register("metrics:before_query", markStart),
		cb.Query().After("gorm:query").Register("metrics:after_query", observe("query")),
		cb.Update().Before("gorm:update").Register("metrics:before_update", markStart),
		cb.Update().After("gorm:update").Register("metrics:after_update", observe("update")),
		cb.Delete().Before("gorm:delete").Register("metrics:before_delete", markStart),
		cb.Delete().After("gorm:delete").Register("metrics:after_delete", observe("delete")),
		cb.Row().Before("gorm:row").Register("metrics:before_row", markStart),
		cb.Row().After("gorm:row").Register("metrics:after_row", observe("row")),
		cb.Raw().Before("gorm:raw").Register("metrics:before_raw", markStart),
		cb.Raw().After("gorm:raw").Register("metrics:after_raw", observe("raw")),
	)
}

func markStart(tx *gorm.DB) {
	tx.InstanceSet(startKey, time.Now())
}

func observe(operation string) func(*gorm.DB) {
	return func(tx *gorm.DB) {
		v, ok := tx.InstanceGet(startKey)
		if !ok {
			return
		}
		start, ok := v.(time.Time)
		if !ok {
			return
		}
		table := tx.Statement.Table
		if table == "" {
			table = "unknown"
		}
		ObserveDBLatency(tx.Statement.Context, operation, table, start)
	}
}
