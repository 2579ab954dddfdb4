package main

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"tuneup/lib/timer"
)

// ------------------------ START metric definitions ----------------------------

var totalRequests = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Number of incoming HTTP requests.",
	},
	[]string{"path"},
)

var totalRequestsProcessed = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "http_requests_processed_total",
		Help: "Number of HTTP requests processed.",
	},
	[]string{"path"},
)

var responseStatus = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "response_status",
		Help: "Status of HTTP response",
	},
	[]string{"path", "status"},
)

var httpDuration = promauto.NewSummaryVec(prometheus.SummaryOpts{
	Name: "http_response_time_seconds",
	Help: "Duration of HTTP requests.",
	// Track quantiles within small error
	Objectives: map[float64]float64{
		0.25: 0.05,
		0.50: 0.05,
		0.75: 0.05,
		0.90: 0.05,
		0.95: 0.02,
		0.99: 0.01,
	},
}, []string{"path"})

// ------------------------ END metric definitions ------------------------------

// middleware to "log" response codes, latency and total counts, labeled by
// route template rather than the raw url.
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.FullPath()
		totalRequests.WithLabelValues(path).Inc()
		t := prometheus.NewTimer(httpDuration.WithLabelValues(path))
		c.Next()
		t.ObserveDuration()
		responseStatus.WithLabelValues(path, strconv.Itoa(c.Writer.Status())).Inc()
		totalRequestsProcessed.WithLabelValues(path).Inc()
	}
}

// tracingMiddleware arms every request for stage timings; the collected trace
// only hits the log when the request ran longer than threshold.
func tracingMiddleware(logger *zap.Logger, threshold time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		ctx := timer.WithTracing(c.Request.Context())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
		if time.Since(start) > threshold {
			if err := timer.LogTracingInfo(ctx, logger); err != nil {
				logger.Warn("failed to log tracing info", zap.Error(err))
			}
		}
	}
}
