// Package monitoring exposes Prometheus metrics for the API server.
package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	orderTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_transitions_total",
			Help: "Order lifecycle transitions applied",
		},
		[]string{"action"},
	)

	receiptsUploaded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "receipts_uploaded_total",
			Help: "Receipts uploaded for processing",
		},
	)
)

// Monitor owns the metrics registry for one server instance
type Monitor struct {
	registry *prometheus.Registry
}

// NewMonitor creates a monitor with all collectors registered
func NewMonitor() *Monitor {
	registry := prometheus.NewRegistry()
	registry.MustRegister(requestDuration, orderTransitions, receiptsUploaded)
	return &Monitor{registry: registry}
}

// Registry returns the Prometheus registry for the metrics endpoint
func (m *Monitor) Registry() *prometheus.Registry {
	return m.registry
}

// RecordTransition counts one applied order lifecycle action
func (m *Monitor) RecordTransition(action string) {
	orderTransitions.WithLabelValues(action).Inc()
}

// RecordReceiptUpload counts one uploaded receipt
func (m *Monitor) RecordReceiptUpload() {
	receiptsUploaded.Inc()
}

// Middleware records request latency per route
func (m *Monitor) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		requestDuration.WithLabelValues(
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
		).Observe(time.Since(start).Seconds())
	}
}
