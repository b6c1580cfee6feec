package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Reply generations by tone and outcome ("success" or an error kind)
	ReplyGenerationCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reply_generation_total",
			Help: "Total number of reply generation requests",
		},
		[]string{"tone", "outcome"},
	)

	// AI provider call latency (seconds)
	AIProviderLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ai_provider_latency_seconds",
			Help:    "Latency of calls to the text generation provider",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10), // 100ms to ~50s
		},
		[]string{"provider", "status"},
	)

	// HTTP request latency (seconds)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	// Saved reply mutations
	HistoryOperationCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reply_history_operations_total",
			Help: "Total number of saved reply operations",
		},
		[]string{"operation"}, // save, update, delete
	)
)

func IncrementReplyGeneration(tone, outcome string) {
	ReplyGenerationCount.WithLabelValues(tone, outcome).Inc()
}

func RecordAIProviderLatency(provider, status string, duration time.Duration) {
	AIProviderLatency.WithLabelValues(provider, status).Observe(duration.Seconds())
}

func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

func IncrementHistoryOperation(operation string) {
	HistoryOperationCount.WithLabelValues(operation).Inc()
}

// Middleware records request latency labelled by the matched route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		RecordHTTPRequestDuration(c.Request.Method, path, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}

// Handler serves the default registry for GET /metrics.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
