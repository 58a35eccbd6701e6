// Package metrics provides Prometheus instrumentation.
//
// It pre-defines the standard HTTP metrics plus counters for the order and
// payment pipelines, and gives helpers to register custom metrics.
//
// Wire it up once in internal/server/server.go:
//
//	r.Use(metrics.Middleware())
//	r.Get("/metrics", "metrics", metrics.Handler())
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ─────────────────────────────────────────────
// Built-in HTTP metrics
// ─────────────────────────────────────────────

var (
	// RequestDuration tracks how long each HTTP request takes,
	// broken down by method, route path, and status code.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "printipid",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts all HTTP requests.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "printipid",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	// RequestInFlight tracks how many requests are currently being served.
	RequestInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "printipid",
		Subsystem: "http",
		Name:      "requests_in_flight",
		Help:      "Number of HTTP requests currently being served.",
	})

	// DocQueryDuration tracks document store query latency.
	DocQueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "printipid",
			Subsystem: "docstore",
			Name:      "query_duration_seconds",
			Help:      "Duration of document store operations in seconds.",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .5, 1},
		},
		[]string{"operation"}, // "find" | "insert" | "update" | "delete"
	)

	// OrdersCreated counts submitted print orders by payment method.
	OrdersCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "printipid",
			Subsystem: "orders",
			Name:      "created_total",
			Help:      "Total print orders submitted.",
		},
		[]string{"payment_method"}, // "gcash" | "pay_on_shop"
	)

	// OrderTransitions counts order status transitions.
	OrderTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "printipid",
			Subsystem: "orders",
			Name:      "transitions_total",
			Help:      "Total order status transitions.",
		},
		[]string{"from", "to"},
	)

	// PaymentsReviewed counts admin payment decisions.
	PaymentsReviewed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "printipid",
			Subsystem: "payments",
			Name:      "reviewed_total",
			Help:      "Total payment proofs reviewed by admins.",
		},
		[]string{"decision"}, // "verified" | "rejected"
	)

	// QueueJobsProcessed counts processed queue jobs by status.
	QueueJobsProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "printipid",
			Subsystem: "queue",
			Name:      "jobs_processed_total",
			Help:      "Total queue jobs processed.",
		},
		[]string{"status"}, // "success" | "failed"
	)

	// QueueJobDuration tracks how long queue jobs take.
	QueueJobDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "printipid",
			Subsystem: "queue",
			Name:      "job_duration_seconds",
			Help:      "Duration of queue job processing in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"job_type"},
	)

	// CacheHits / CacheMisses track catalog cache effectiveness.
	CacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "printipid",
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Total cache hits.",
		},
		[]string{"key"},
	)
	CacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "printipid",
			Subsystem: "cache",
			Name:      "misses_total",
			Help:      "Total cache misses.",
		},
		[]string{"key"},
	)
)

// ─────────────────────────────────────────────
// Registry
// ─────────────────────────────────────────────

// DefaultRegistry is the Prometheus registry used by the app.
// Register your own metrics against this.
var DefaultRegistry = prometheus.NewRegistry()

func init() {
	// Go runtime metrics (GC, goroutines, memory)
	DefaultRegistry.MustRegister(collectors.NewGoCollector())
	// OS process metrics (CPU, open FDs)
	DefaultRegistry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	DefaultRegistry.MustRegister(
		RequestDuration,
		RequestTotal,
		RequestInFlight,
		DocQueryDuration,
		OrdersCreated,
		OrderTransitions,
		PaymentsReviewed,
		QueueJobsProcessed,
		QueueJobDuration,
		CacheHits,
		CacheMisses,
	)
}

// Register adds a prometheus.Collector to the default registry.
func Register(c prometheus.Collector) error {
	return DefaultRegistry.Register(c)
}

// MustRegister panics if registration fails.
func MustRegister(c ...prometheus.Collector) {
	DefaultRegistry.MustRegister(c...)
}

// ─────────────────────────────────────────────
// HTTP middleware
// ─────────────────────────────────────────────

// responseRecorder wraps http.ResponseWriter to capture the status code.
type responseRecorder struct {
	http.ResponseWriter
	status int
}

func (r *responseRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush forwards to the underlying writer for SSE streams.
func (r *responseRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Middleware returns an http.Handler middleware that records Prometheus
// metrics for every request.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			path := r.URL.Path // raw path; normalize in high-cardinality APIs

			RequestInFlight.Inc()
			defer RequestInFlight.Dec()

			rr := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rr, r)

			duration := time.Since(start).Seconds()
			status := strconv.Itoa(rr.status)

			RequestDuration.WithLabelValues(r.Method, path, status).Observe(duration)
			RequestTotal.WithLabelValues(r.Method, path, status).Inc()
		})
	}
}

// ─────────────────────────────────────────────
// /metrics endpoint handler
// ─────────────────────────────────────────────

// Handler returns an http.HandlerFunc that exposes the Prometheus metrics page.
// Mount it on GET /metrics in your router.
func Handler() http.HandlerFunc {
	h := promhttp.HandlerFor(DefaultRegistry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
	return h.ServeHTTP
}

// ─────────────────────────────────────────────
// Helpers for app code
// ─────────────────────────────────────────────

// ObserveDocQuery records a document store operation duration:
//
//	defer metrics.ObserveDocQuery("find", time.Now())
func ObserveDocQuery(operation string, start time.Time) {
	DocQueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// RecordQueueJob records a queue job result.
func RecordQueueJob(jobType, status string, start time.Time) {
	QueueJobsProcessed.WithLabelValues(status).Inc()
	QueueJobDuration.WithLabelValues(jobType).Observe(time.Since(start).Seconds())
}
