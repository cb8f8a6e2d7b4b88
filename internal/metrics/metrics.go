package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Claim outcomes.
const (
	ClaimWon      = "won"
	ClaimLost     = "lost"
	ClaimRejected = "rejected"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dispatch",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "dispatch",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "path"},
	)

	claims = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dispatch",
			Subsystem: "jobs",
			Name:      "claims_total",
			Help:      "Claim attempts by outcome.",
		},
		[]string{"outcome"},
	)

	transitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dispatch",
			Subsystem: "jobs",
			Name:      "transitions_total",
			Help:      "Service status transitions that landed.",
		},
		[]string{"to"},
	)

	expirations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dispatch",
			Subsystem: "jobs",
			Name:      "expirations_total",
			Help:      "Claims and services released by expiry.",
		},
		[]string{"source"},
	)

	reconcileCorrections = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "dispatch",
			Subsystem: "payments",
			Name:      "reconcile_corrections_total",
			Help:      "Local payment statuses corrected by reconciliation.",
		},
	)

	jobRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dispatch",
			Subsystem: "scheduler",
			Name:      "job_runs_total",
			Help:      "Scheduled job runs.",
		},
		[]string{"job", "success"},
	)
)

func init() {
	Registry.MustRegister(
		httpRequests,
		httpDuration,
		claims,
		transitions,
		expirations,
		reconcileCorrections,
		jobRuns,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler exposes the registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency per route template.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		if path == "/metrics" {
			return
		}

		httpRequests.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

func RecordClaim(outcome string) {
	claims.WithLabelValues(outcome).Inc()
}

func RecordTransition(to string) {
	transitions.WithLabelValues(to).Inc()
}

func RecordExpirations(source string, n int) {
	if n <= 0 {
		return
	}
	expirations.WithLabelValues(source).Add(float64(n))
}

func RecordReconcileCorrections(n int) {
	if n <= 0 {
		return
	}
	reconcileCorrections.Add(float64(n))
}

func RecordJobRun(job string, success bool) {
	jobRuns.WithLabelValues(job, strconv.FormatBool(success)).Inc()
}
