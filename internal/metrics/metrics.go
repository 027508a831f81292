package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request counter
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// HTTP request duration histogram
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint", "status"},
	)

	// VerificationsTotal counts verification attempts by terminal outcome
	// ("success" or an error code).
	VerificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "review_verifications_total",
			Help: "Total number of review verification attempts by outcome",
		},
		[]string{"outcome"},
	)

	// BookkeepingFailuresTotal counts best-effort side effects that failed
	// after a verification had already committed. This is the side channel
	// for failures that never surface in the HTTP response.
	BookkeepingFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "review_bookkeeping_failures_total",
			Help: "Total number of non-fatal bookkeeping failures by operation",
		},
		[]string{"operation"},
	)

	// SubmissionsTotal counts accepted review submissions.
	SubmissionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "review_submissions_total",
			Help: "Total number of accepted review submissions",
		},
	)

	// SweepDeletionsTotal counts items removed by the expired-token sweep.
	SweepDeletionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "token_sweep_deletions_total",
			Help: "Total number of items deleted by the token sweep",
		},
		[]string{"kind"}, // "token", "review", "corrupt"
	)
)

// RecordHTTPRequest records metrics for an HTTP request.
func RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	status := strconv.Itoa(statusCode)

	HTTPRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, endpoint, status).Observe(duration.Seconds())
}
