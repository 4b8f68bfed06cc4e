package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Metadata lookups
	MetadataFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviebuddy_metadata_fetch_total",
			Help: "Metadata lookups by result (success, failure, rejected)",
		},
		[]string{"result"},
	)

	MetadataFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "moviebuddy_metadata_fetch_duration_seconds",
			Help:    "Duration of metadata lookups in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Recommendations
	RecommendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviebuddy_recommend_requests_total",
			Help: "Recommendation requests by result (ok, not_found)",
		},
		[]string{"result"},
	)

	// Circuit breaker
	BreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "moviebuddy_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// HTTP API
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviebuddy_api_requests_total",
			Help: "Total API requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moviebuddy_api_request_duration_seconds",
			Help:    "API request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// Fetch results.
const (
	FetchSuccess  = "success"
	FetchFailure  = "failure"
	FetchRejected = "rejected"
)

// RecordMetadataFetch records one metadata lookup.
func RecordMetadataFetch(result string, duration time.Duration) {
	MetadataFetches.WithLabelValues(result).Inc()
	MetadataFetchDuration.Observe(duration.Seconds())
}

// RecordRecommend counts a recommendation request.
func RecordRecommend(result string) {
	RecommendRequests.WithLabelValues(result).Inc()
}

// SetBreakerState exports the numeric breaker state for name.
func SetBreakerState(name string, state float64) {
	BreakerState.WithLabelValues(name).Set(state)
}

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, route string, status int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
