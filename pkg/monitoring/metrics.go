package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP request metrics
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Authorization metrics
	accessDecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "access_decisions_total",
			Help: "Total number of procedure access-control decisions",
		},
		[]string{"action", "role", "outcome"},
	)

	// Record store metrics
	recordMutationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "procedure_mutations_total",
			Help: "Total number of procedure record mutations",
		},
		[]string{"operation", "outcome"},
	)

	// Calendar projection metrics
	eventsProjectedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "calendar_events_projected_total",
			Help: "Total number of calendar events derived from procedures",
		},
	)

	recordsSkippedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "calendar_records_skipped_total",
			Help: "Total number of procedure records excluded from projection",
		},
		[]string{"reason"},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		accessDecisionsTotal,
		recordMutationsTotal,
		eventsProjectedTotal,
		recordsSkippedTotal,
	)
}

// RecordAccessDecision records the outcome of an authorization check
func RecordAccessDecision(action, role string, allowed bool) {
	outcome := "allowed"
	if !allowed {
		outcome = "denied"
	}
	accessDecisionsTotal.WithLabelValues(action, role, outcome).Inc()
}

// RecordMutation records the outcome of a record store mutation
func RecordMutation(operation, outcome string) {
	recordMutationsTotal.WithLabelValues(operation, outcome).Inc()
}

// RecordProjection records a successful calendar event projection
func RecordProjection() {
	eventsProjectedTotal.Inc()
}

// RecordProjectionSkip records a record excluded from projection
func RecordProjectionSkip(reason string) {
	recordsSkippedTotal.WithLabelValues(reason).Inc()
}

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// statusRecorder captures the response status for metrics
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// HTTPMiddleware instruments HTTP handlers with request metrics
func HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		duration := time.Since(start).Seconds()
		httpRequestsTotal.WithLabelValues(r.Method, r.URL.Path, strconv.Itoa(rec.status)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(duration)
	})
}
