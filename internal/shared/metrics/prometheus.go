package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	// Business metrics
	loginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logins_total",
			Help: "Total number of login attempts",
		},
		[]string{"status"},
	)

	patientsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "patients_created_total",
			Help: "Total number of patients created",
		},
		[]string{"goal"},
	)

	checkinsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkins_created_total",
			Help: "Total number of check-ins created",
		},
		[]string{"goal"},
	)

	checkinsUpdated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "checkins_updated_total",
			Help: "Total number of check-in updates",
		},
	)
)

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware creates HTTP metrics middleware
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()
		path := normalizePath(r.URL.Path)

		httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.statusCode)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// normalizePath keeps label cardinality bounded
func normalizePath(path string) string {
	if len(path) > 100 {
		return "/api/..."
	}
	return path
}

// --- Business metric helpers ---

// RecordLogin records a login attempt
func RecordLogin(success bool) {
	status := "failure"
	if success {
		status = "success"
	}
	loginsTotal.WithLabelValues(status).Inc()
}

// RecordPatientCreated records a patient creation
func RecordPatientCreated(goal string) {
	patientsCreated.WithLabelValues(goal).Inc()
}

// RecordCheckInCreated records a check-in creation
func RecordCheckInCreated(goal string) {
	checkinsCreated.WithLabelValues(goal).Inc()
}

// RecordCheckInUpdated records a check-in update
func RecordCheckInUpdated() {
	checkinsUpdated.Inc()
}
