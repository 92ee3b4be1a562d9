// Package observability provides logging, metrics, and tracing.
//
// It integrates with OpenTelemetry for system monitoring.
// The package provides comprehensive observability features
// including metrics collection, distributed tracing, and logging.
package observability

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// HTTPRequestsTotal counts HTTP requests by route, method, and status label.
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	// HTTPRequestDuration records request durations by route and method.
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"route", "method"},
	)

	// EmbeddingRequestsTotal counts calls to the embedding service by
	// operation (embed, embed_batch) and outcome.
	EmbeddingRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "embedding_requests_total",
			Help: "Total number of embedding service requests",
		},
		[]string{"operation", "status"},
	)
	// EmbeddingRequestDuration records durations of embedding service calls.
	EmbeddingRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "embedding_request_duration_seconds",
			Help:    "Embedding service request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"operation"},
	)

	// OverallScoreHistogram is the distribution of computed overall_score
	// values in [0,1] across all scored pairs.
	OverallScoreHistogram = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "matching_overall_score",
			Help:    "Distribution of overall_score across scored résumé/job pairs",
			Buckets: []float64{0, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
		},
	)
	// CalculationDurationHistogram records calculation_time_ms per pair.
	CalculationDurationHistogram = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "matching_calculation_duration_seconds",
			Help:    "Wall-clock duration of a single score() call",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
	)
	// GradeTotal counts assigned grades.
	GradeTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matching_grade_total",
			Help: "Total number of matching results by assigned grade",
		},
		[]string{"grade"},
	)
	// PenaltyAppliedTotal counts each time a penalty kind is emitted with a
	// non-zero magnitude.
	PenaltyAppliedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matching_penalty_applied_total",
			Help: "Total number of times a penalty kind was applied",
		},
		[]string{"kind"},
	)
	// SearchJobsDuration records search_jobs_for_resume wall-clock duration.
	SearchJobsDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "matching_search_jobs_duration_seconds",
			Help:    "Wall-clock duration of search_jobs_for_resume",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
	)

	// CircuitBreakerStatus tracks circuit breaker state.
	CircuitBreakerStatus = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_status",
			Help: "Circuit breaker status (0=closed, 1=open, 2=half-open)",
		},
		[]string{"service", "operation"},
	)
)

// InitMetrics registers all Prometheus metrics with the default registry.
func InitMetrics() {
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(EmbeddingRequestsTotal)
	prometheus.MustRegister(EmbeddingRequestDuration)
	prometheus.MustRegister(OverallScoreHistogram)
	prometheus.MustRegister(CalculationDurationHistogram)
	prometheus.MustRegister(GradeTotal)
	prometheus.MustRegister(PenaltyAppliedTotal)
	prometheus.MustRegister(SearchJobsDuration)
	prometheus.MustRegister(CircuitBreakerStatus)
}

// HTTPMetricsMiddleware records Prometheus metrics for each request.
func HTTPMetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		dur := time.Since(start).Seconds()
		var route string
		if rc := chi.RouteContext(r.Context()); rc != nil {
			route = rc.RoutePattern()
		}
		if route == "" {
			route = r.URL.Path
		}
		method := r.Method
		status := ww.Status()
		HTTPRequestsTotal.WithLabelValues(route, method, http.StatusText(status)).Inc()
		HTTPRequestDuration.WithLabelValues(route, method).Observe(dur)
	})
}

// ObserveMatchingResult records the per-pair metrics emitted once a
// MatchingResult has been computed.
func ObserveMatchingResult(overallScore float64, grade string, calcSeconds float64, penalties map[string]float64) {
	if overallScore >= 0 && overallScore <= 1 {
		OverallScoreHistogram.Observe(overallScore)
	}
	CalculationDurationHistogram.Observe(calcSeconds)
	GradeTotal.WithLabelValues(grade).Inc()
	for kind, magnitude := range penalties {
		if magnitude > 0 {
			PenaltyAppliedTotal.WithLabelValues(kind).Inc()
		}
	}
}

// RecordCircuitBreakerStatus records circuit breaker state.
func RecordCircuitBreakerStatus(service, operation string, status int) {
	CircuitBreakerStatus.WithLabelValues(service, operation).Set(float64(status))
}
