package handler

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// metricsOnce ensures metrics are registered only once
	metricsOnce sync.Once

	// validateRequestsTotal tracks validation requests by outcome
	validateRequestsTotal *prometheus.CounterVec

	// convertRequestsTotal tracks conversion requests by direction and outcome
	convertRequestsTotal *prometheus.CounterVec

	// requestDuration tracks latency of package operations
	requestDuration *prometheus.HistogramVec

	// refIssuesPerPackage tracks distribution of dangling references found
	refIssuesPerPackage prometheus.Histogram
)

// InitMetrics registers all Prometheus metrics for the package API.
// This should be called once at application startup.
func InitMetrics() {
	metricsOnce.Do(func() {
		validateRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "maec_validate_requests_total",
				Help: "Total number of package validation requests by outcome",
			},
			[]string{"outcome"},
		)

		convertRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "maec_convert_requests_total",
				Help: "Total number of package conversion requests by source format, target format and outcome",
			},
			[]string{"from", "to", "outcome"},
		)

		requestDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "maec_request_duration_seconds",
				Help:    "Duration of package API operations in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1.0},
			},
			[]string{"operation"},
		)

		refIssuesPerPackage = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "maec_ref_issues_per_package",
				Help:    "Distribution of dangling reference counts per validated package",
				Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100},
			},
		)
	})
}

// RecordValidate records a validation request.
// outcome: "valid", "invalid", "decode_error", "bad_request"
func RecordValidate(outcome string) {
	if validateRequestsTotal != nil {
		validateRequestsTotal.WithLabelValues(outcome).Inc()
	}
}

// RecordConvert records a conversion request.
// outcome: "success", "decode_error", "encode_error", "bad_request"
func RecordConvert(from, to, outcome string) {
	if convertRequestsTotal != nil {
		convertRequestsTotal.WithLabelValues(from, to, outcome).Inc()
	}
}

// RecordRefIssues records the number of dangling references in a package.
func RecordRefIssues(count int) {
	if refIssuesPerPackage != nil {
		refIssuesPerPackage.Observe(float64(count))
	}
}

// OpTimer is a helper for timing API operations
type OpTimer struct {
	operation string
	start     time.Time
}

// StartTimer creates a new timer for the named operation
func StartTimer(operation string) *OpTimer {
	return &OpTimer{operation: operation, start: time.Now()}
}

// ObserveDuration records the elapsed time since the timer started
func (t *OpTimer) ObserveDuration() {
	if t != nil && requestDuration != nil {
		requestDuration.WithLabelValues(t.operation).Observe(time.Since(t.start).Seconds())
	}
}
