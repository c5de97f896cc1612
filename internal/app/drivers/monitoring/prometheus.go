package monitoring

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hicm_http_requests_total",
			Help: "Total number of inbound HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hicm_http_request_duration_seconds",
			Help:    "Duration of inbound HTTP requests",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "route"},
	)

	BackendRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hicm_backend_requests_total",
			Help: "Total number of outbound calls to the HICM backend",
		},
		[]string{"operation", "status"},
	)

	BackendRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hicm_backend_request_duration_seconds",
			Help:    "Duration of outbound calls to the HICM backend",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 15},
		},
		[]string{"operation"},
	)

	AutosaveCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hicm_autosave_total",
			Help: "Debounced draft persists by result",
		},
		[]string{"result"},
	)

	SubmissionCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hicm_submissions_total",
			Help: "Lock transitions by kind and classified outcome",
		},
		[]string{"kind", "outcome"},
	)

	OpenWorkspaces = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "hicm_open_workspaces",
			Help: "Number of workspaces currently held in memory",
		},
	)

	registerOnce sync.Once
)

// Init registers the collectors with the default registry. Safe to call more
// than once.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			HTTPRequestCounter,
			HTTPRequestDuration,
			BackendRequestCounter,
			BackendRequestDuration,
			AutosaveCounter,
			SubmissionCounter,
			OpenWorkspaces,
		)
	})
}

func Handler() http.Handler {
	return promhttp.Handler()
}
