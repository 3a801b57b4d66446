package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/abhisek/yechim/internal/solver"
)

// Metrics are the Prometheus collectors exposed on /metrics.
type Metrics struct {
	// solves counts finished solves.
	// Labels: topic, outcome (solved, failed)
	solves *prometheus.CounterVec

	// solveDuration is the solver time per topic, excluding HTTP overhead.
	solveDuration *prometheus.HistogramVec

	// extractions counts image uploads.
	// Labels: outcome (ok, no_text, rejected, error)
	extractions *prometheus.CounterVec

	// requests counts HTTP requests by matched route.
	requests *prometheus.CounterVec
}

// NewMetrics registers the server collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		solves: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "yechim",
			Name:      "solves_total",
			Help:      "Total problems solved, by topic and outcome",
		}, []string{"topic", "outcome"}),
		solveDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "yechim",
			Name:      "solve_duration_seconds",
			Help:      "Time spent inside the solver",
			Buckets:   []float64{0.00005, 0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.05},
		}, []string{"topic"}),
		extractions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "yechim",
			Name:      "extractions_total",
			Help:      "Image uploads by extraction outcome",
		}, []string{"outcome"}),
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "yechim",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status",
		}, []string{"method", "route", "status"}),
	}
}

func (m *Metrics) observeSolve(sol solver.Solution) {
	outcome := "solved"
	if sol.Failed() {
		outcome = "failed"
	}
	m.solves.WithLabelValues(string(sol.Topic), outcome).Inc()
	m.solveDuration.WithLabelValues(string(sol.Topic)).Observe(sol.SolveTime.Seconds())
}

func (m *Metrics) observeExtraction(outcome string) {
	m.extractions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) observeRequest(method, route string, status int) {
	m.requests.WithLabelValues(method, route, statusClass(status)).Inc()
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
