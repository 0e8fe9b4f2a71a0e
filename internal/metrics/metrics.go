package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus metrics for eligibility queries and transitions.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry        *prometheus.Registry
	ReportsTotal    prometheus.Counter
	ReportLatency   prometheus.Histogram
	Transitions     *prometheus.CounterVec
	GraphLoadsTotal *prometheus.CounterVec
}

// New creates the metrics on a dedicated registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,
		ReportsTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "syllabus_eligibility_reports_total",
			Help: "Total number of eligibility reports resolved",
		}),
		ReportLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "syllabus_eligibility_report_duration_seconds",
			Help:    "Duration of building an eligibility report, including the progress read",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		}),
		Transitions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "syllabus_transitions_total",
			Help: "Requested subject state transitions by outcome",
		}, []string{"outcome"}),
		GraphLoadsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "syllabus_graph_loads_total",
			Help: "Degree graph loads by result",
		}, []string{"result"}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveReport counts one resolved eligibility report and its duration.
func (m *Metrics) ObserveReport(d time.Duration) {
	if m == nil {
		return
	}
	m.ReportsTotal.Inc()
	m.ReportLatency.Observe(d.Seconds())
}

// ObserveTransition counts one transition request with the given outcome.
func (m *Metrics) ObserveTransition(outcome string) {
	if m == nil {
		return
	}
	m.Transitions.WithLabelValues(outcome).Inc()
}

// ObserveGraphLoad counts one graph load; ok is false when validation failed.
func (m *Metrics) ObserveGraphLoad(ok bool) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "invalid"
	}
	m.GraphLoadsTotal.WithLabelValues(result).Inc()
}
