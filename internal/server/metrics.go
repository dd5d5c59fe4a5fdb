package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tartampluch/go-age-calculator/internal/config"
	"github.com/tartampluch/go-age-calculator/internal/engine"
)

// Metrics holds the Prometheus collectors of the web surface.
// Each instance owns its registry so several servers can coexist in tests.
type Metrics struct {
	registry *prometheus.Registry

	Calculations   *prometheus.CounterVec
	Rejections     *prometheus.CounterVec
	RequestLatency *prometheus.HistogramVec
}

// NewMetrics creates and registers all collectors, plus the Go runtime ones.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		Calculations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: config.MetricsNamespace,
			Name:      config.MetricCalculations,
			Help:      "Total number of ages calculated, labeled by algorithm",
		}, []string{config.MetricLabelAlgo}),
		Rejections: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: config.MetricsNamespace,
			Name:      config.MetricRejections,
			Help:      "Total number of rejected fields, labeled by field",
		}, []string{config.MetricLabelField}),
		RequestLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: config.MetricsNamespace,
			Name:      config.MetricLatency,
			Help:      "Latency of HTTP requests in seconds, labeled by route pattern",
			Buckets:   prometheus.DefBuckets,
		}, []string{config.MetricLabelRoute}),
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) observeCalculation(algo engine.Algorithm) {
	if m == nil {
		return
	}
	if algo == "" {
		algo = engine.AlgorithmCalendar
	}
	m.Calculations.WithLabelValues(string(algo)).Inc()
}

func (m *Metrics) observeRejection(res engine.ValidationResult) {
	if m == nil {
		return
	}
	for field := range res.Fields() {
		m.Rejections.WithLabelValues(field).Inc()
	}
}

func (m *Metrics) observeLatency(route string, seconds float64) {
	if m == nil {
		return
	}
	m.RequestLatency.WithLabelValues(route).Observe(seconds)
}
