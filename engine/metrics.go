package engine

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics exposes Prometheus counters, a gauge, and a latency histogram for
// engine activity: per-node recompute/compute/cancel totals,
// completed/canceled iteration totals, the most recent iteration number,
// and iteration wall-clock duration. All metrics are namespaced "incproc".
type Metrics struct {
	recomputes       *prometheus.CounterVec
	computes         *prometheus.CounterVec
	cancels          *prometheus.CounterVec
	iterationsTotal  *prometheus.CounterVec
	lastIteration    prometheus.Gauge
	iterationLatency prometheus.Histogram
	enabled          bool
}

// NewMetrics registers every metric with registry and returns the recorder.
// Pass nil to get an inert recorder that registers and tracks nothing,
// useful when no registry is configured.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		return &Metrics{enabled: false}
	}

	factory := promauto.With(registry)
	m := &Metrics{enabled: true}

	m.recomputes = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "incproc",
		Name:      "node_recomputes_total",
		Help:      "Cumulative count of full recomputes per node.",
	}, []string{"node"})

	m.computes = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "incproc",
		Name:      "node_computes_total",
		Help:      "Cumulative count of dispatch-only evaluations (no recompute) per node.",
	}, []string{"node"})

	m.cancels = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "incproc",
		Name:      "node_cancels_total",
		Help:      "Cumulative count of cancellations per node.",
	}, []string{"node"})

	m.iterationsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "incproc",
		Name:      "iterations_total",
		Help:      "Cumulative count of driver iterations, labeled by outcome.",
	}, []string{"outcome"}) // outcome: completed, canceled

	m.lastIteration = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: "incproc",
		Name:      "last_iteration",
		Help:      "The most recently started iteration number.",
	})

	m.iterationLatency = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: "incproc",
		Name:      "iteration_latency_ms",
		Help:      "Wall-clock duration of a single RunFrom iteration, in milliseconds.",
		Buckets:   []float64{0.1, 0.5, 1, 5, 10, 50, 100, 500, 1000, 5000},
	})

	return m
}

func (m *Metrics) observeRecompute(node string) {
	if m == nil || !m.enabled {
		return
	}
	m.recomputes.WithLabelValues(node).Inc()
}

func (m *Metrics) observeCompute(node string) {
	if m == nil || !m.enabled {
		return
	}
	m.computes.WithLabelValues(node).Inc()
}

func (m *Metrics) observeCancel(node string) {
	if m == nil || !m.enabled {
		return
	}
	m.cancels.WithLabelValues(node).Inc()
}

func (m *Metrics) observeIteration(iteration int, completed bool) {
	if m == nil || !m.enabled {
		return
	}
	m.lastIteration.Set(float64(iteration))
	outcome := "completed"
	if !completed {
		outcome = "canceled"
	}
	m.iterationsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) observeIterationLatency(d time.Duration) {
	if m == nil || !m.enabled {
		return
	}
	m.iterationLatency.Observe(float64(d.Microseconds()) / 1000)
}
