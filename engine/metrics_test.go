package engine

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNewMetricsNilRegistryIsInert(t *testing.T) {
	m := NewMetrics(nil)
	if m.enabled {
		t.Fatalf("expected inert metrics to be disabled")
	}

	// None of these should panic despite no underlying collectors.
	m.observeRecompute("routes")
	m.observeCompute("routes")
	m.observeCancel("routes")
	m.observeIteration(1, true)
	m.observeIteration(2, false)
	m.observeIterationLatency(5 * time.Millisecond)

	var nilMetrics *Metrics
	nilMetrics.observeRecompute("routes")
	nilMetrics.observeIterationLatency(time.Millisecond)
}

func TestNewMetricsRegistersAndRecords(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewMetrics(registry)
	if !m.enabled {
		t.Fatalf("expected metrics backed by a registry to be enabled")
	}

	m.observeRecompute("routes")
	m.observeRecompute("routes")
	m.observeCompute("forwarding_table")
	m.observeCancel("routes")
	m.observeIteration(5, true)
	m.observeIteration(6, false)
	m.observeIterationLatency(2 * time.Millisecond)

	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}

	found := map[string]bool{}
	for _, f := range families {
		found[f.GetName()] = true
	}
	for _, name := range []string{
		"incproc_node_recomputes_total",
		"incproc_node_computes_total",
		"incproc_node_cancels_total",
		"incproc_iterations_total",
		"incproc_last_iteration",
		"incproc_iteration_latency_ms",
	} {
		if !found[name] {
			t.Errorf("expected metric family %q to be registered, families: %v", name, found)
		}
	}
}
