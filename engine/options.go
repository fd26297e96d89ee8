package engine

import "github.com/flowplane/incproc/engine/diag"

// Option configures an Engine at construction time.
type Option func(*Engine) error

// WithDiagnostics attaches a diagnostics sink that receives a structured
// Event at node-evaluation start/end, at cancellation, and at every
// failure-info invocation. The default is diag.Null(), which discards
// everything.
func WithDiagnostics(sink diag.Sink) Option {
	return func(e *Engine) error {
		if sink == nil {
			sink = diag.Null()
		}
		e.diag = sink
		return nil
	}
}

// WithMetrics attaches a Prometheus metrics recorder. The default is a
// recorder that is never registered with a registry and so is inert.
func WithMetrics(m *Metrics) Option {
	return func(e *Engine) error {
		if m == nil {
			m = NewMetrics(nil)
		}
		e.metrics = m
		return nil
	}
}

// WithWakeFunc installs the function invoked by SetForceRecomputeImmediate.
// The default is a no-op, so an engine driven purely by a caller's own poll
// loop needs no wake signal at all.
func WithWakeFunc(fn func()) Option {
	return func(e *Engine) error {
		if fn == nil {
			fn = func() {}
		}
		e.wake = fn
		return nil
	}
}
