// Package diag provides pluggable observability for the incremental
// processing engine: a structured Event describing a single node
// evaluation, cancellation, or failure-info invocation, and a Sink
// interface with log, OpenTelemetry, no-op, and in-memory backends.
package diag

import "context"

// Event is a structured observability event emitted by the engine during
// an iteration.
type Event struct {
	// Iteration is the 1-indexed iteration number this event belongs to.
	Iteration int

	// NodeID identifies the node this event concerns. Empty for
	// iteration-level events.
	NodeID string

	// Input identifies the input node that triggered this event, when the
	// event concerns a change-handler dispatch (e.g. a failure-info
	// invocation). Empty otherwise.
	Input string

	// Msg is a short event kind: "evaluate_start", "recompute", "compute",
	// "cancel", "failure_info".
	Msg string

	// Meta carries event-specific structured data, such as the node's
	// resulting state.
	Meta map[string]any
}

// Sink receives observability events from the engine. Implementations must
// not block the calling goroutine for long, since the engine calls Emit
// synchronously from inside Run.
type Sink interface {
	// Emit sends a single event to the configured backend. Emit must not
	// panic.
	Emit(event Event)

	// EmitBatch sends multiple events in one operation.
	EmitBatch(ctx context.Context, events []Event) error

	// Flush ensures all buffered events have been sent to the backend. Safe
	// to call multiple times.
	Flush(ctx context.Context) error
}
