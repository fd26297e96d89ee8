package diag

import "context"

// NullSink implements Sink by discarding every event. Safe for concurrent
// use; zero overhead.
type NullSink struct{}

// Null returns a Sink that discards everything, the default when no
// diagnostics sink is configured.
func Null() *NullSink { return &NullSink{} }

func (n *NullSink) Emit(Event) {}

func (n *NullSink) EmitBatch(context.Context, []Event) error { return nil }

func (n *NullSink) Flush(context.Context) error { return nil }
