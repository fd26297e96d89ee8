package diag

import (
	"bytes"
	"strings"
	"testing"
)

func TestLogSinkTextMode(t *testing.T) {
	var buf bytes.Buffer
	sink := NewLogSink(&buf, false)
	sink.Emit(Event{Iteration: 1, NodeID: "a", Msg: "recompute"})

	out := buf.String()
	if !strings.Contains(out, "[recompute]") || !strings.Contains(out, "node=a") {
		t.Fatalf("unexpected text output: %q", out)
	}
}

func TestLogSinkJSONMode(t *testing.T) {
	var buf bytes.Buffer
	sink := NewLogSink(&buf, true)
	sink.Emit(Event{Iteration: 2, NodeID: "b", Msg: "cancel"})

	out := buf.String()
	if !strings.Contains(out, `"nodeID":"b"`) || !strings.Contains(out, `"msg":"cancel"`) {
		t.Fatalf("unexpected json output: %q", out)
	}
}

func TestLogSinkEmitBatch(t *testing.T) {
	var buf bytes.Buffer
	sink := NewLogSink(&buf, false)
	err := sink.EmitBatch(nil, []Event{
		{NodeID: "a", Msg: "recompute"},
		{NodeID: "b", Msg: "compute"},
	})
	if err != nil {
		t.Fatalf("EmitBatch: %v", err)
	}
	if strings.Count(buf.String(), "\n") != 2 {
		t.Fatalf("expected 2 lines, got %q", buf.String())
	}
}

func TestLogSinkDefaultsWriterToStdoutWhenNil(t *testing.T) {
	sink := NewLogSink(nil, false)
	if sink.writer == nil {
		t.Fatal("expected a non-nil default writer")
	}
}
