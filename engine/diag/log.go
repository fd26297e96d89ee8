package diag

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// LogSink implements Sink by writing structured output to a writer, in
// either a human-readable text form or JSON lines.
type LogSink struct {
	writer   io.Writer
	jsonMode bool
}

// NewLogSink creates a LogSink writing to writer (os.Stdout if nil). When
// jsonMode is true, each event is written as one JSON object per line.
func NewLogSink(writer io.Writer, jsonMode bool) *LogSink {
	if writer == nil {
		writer = os.Stdout
	}
	return &LogSink{writer: writer, jsonMode: jsonMode}
}

func (l *LogSink) Emit(event Event) {
	if l.jsonMode {
		l.emitJSON(event)
	} else {
		l.emitText(event)
	}
}

func (l *LogSink) emitJSON(event Event) {
	data, err := json.Marshal(struct {
		Iteration int            `json:"iteration"`
		NodeID    string         `json:"nodeID"`
		Input     string         `json:"input,omitempty"`
		Msg       string         `json:"msg"`
		Meta      map[string]any `json:"meta,omitempty"`
	}{
		Iteration: event.Iteration,
		NodeID:    event.NodeID,
		Input:     event.Input,
		Msg:       event.Msg,
		Meta:      event.Meta,
	})
	if err != nil {
		_, _ = fmt.Fprintf(l.writer, "{\"error\":\"failed to marshal event: %v\"}\n", err)
		return
	}
	_, _ = fmt.Fprintf(l.writer, "%s\n", data)
}

func (l *LogSink) emitText(event Event) {
	_, _ = fmt.Fprintf(l.writer, "[%s] iteration=%d node=%s", event.Msg, event.Iteration, event.NodeID)
	if event.Input != "" {
		_, _ = fmt.Fprintf(l.writer, " input=%s", event.Input)
	}
	if len(event.Meta) > 0 {
		if metaJSON, err := json.Marshal(event.Meta); err == nil {
			_, _ = fmt.Fprintf(l.writer, " meta=%s", metaJSON)
		} else {
			_, _ = fmt.Fprintf(l.writer, " meta=%v", event.Meta)
		}
	}
	_, _ = fmt.Fprint(l.writer, "\n")
}

// EmitBatch writes every event in order, calling Emit once per event.
func (l *LogSink) EmitBatch(_ context.Context, events []Event) error {
	for _, event := range events {
		l.Emit(event)
	}
	return nil
}

// Flush is a no-op: LogSink writes synchronously with no internal buffer.
func (l *LogSink) Flush(_ context.Context) error { return nil }
