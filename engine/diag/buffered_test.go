package diag

import "testing"

func TestBufferedSinkHistoryOrder(t *testing.T) {
	sink := NewBufferedSink()
	sink.Emit(Event{Iteration: 1, NodeID: "a", Msg: "recompute"})
	sink.Emit(Event{Iteration: 1, NodeID: "b", Msg: "compute"})

	history := sink.History()
	if len(history) != 2 {
		t.Fatalf("expected 2 events, got %d", len(history))
	}
	if history[0].NodeID != "a" || history[1].NodeID != "b" {
		t.Fatalf("expected emission order preserved, got %+v", history)
	}
}

func TestBufferedSinkFilter(t *testing.T) {
	sink := NewBufferedSink()
	sink.Emit(Event{Iteration: 1, NodeID: "a", Msg: "recompute"})
	sink.Emit(Event{Iteration: 2, NodeID: "a", Msg: "cancel"})
	sink.Emit(Event{Iteration: 2, NodeID: "b", Msg: "cancel"})

	filtered := sink.HistoryWithFilter(HistoryFilter{NodeID: "a", Msg: "cancel"})
	if len(filtered) != 1 {
		t.Fatalf("expected 1 matching event, got %d", len(filtered))
	}

	min := 2
	byIter := sink.HistoryWithFilter(HistoryFilter{MinIter: &min})
	if len(byIter) != 2 {
		t.Fatalf("expected 2 events at iteration >= 2, got %d", len(byIter))
	}
}

func TestBufferedSinkClear(t *testing.T) {
	sink := NewBufferedSink()
	sink.Emit(Event{NodeID: "a"})
	sink.Clear()
	if len(sink.History()) != 0 {
		t.Fatal("expected empty history after Clear")
	}
}
