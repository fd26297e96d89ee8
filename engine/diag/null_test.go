package diag

import "testing"

func TestNullSinkDiscardsWithoutPanicking(t *testing.T) {
	sink := Null()
	sink.Emit(Event{NodeID: "a"})
	if err := sink.EmitBatch(nil, []Event{{NodeID: "a"}}); err != nil {
		t.Fatalf("EmitBatch: %v", err)
	}
	if err := sink.Flush(nil); err != nil {
		t.Fatalf("Flush: %v", err)
	}
}
