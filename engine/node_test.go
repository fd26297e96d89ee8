package engine

import "testing"

func TestNodeNameReturnsRegisteredIdentifier(t *testing.T) {
	e, err := New()
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	n, err := e.AddNode("routes", nil, noopRun, nil)
	if err != nil {
		t.Fatalf("add node: %v", err)
	}
	if got := n.Name(); got != "routes" {
		t.Fatalf("expected name %q, got %q", "routes", got)
	}
}

func TestNodeInputsReturnsDeclaredInputsInOrder(t *testing.T) {
	e, err := New()
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	a, _ := e.AddNode("a", nil, noopRun, nil)
	b, _ := e.AddNode("b", nil, noopRun, nil)
	c, _ := e.AddNode("c", nil, noopRun, nil)

	if err := c.AddInput(a, nil); err != nil {
		t.Fatalf("add input a: %v", err)
	}
	if err := c.AddInput(b, nil); err != nil {
		t.Fatalf("add input b: %v", err)
	}

	inputs := c.Inputs()
	if len(inputs) != 2 {
		t.Fatalf("expected 2 inputs, got %d", len(inputs))
	}
	if inputs[0].Node != a || inputs[1].Node != b {
		t.Fatalf("expected inputs in declaration order [a, b], got [%s, %s]", inputs[0].Node.Name(), inputs[1].Node.Name())
	}
}

func TestNodeStateDefaultsToStale(t *testing.T) {
	e, err := New()
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	n, err := e.AddNode("routes", nil, noopRun, nil)
	if err != nil {
		t.Fatalf("add node: %v", err)
	}
	if got := n.State(); got != StateStale {
		t.Fatalf("expected freshly added node to be STALE, got %v", got)
	}
}
