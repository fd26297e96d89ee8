package engine

import (
	"errors"
	"testing"
)

func TestInitInvokesNodeInitWithArg(t *testing.T) {
	e, _ := New()
	var gotArg any
	e.AddNode("a", func(arg any) (any, error) {
		gotArg = arg
		return "initial", nil
	}, noopRun, nil)

	if err := e.Init("config"); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if gotArg != "config" {
		t.Fatalf("expected init arg 'config', got %v", gotArg)
	}
}

func TestInitCannotBeCalledTwice(t *testing.T) {
	e, _ := New()
	e.AddNode("a", nil, noopRun, nil)
	if err := e.Init(nil); err != nil {
		t.Fatal(err)
	}
	if err := e.Init(nil); !errors.Is(err, ErrAlreadyInitialized) {
		t.Fatalf("expected ErrAlreadyInitialized, got %v", err)
	}
}

func TestRunBeforeInitFails(t *testing.T) {
	e, _ := New()
	e.AddNode("a", nil, noopRun, nil)
	if err := e.Run(true); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
}

func TestCleanupInvokesEveryNodeOnce(t *testing.T) {
	e, _ := New()
	var cleanedUp []string
	e.AddNode("a", func(any) (any, error) { return "a-data", nil }, noopRun,
		func(data any) { cleanedUp = append(cleanedUp, data.(string)) })
	e.AddNode("b", func(any) (any, error) { return "b-data", nil }, noopRun,
		func(data any) { cleanedUp = append(cleanedUp, data.(string)) })

	if err := e.Init(nil); err != nil {
		t.Fatal(err)
	}
	if err := e.Cleanup(); err != nil {
		t.Fatalf("Cleanup: %v", err)
	}
	if len(cleanedUp) != 2 {
		t.Fatalf("expected 2 cleanups, got %v", cleanedUp)
	}
	if err := e.Cleanup(); !errors.Is(err, ErrAlreadyCleaned) {
		t.Fatalf("expected ErrAlreadyCleaned, got %v", err)
	}
}

func TestCleanupBeforeInitFails(t *testing.T) {
	e, _ := New()
	if err := e.Cleanup(); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
}

func TestNodeRuntimeErrorWrapsNodeID(t *testing.T) {
	e, _ := New()
	sentinel := errors.New("boom")
	e.AddNode("broken", nil, func(_ Context, _ *Node) (State, error) {
		return StateStale, sentinel
	}, nil)

	if err := e.Init(nil); err != nil {
		t.Fatal(err)
	}
	err := e.Run(true)
	var nodeErr *NodeError
	if !errors.As(err, &nodeErr) {
		t.Fatalf("expected *NodeError, got %v", err)
	}
	if nodeErr.NodeID != "broken" {
		t.Fatalf("expected NodeID 'broken', got %q", nodeErr.NodeID)
	}
	if !errors.Is(err, sentinel) {
		t.Fatal("expected wrapped sentinel to unwrap via errors.Is")
	}
}
