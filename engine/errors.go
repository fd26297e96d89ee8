// Package engine implements the incremental processing engine: a node DAG,
// a per-iteration scheduler, change-handler dispatch with fallback to full
// recompute, force-recompute, cancellation, and a public inspection API.
package engine

import (
	"errors"
	"fmt"
)

// Construction-time errors. These are returned by AddNode/AddInput and never
// leave the DAG partially mutated: on error, the attempted edge or node is
// simply not added.
var (
	// ErrDuplicateNode is returned when AddNode is called with a name already
	// registered on this engine.
	ErrDuplicateNode = errors.New("engine: node name already registered")

	// ErrMissingRun is returned when AddNode is called without a Run function;
	// Run is the only required lifecycle callback.
	ErrMissingRun = errors.New("engine: node requires a run function")

	// ErrUnknownNode is returned when a name passed to RunFrom or Node does
	// not refer to a registered node.
	ErrUnknownNode = errors.New("engine: no node registered with that name")

	// ErrUnknownInput is returned by GetInput/GetInputData when the named
	// node is not among the queried node's declared inputs.
	ErrUnknownInput = errors.New("engine: name is not a declared input of this node")

	// ErrDuplicateInput is returned when AddInput is called twice for the
	// same (dependent, input) pair.
	ErrDuplicateInput = errors.New("engine: input already attached to this node")

	// ErrTooManyInputs is returned when AddInput would exceed MaxInputs.
	ErrTooManyInputs = errors.New("engine: node already has the maximum number of inputs")

	// ErrCycle is returned when AddInput would make the input graph cyclic.
	ErrCycle = errors.New("engine: adding this input would create a cycle")

	// ErrDAGFrozen is returned by AddNode/AddInput once Init has been called;
	// the DAG may only be constructed before the first iteration.
	ErrDAGFrozen = errors.New("engine: DAG is frozen after Init")

	// ErrSecondaryIndexLimit reports a descriptor declaring more than
	// MaxSecondaryIndexes secondary indexes. No function in this module
	// returns it: store.TableDescriptor.Validate returns
	// store.ErrTooManySecondaryIndexes instead.
	ErrSecondaryIndexLimit = errors.New("engine: too many secondary indexes")
)

// Lifecycle errors, covering the UNINITIALIZED -> INITIALIZED -> CLEANED
// phases of the global engine state machine (spec.md section 3).
var (
	// ErrNotInitialized is returned by Run/RunFrom/Cleanup when Init has not
	// yet been called.
	ErrNotInitialized = errors.New("engine: Init has not been called")

	// ErrAlreadyInitialized is returned when Init is called more than once.
	ErrAlreadyInitialized = errors.New("engine: already initialized")

	// ErrAlreadyCleaned is returned when Cleanup is called more than once.
	ErrAlreadyCleaned = errors.New("engine: already cleaned up")
)

// ErrCanceled is returned by Run/RunFrom when the iteration was abandoned
// because a node needed to recompute and recomputeAllowed was false. The
// force-recompute flag remains set for the next iteration; Canceled()
// reports true until the next Run/RunFrom call on the initialized engine
// finishes without canceling.
var ErrCanceled = errors.New("engine: iteration canceled, recompute required but not allowed")

// errIterationCanceled is the internal plumbing sentinel used to unwind the
// recursive driver once a node has been marked CANCELED. It never escapes
// RunFrom; callers only ever observe ErrCanceled.
var errIterationCanceled = errors.New("engine: internal iteration-canceled signal")

// NodeError wraps an error returned by a node's Run, init, or change
// handler. The engine does not interpret node runtime errors (spec.md
// section 7); it only attributes them to the node that produced them.
type NodeError struct {
	NodeID string
	Cause  error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("engine: node %q: %v", e.NodeID, e.Cause)
}

func (e *NodeError) Unwrap() error { return e.Cause }

func wrapNode(sentinel error, name string) error {
	return fmt.Errorf("%w: %s", sentinel, name)
}

func wrapf(sentinel error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))
}
