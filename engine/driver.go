package engine

import (
	"fmt"
	"time"

	"github.com/flowplane/incproc/engine/diag"
)

// phase is the engine-wide lifecycle state (spec section 3).
type phase int

const (
	phaseUninitialized phase = iota
	phaseInitialized
	phaseCleaned
)

// Engine owns a node DAG and drives it, one iteration at a time. An Engine
// is not safe for concurrent use: it is, by design, a strictly
// single-threaded, cooperative scheduler (section 5) with no internal
// goroutines or timers.
type Engine struct {
	nodes map[string]*Node
	order []*Node

	phase phase
	ctx   Context

	forceRecompute bool
	hasRun         bool
	hasUpdated     bool
	canceled       bool

	wake    func()
	metrics *Metrics
	diag    diag.Sink

	// iteration is the 1-indexed count of RunFrom calls so far, surfaced on
	// every diagnostics event.
	iteration int

	// per-iteration scratch state.
	visited          map[string]bool
	recomputeAllowed bool
	forceThisIter    bool
}

// New constructs an empty Engine. Nodes and edges are added with AddNode and
// (*Node).AddInput until Init is called, at which point the DAG is frozen.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		nodes: make(map[string]*Node),
		wake:  func() {},
	}
	e.metrics = NewMetrics(nil)
	e.diag = diag.Null()
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// AddNode registers a new node. run is required; init and cleanup may be
// nil. AddNode fails once the DAG has been frozen by Init.
func (e *Engine) AddNode(name string, init InitFunc, run RunFunc, cleanup CleanupFunc, opts ...NodeOption) (*Node, error) {
	if e.phase != phaseUninitialized {
		return nil, ErrDAGFrozen
	}
	if run == nil {
		return nil, wrapNode(ErrMissingRun, name)
	}
	if _, exists := e.nodes[name]; exists {
		return nil, wrapNode(ErrDuplicateNode, name)
	}
	n := &Node{
		name:    name,
		init:    init,
		run:     run,
		cleanup: cleanup,
		state:   StateStale,
	}
	for _, opt := range opts {
		opt(n)
	}
	e.nodes[name] = n
	e.order = append(e.order, n)
	return n, nil
}

// Node looks up a previously registered node by name.
func (e *Engine) Node(name string) (*Node, error) {
	n, ok := e.nodes[name]
	if !ok {
		return nil, wrapNode(ErrUnknownNode, name)
	}
	return n, nil
}

// Sinks returns the names of nodes that are not an input of any other node,
// i.e. the natural roots to pass to Run.
func (e *Engine) Sinks() []string {
	isInput := make(map[string]bool, len(e.order))
	for _, n := range e.order {
		for _, in := range n.inputs {
			isInput[in.Node.name] = true
		}
	}
	sinks := make([]string, 0, len(e.order))
	for _, n := range e.order {
		if !isInput[n.name] {
			sinks = append(sinks, n.name)
		}
	}
	return sinks
}

// Init freezes the DAG and invokes every node's init callback, in insertion
// order, with arg. It may be called exactly once.
func (e *Engine) Init(arg any) error {
	if e.phase != phaseUninitialized {
		return ErrAlreadyInitialized
	}
	for _, n := range e.order {
		n.frozen = true
	}
	for _, n := range e.order {
		if n.init == nil {
			continue
		}
		data, err := n.init(arg)
		if err != nil {
			return &NodeError{NodeID: n.name, Cause: err}
		}
		n.data = data
	}
	e.phase = phaseInitialized
	return nil
}

// Cleanup invokes every node's cleanup callback, in insertion order. It may
// be called exactly once, after Init.
func (e *Engine) Cleanup() error {
	if e.phase == phaseUninitialized {
		return ErrNotInitialized
	}
	if e.phase == phaseCleaned {
		return ErrAlreadyCleaned
	}
	for _, n := range e.order {
		if n.cleanup != nil {
			n.cleanup(n.data)
		}
		n.data = nil
	}
	e.phase = phaseCleaned
	return nil
}

// SetContext replaces the per-iteration context handed to run callbacks and
// change handlers.
func (e *Engine) SetContext(ctx Context) { e.ctx = ctx }

// GetContext returns the current per-iteration context.
func (e *Engine) GetContext() Context { return e.ctx }

// HasRun reports whether the most recent iteration reached at least one
// node. It is false immediately after a canceled iteration.
func (e *Engine) HasRun() bool { return e.hasRun }

// HasUpdated reports whether any node reached StateUpdated during the most
// recent iteration.
func (e *Engine) HasUpdated() bool { return e.hasUpdated }

// Canceled reports whether the most recent iteration was abandoned because
// a recompute was required but not allowed.
func (e *Engine) Canceled() bool { return e.canceled }

// Run drives one iteration from every sink node (every node that is not an
// input of another node). recomputeAllowed gates whether a node that needs
// to recompute is actually allowed to: if false and a recompute is
// required, the iteration is canceled and ErrCanceled is returned.
func (e *Engine) Run(recomputeAllowed bool) error {
	return e.RunFrom(e.Sinks(), recomputeAllowed)
}

// RunFrom drives one iteration from the given root node names (typically a
// subset of sinks, or a single dummy aggregator root).
func (e *Engine) RunFrom(roots []string, recomputeAllowed bool) error {
	if e.phase != phaseInitialized {
		return ErrNotInitialized
	}

	e.iteration++
	for _, n := range e.order {
		n.clearTrackedData()
	}

	e.hasRun = false
	e.hasUpdated = false
	e.canceled = false
	e.recomputeAllowed = recomputeAllowed
	e.forceThisIter = e.forceRecompute
	e.visited = make(map[string]bool, len(e.order))

	start := time.Now()
	var resultErr error
	for _, rootName := range roots {
		root, ok := e.nodes[rootName]
		if !ok {
			return wrapNode(ErrUnknownNode, rootName)
		}
		if err := e.visit(root); err != nil {
			if err == errIterationCanceled {
				resultErr = ErrCanceled
				continue
			}
			return err
		}
	}

	if resultErr != nil {
		e.hasRun = false
		e.canceled = true
		e.metrics.observeIteration(e.iteration, false)
		e.metrics.observeIterationLatency(time.Since(start))
		return resultErr
	}

	e.hasRun = len(e.visited) > 0
	for name := range e.visited {
		if e.nodes[name].state == StateUpdated {
			e.hasUpdated = true
			break
		}
	}
	if e.forceThisIter {
		e.forceRecompute = false
	}
	e.metrics.observeIteration(e.iteration, true)
	e.metrics.observeIterationLatency(time.Since(start))
	return nil
}

// visit evaluates n after first evaluating all of its inputs, post-order,
// memoized per iteration so a diamond-shaped DAG evaluates each node once.
// Every input is visited even once one has already reported cancellation,
// so that every not-yet-visited node whose sub-DAG includes the canceled
// node is reached and itself marked CANCELED (spec section 4.D.2), rather
// than the walk aborting at the first canceled branch and leaving siblings
// (or other roots sharing the same ancestor) holding stale prior-iteration
// state.
func (e *Engine) visit(n *Node) error {
	if e.visited[n.name] {
		if n.state == StateCanceled {
			return errIterationCanceled
		}
		return nil
	}
	e.visited[n.name] = true

	canceledInput := false
	for _, in := range n.inputs {
		if err := e.visit(in.Node); err != nil {
			if err != errIterationCanceled {
				return err
			}
			canceledInput = true
		}
	}
	if canceledInput {
		n.state = StateCanceled
		n.stats.Cancel++
		return errIterationCanceled
	}

	return e.evaluateNode(n)
}

// evaluateNode runs the change-handler dispatch algorithm (section 4.E) for
// a single node, assuming all of its inputs have already been evaluated
// this iteration.
func (e *Engine) evaluateNode(n *Node) error {
	e.diag.Emit(diag.Event{Iteration: e.iteration, NodeID: n.name, Msg: "evaluate_start"})
	if len(n.inputs) == 0 {
		return e.recompute(n)
	}
	if e.forceThisIter {
		return e.recompute(n)
	}

	verdict := StateUnchanged
	for i := range n.inputs {
		in := &n.inputs[i]
		if in.Node.state != StateUpdated {
			continue
		}
		if in.Handler == nil {
			return e.recompute(n)
		}
		r, err := in.Handler(e.ctx, n)
		if err != nil {
			return &NodeError{NodeID: n.name, Cause: err}
		}
		switch r {
		case Unhandled:
			if in.OnFailure != nil {
				in.OnFailure(e.ctx, n)
			}
			e.diag.Emit(diag.Event{Iteration: e.iteration, NodeID: n.name, Input: in.Node.name, Msg: "failure_info"})
			return e.recompute(n)
		case HandledUpdated:
			verdict = StateUpdated
		case HandledUnchanged:
			// leaves verdict as-is.
		}
	}
	n.state = verdict
	n.stats.Compute++
	e.metrics.observeCompute(n.name)
	e.diag.Emit(diag.Event{Iteration: e.iteration, NodeID: n.name, Msg: "compute", Meta: map[string]any{"state": n.state.String()}})
	return nil
}

// recompute invokes n's run callback, or cancels the iteration if
// recompute is required but not allowed.
func (e *Engine) recompute(n *Node) error {
	if !e.recomputeAllowed {
		n.state = StateCanceled
		n.stats.Cancel++
		e.metrics.observeCancel(n.name)
		e.diag.Emit(diag.Event{Iteration: e.iteration, NodeID: n.name, Msg: "cancel"})
		return errIterationCanceled
	}
	s, err := n.run(e.ctx, n)
	if err != nil {
		return &NodeError{NodeID: n.name, Cause: err}
	}
	if s != StateUpdated && s != StateUnchanged {
		return &NodeError{NodeID: n.name, Cause: fmt.Errorf("run returned invalid state %v", s)}
	}
	n.state = s
	n.stats.Recompute++
	e.metrics.observeRecompute(n.name)
	e.diag.Emit(diag.Event{Iteration: e.iteration, NodeID: n.name, Msg: "recompute", Meta: map[string]any{"state": n.state.String()}})
	return nil
}
