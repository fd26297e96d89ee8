package engine

// MaxInputs is the maximum number of inputs a single node may declare.
// Matches spec section 6's documented limit.
const MaxInputs = 256

// MaxSecondaryIndexes bounds the number of secondary indexes a store
// descriptor may declare (section 6). The engine itself never builds an
// index and nothing in this package checks against this constant; the
// store package validates descriptors against its own copy,
// store.MaxSecondaryIndexes.
const MaxSecondaryIndexes = 256

// InitFunc initializes a node's opaque data given a caller-supplied
// argument, common to every node in the engine (passed to Engine.Init).
type InitFunc func(arg any) (any, error)

// RunFunc recomputes a node's data from scratch: for a source node (no
// inputs) it also consults whatever external signal the node is built
// around and decides whether anything changed.
type RunFunc func(ctx Context, n *Node) (State, error)

// CleanupFunc releases whatever a node's init/run allocated. Called exactly
// once, by Engine.Cleanup.
type CleanupFunc func(data any)

// IsValidFunc reports whether a node's current data may still be read by a
// dependent even though the node itself has not run this iteration (used by
// GetData for nodes in state STALE or CANCELED).
type IsValidFunc func(data any) bool

// ClearTrackedFunc clears whatever incremental delta a node accumulated
// during the previous iteration, invoked once per iteration before
// evaluation begins. Nodes with no meaningful tracked-change data simply
// omit it.
type ClearTrackedFunc func(data any)

// ChangeHandler inspects a dependent node given that one of its inputs
// changed, and reports whether it could absorb the change without a full
// recompute.
type ChangeHandler func(ctx Context, n *Node) (Verdict, error)

// FailureInfoFunc is invoked when a change handler returns Unhandled,
// letting a node record (or log) why it fell back to a full recompute.
type FailureInfoFunc func(ctx Context, n *Node)

// Input is one declared dependency of a node: the upstream node, an
// optional change handler to try before falling back to full recompute, and
// an optional failure-info hook invoked when the handler can't help.
type Input struct {
	Node      *Node
	Handler   ChangeHandler
	OnFailure FailureInfoFunc
}

// Node is one vertex of the engine's DAG. Nodes are constructed exclusively
// through Engine.AddNode and never removed once added.
type Node struct {
	name   string
	inputs []Input

	init    InitFunc
	run     RunFunc
	cleanup CleanupFunc

	isValid      IsValidFunc
	clearTracked ClearTrackedFunc

	data   any
	state  State
	stats  Stats
	frozen bool
}

// NodeOption configures optional hooks at AddNode time.
type NodeOption func(*Node)

// WithIsValid attaches an IsValidFunc to a node.
func WithIsValid(fn IsValidFunc) NodeOption {
	return func(n *Node) { n.isValid = fn }
}

// WithClearTrackedData attaches a ClearTrackedFunc to a node.
func WithClearTrackedData(fn ClearTrackedFunc) NodeOption {
	return func(n *Node) { n.clearTracked = fn }
}

// Name returns the node's registered identifier.
func (n *Node) Name() string { return n.name }

// State returns the node's state as of the last iteration that reached it.
func (n *Node) State() State { return n.state }

// Stats returns a snapshot of the node's recompute/compute/cancel counters.
func (n *Node) Stats() Stats { return n.stats }

// Inputs returns the node's declared inputs in insertion order. The
// returned slice must not be mutated.
func (n *Node) Inputs() []Input { return n.inputs }

func (n *Node) clearTrackedData() {
	if n.clearTracked != nil {
		n.clearTracked(n.data)
	}
}

// AddInput declares that n depends on input, with an optional change
// handler tried before falling back to a full recompute of n. It fails if
// input is already one of n's inputs, if n already has MaxInputs inputs, if
// the edge would create a cycle, or if the DAG has already been frozen by
// Init.
func (n *Node) AddInput(input *Node, handler ChangeHandler) error {
	return n.addInput(input, handler, nil)
}

// AddInputWithFailureInfo is AddInput plus a failure-info hook invoked
// whenever handler returns Unhandled, just before the fallback to full
// recompute. An updated input with no handler recomputes n without calling
// the hook.
func (n *Node) AddInputWithFailureInfo(input *Node, handler ChangeHandler, onFailure FailureInfoFunc) error {
	return n.addInput(input, handler, onFailure)
}

func (n *Node) addInput(input *Node, handler ChangeHandler, onFailure FailureInfoFunc) error {
	if n.frozen {
		return ErrDAGFrozen
	}
	if len(n.inputs) >= MaxInputs {
		return wrapNode(ErrTooManyInputs, n.name)
	}
	for _, in := range n.inputs {
		if in.Node == input {
			return wrapf(ErrDuplicateInput, "%s is already an input of %s", input.name, n.name)
		}
	}
	if input == n || reaches(input, n) {
		return wrapf(ErrCycle, "adding %s as an input of %s", input.name, n.name)
	}
	n.inputs = append(n.inputs, Input{Node: input, Handler: handler, OnFailure: onFailure})
	return nil
}

// reaches reports whether target is reachable from start by following input
// edges, i.e. whether start already (transitively) depends on target. Used
// to reject an AddInput call that would close a cycle.
func reaches(start, target *Node) bool {
	if start == target {
		return true
	}
	visited := make(map[*Node]bool)
	var dfs func(*Node) bool
	dfs = func(cur *Node) bool {
		if cur == target {
			return true
		}
		if visited[cur] {
			return false
		}
		visited[cur] = true
		for _, in := range cur.inputs {
			if dfs(in.Node) {
				return true
			}
		}
		return false
	}
	return dfs(start)
}
