package engine

// GetInput returns the input node of n named name, or ErrUnknownInput if
// name was never declared as an input of n.
func (e *Engine) GetInput(n *Node, name string) (*Node, error) {
	for _, in := range n.inputs {
		if in.Node.name == name {
			return in.Node, nil
		}
	}
	return nil, wrapf(ErrUnknownInput, "%s is not an input of %s", name, n.name)
}

// GetInputData is GetInput followed by GetData on the result.
func (e *Engine) GetInputData(n *Node, name string) (any, error) {
	in, err := e.GetInput(n, name)
	if err != nil {
		return nil, err
	}
	return e.GetData(in), nil
}

// NodeChanged reports whether n ended the most recent iteration in state
// UPDATED.
func (e *Engine) NodeChanged(n *Node) bool { return n.state == StateUpdated }

// GetData returns n's current data if it is safe to read: the node reached
// UPDATED or UNCHANGED this iteration, or its IsValidFunc (if any) confirms
// the stale data is still usable. Otherwise it returns nil.
func (e *Engine) GetData(n *Node) any {
	switch n.state {
	case StateUpdated, StateUnchanged:
		return n.data
	}
	if n.isValid != nil && n.isValid(n.data) {
		return n.data
	}
	return nil
}

// GetInternalData returns n's data pointer unconditionally, bypassing the
// state/validity check GetData performs. Intended for a node's own run
// callback to read its previous output, not for dependents.
func (e *Engine) GetInternalData(n *Node) any { return n.data }

// NeedRun reports whether the engine has outstanding work: a force-recompute
// is pending, or the most recent iteration was canceled.
func (e *Engine) NeedRun() bool { return e.forceRecompute || e.canceled }
