// Package store provides a minimal external-database subscription contract
// for source nodes: a way to ask "has anything changed since I last
// looked" without the engine itself importing a database driver. The
// engine's core package never imports store; these types exist purely so a
// source node's Run callback has something concrete to call.
package store

import (
	"context"
	"errors"
)

// ErrTooManySecondaryIndexes is returned by TableDescriptor.Validate (and so
// by the subscription constructors) for a descriptor that declares more than
// the engine's documented per-table secondary index limit.
var ErrTooManySecondaryIndexes = errors.New("store: too many secondary indexes")

// MaxSecondaryIndexes mirrors engine.MaxSecondaryIndexes; duplicated here
// (rather than imported) so this package has no dependency on the engine
// core, matching spec section 6's requirement that the external database
// client only ever appears through interfaces.
const MaxSecondaryIndexes = 256

// Subscription is the contract a source node's Run callback uses to decide
// whether it needs to recompute: Poll reports whether the underlying table
// has advanced since the previous call.
type Subscription interface {
	// Poll reports whether the watched data changed since the last call to
	// Poll (the first call always reports true, establishing a baseline).
	Poll(ctx context.Context) (changed bool, err error)

	// Close releases the subscription's underlying connection.
	Close() error
}

// TableDescriptor names the table a Subscription watches and, optionally,
// the secondary indexes a caller intends to query it by. The engine never
// builds these indexes; this is bookkeeping for the demo backends.
type TableDescriptor struct {
	Table            string
	SecondaryIndexes []string
}

// Validate checks the descriptor against the engine's documented limits.
func (d TableDescriptor) Validate() error {
	if len(d.SecondaryIndexes) > MaxSecondaryIndexes {
		return ErrTooManySecondaryIndexes
	}
	return nil
}
