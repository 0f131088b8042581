// Package binding adapts a store's three public primitives (Dispatch, a
// consistent State read, and the Subscribe change signal) into the
// building blocks two-way UI bindings are made of. Nothing here touches
// store internals.
package binding

import (
	"context"

	"github.com/on-the-ground/reduct_ive_go/store"
)

// Binding is a read/write view of one field of a store's state.
type Binding[V any] struct {
	get func() V
	set func(ctx context.Context, value V)
}

// Field builds a Binding from a projection of the state and a generator
// turning a new field value into the action that applies it.
func Field[S, A, V any](
	st *store.Store[S, A],
	read func(S) V,
	action func(V) A,
) Binding[V] {
	return Binding[V]{
		get: func() V { return read(st.State()) },
		set: func(ctx context.Context, value V) {
			st.Dispatch(ctx, action(value))
		},
	}
}

// Get reads the field from a point-in-time state snapshot.
func (b Binding[V]) Get() V { return b.get() }

// Set dispatches the field-update action for value.
func (b Binding[V]) Set(ctx context.Context, value V) { b.set(ctx, value) }
