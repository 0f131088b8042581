package reducer

import (
	"context"

	"github.com/on-the-ground/reduct_ive_go/effect"
)

// Reducer is a unit of state-transition logic over a declared (S, A) pair.
//
// Reduce mutates state in place and optionally returns an effect describing
// asynchronous follow-up work. A nil effect means "nothing to do".
//
// Contract:
//   - Reduce is synchronous and fast: it never suspends and never blocks on
//     I/O. The owning store holds its lock for exactly the duration of one
//     Reduce call, which is only safe because of this.
//   - Reduce must not retain the state pointer beyond the call.
//   - An action the reducer does not care about is ignored: no error, no
//     panic, nil effect.
//   - ctx carries ambient values (see WithAmbient); it must not be used to
//     block.
type Reducer[S, A any] interface {
	Reduce(ctx context.Context, state *S, action A) effect.Effect[A]
}

// Func adapts a plain function into a Reducer.
type Func[S, A any] func(ctx context.Context, state *S, action A) effect.Effect[A]

func (f Func[S, A]) Reduce(ctx context.Context, state *S, action A) effect.Effect[A] {
	return f(ctx, state, action)
}

// NewEmpty returns the identity reducer: it never touches state and never
// returns an effect.
func NewEmpty[S, A any]() Reducer[S, A] {
	return emptyReducer[S, A]{}
}

type emptyReducer[S, A any] struct{}

func (emptyReducer[S, A]) Reduce(context.Context, *S, A) effect.Effect[A] { return nil }

// NewOptional wraps a possibly-absent reducer; behaves as the empty
// reducer when r is nil.
func NewOptional[S, A any](r Reducer[S, A]) Reducer[S, A] {
	if r == nil {
		return NewEmpty[S, A]()
	}
	return preserveSubstate(r, optionalReducer[S, A]{inner: r})
}

type optionalReducer[S, A any] struct {
	inner Reducer[S, A]
}

func (o optionalReducer[S, A]) Reduce(ctx context.Context, state *S, action A) effect.Effect[A] {
	return o.inner.Reduce(ctx, state, action)
}

// substate marks reducers that operate on a nested slice of state reached
// via child embedding. NewSequence always evaluates them before reducers
// operating on local state.
type substate interface {
	substateReducer()
}

type substateWrapped[S, A any] struct {
	Reducer[S, A]
}

func (substateWrapped[S, A]) substateReducer() {}

// preserveSubstate keeps the substate marker of orig visible on a
// decorator wrapped around it.
func preserveSubstate[S, A any](orig, wrapped Reducer[S, A]) Reducer[S, A] {
	if _, ok := orig.(substate); ok {
		return substateWrapped[S, A]{Reducer: wrapped}
	}
	return wrapped
}
