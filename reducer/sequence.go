package reducer

import (
	"context"

	"github.com/on-the-ground/reduct_ive_go/effect"
)

// NewSequence composes an ordered list of reducers into one.
//
// Children run strictly in order against the same state and action; each
// child observes the mutations of the previous one. Every non-nil effect
// is merged via effect.Combine in execution order.
//
// Ordering invariant: children that embed substates (NewScope, NewForEach
// and decorators around them) are evaluated before children operating on
// local state, regardless of declared order, while relative order within
// each group is preserved. Child state settles before a local reducer
// inspects it for the same action.
func NewSequence[S, A any](children ...Reducer[S, A]) Reducer[S, A] {
	ordered := make([]Reducer[S, A], 0, len(children))
	for _, child := range children {
		if child == nil {
			continue
		}
		if _, ok := child.(substate); ok {
			ordered = append(ordered, child)
		}
	}
	for _, child := range children {
		if child == nil {
			continue
		}
		if _, ok := child.(substate); !ok {
			ordered = append(ordered, child)
		}
	}
	return sequenceReducer[S, A]{children: ordered}
}

type sequenceReducer[S, A any] struct {
	children []Reducer[S, A]
}

func (sr sequenceReducer[S, A]) Reduce(ctx context.Context, state *S, action A) effect.Effect[A] {
	var merged effect.Effect[A]
	for _, child := range sr.children {
		merged = effect.Merge(merged, child.Reduce(ctx, state, action))
	}
	return merged
}
