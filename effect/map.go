package effect

import (
	"context"
	"fmt"
)

// Map re-wraps every action an effect produces through embed, recursively:
// a One's result, a Many's yields, a Compound's children and a
// Cancellable's inner effect. Cancel and Forget pass through untouched
// since they reference ids, not actions.
//
// A Many emitting [a, b, c] observed through Map(e, f) delivers exactly
// [f(a), f(b), f(c)] in that order.
func Map[A, B any](e Effect[A], embed func(A) B) Effect[B] {
	if e == nil {
		return nil
	}
	switch eff := e.(type) {
	case One[A]:
		return One[B]{Op: func(ctx context.Context) (B, error) {
			a, err := eff.Op(ctx)
			if err != nil {
				var zero B
				return zero, err
			}
			return embed(a), nil
		}}
	case Many[A]:
		return Many[B]{Op: func(ctx context.Context, yield func(B) bool) error {
			return eff.Op(ctx, func(a A) bool {
				return yield(embed(a))
			})
		}}
	case Cancel[A]:
		return Cancel[B]{ID: eff.ID}
	case Forget[A]:
		return Forget[B]{ID: eff.ID}
	case Compound[A]:
		children := make([]Effect[B], 0, len(eff.Children))
		for _, child := range eff.Children {
			children = append(children, Map(child, embed))
		}
		return Compound[B]{Children: children}
	case Cancellable[A]:
		return Cancellable[B]{ID: eff.ID, Inner: Map(eff.Inner, embed)}
	default:
		// Effect is a sealed interface, so this should never happen.
		// Bug in the code.
		panic(fmt.Sprintf("unrecognized effect variant: %T", e))
	}
}
