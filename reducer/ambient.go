package reducer

import (
	"context"

	"github.com/on-the-ground/reduct_ive_go/effect"
	"github.com/on-the-ground/reduct_ive_go/shared/helper"
)

// AmbientKey identifies an ambient value of type T shared with nested
// reducers for the duration of one Reduce call.
type AmbientKey[T any] struct {
	name string
}

// NewAmbientKey creates a key under name. Keys with equal names and types
// address the same ambient slot.
func NewAmbientKey[T any](name string) AmbientKey[T] {
	return AmbientKey[T]{name: name}
}

// WithAmbient pushes value under key for the duration of each of child's
// Reduce calls. The value rides on the ctx handed to the child, so it is
// popped for free when the call returns; there is no process-wide stack.
// Nested WithAmbient with the same key shadows the outer value.
func WithAmbient[S, A, T any](key AmbientKey[T], value T, child Reducer[S, A]) Reducer[S, A] {
	wrapped := Func[S, A](func(ctx context.Context, state *S, action A) effect.Effect[A] {
		return child.Reduce(context.WithValue(ctx, key, value), state, action)
	})
	return preserveSubstate(child, wrapped)
}

// Ambient reads the value pushed under key by an enclosing WithAmbient.
// Reports false when no enclosing reducer pushed one.
func Ambient[T any](ctx context.Context, key AmbientKey[T]) (T, bool) {
	return helper.TypedValueOf2[T](func() (any, bool) {
		raw := ctx.Value(key)
		return raw, raw != nil
	})
}
