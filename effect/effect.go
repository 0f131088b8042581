package effect

import "context"

// Effect is a sealed description of asynchronous work that may produce
// further actions of type A.
//
// Constructing an effect performs no work: values are inert until handed
// to a store's executor. Only the predefined variants (One, Many, Cancel,
// Forget, Compound, Cancellable) can implement this interface.
type Effect[A any] interface {
	effect(A)
}

// One describes exactly one resulting action once Op completes.
//
// Op runs on its own goroutine under the owning store's root context.
// An error return drops the action silently (logged at debug level by
// the executor).
type One[A any] struct {
	Op func(ctx context.Context) (A, error)
}

// effect prevents external packages from implementing Effect. The unused
// A parameter binds each variant to a single action type, so Effect[X]
// and Effect[Y] stay distinct and call sites infer A.
func (One[A]) effect(A) {}

// NewOne wraps an asynchronous operation producing a single action.
func NewOne[A any](op func(ctx context.Context) (A, error)) Effect[A] {
	return One[A]{Op: op}
}

// Many describes zero or more actions emitted over the work's lifetime.
//
// Op receives a yield callback that forwards each action to the owning
// store's dispatch, one at a time, in emission order; each emitted action
// is fully reduced before yield returns. yield reports false once the
// owning store is gone or the task is cancelled, so the body can stop
// early. Bodies that never return are legal (periodic tickers); they run
// until cancelled or the store is torn down.
type Many[A any] struct {
	Op func(ctx context.Context, yield func(A) bool) error
}

func (Many[A]) effect(A) {}

// NewMany wraps an asynchronous operation emitting actions through yield.
func NewMany[A any](op func(ctx context.Context, yield func(A) bool) error) Effect[A] {
	return Many[A]{Op: op}
}

// Cancel is a control value requesting cancellation of the running effect
// tracked under ID. It carries no executable work; cancelling an unknown
// or already-finished id is a no-op.
type Cancel[A any] struct {
	ID ID
}

func (Cancel[A]) effect(A) {}

// NewCancel constructs a cancellation directive for id.
func NewCancel[A any](id ID) Effect[A] {
	return Cancel[A]{ID: id}
}

// Forget is a control value detaching the effect tracked under ID from
// cancellation tracking: the work continues to completion but can no
// longer be cancelled by name. Forgetting an unknown id is a no-op.
type Forget[A any] struct {
	ID ID
}

func (Forget[A]) effect(A) {}

// NewForget constructs a forget directive for id.
func NewForget[A any](id ID) Effect[A] {
	return Forget[A]{ID: id}
}

// Compound is a set of effects run concurrently as independent tasks, with
// no ordering guarantee between children. One child's cancellation or
// failure never touches its siblings.
type Compound[A any] struct {
	Children []Effect[A]
}

func (Compound[A]) effect(A) {}

// Cancellable wraps Inner so it is tracked under ID and can later be
// targeted by a Cancel or Forget directive. Natural completion removes
// the registration, so a stale id never points at a finished task.
type Cancellable[A any] struct {
	ID    ID
	Inner Effect[A]
}

func (Cancellable[A]) effect(A) {}

// Merge combines two effects into one compound run. Nil operands are
// skipped; if either side is already compound its child list is
// concatenated rather than nested, keeping the concurrent fan-out flat
// and iteration order deterministic (left to right as combined).
func Merge[A any](a, b Effect[A]) Effect[A] {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	children := appendFlat(appendFlat(make([]Effect[A], 0, 2), a), b)
	return Compound[A]{Children: children}
}

// Combine merges any number of effects via Merge. Returns nil iff every
// operand is nil. Associative over the flattened child list.
func Combine[A any](effects ...Effect[A]) Effect[A] {
	var merged Effect[A]
	for _, e := range effects {
		merged = Merge(merged, e)
	}
	return merged
}

func appendFlat[A any](children []Effect[A], e Effect[A]) []Effect[A] {
	if compound, ok := e.(Compound[A]); ok {
		return append(children, compound.Children...)
	}
	return append(children, e)
}

// Tag makes e cancellable under id:
//
//   - wrapping a Cancel or Forget re-targets the directive at id,
//   - wrapping an already-Cancellable effect replaces its id (last tag
//     wins, never nests),
//   - anything else is wrapped in a Cancellable.
//
// Tagging with the zero id returns e unchanged.
func Tag[A any](e Effect[A], id ID) Effect[A] {
	if e == nil || id.IsZero() {
		return e
	}
	switch eff := e.(type) {
	case Cancel[A]:
		return Cancel[A]{ID: id}
	case Forget[A]:
		return Forget[A]{ID: id}
	case Cancellable[A]:
		return Cancellable[A]{ID: id, Inner: eff.Inner}
	default:
		return Cancellable[A]{ID: id, Inner: e}
	}
}
