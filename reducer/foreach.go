package reducer

import (
	"context"

	"github.com/on-the-ground/reduct_ive_go/effect"
	"github.com/on-the-ground/reduct_ive_go/shared/identified"
)

// NewForEach embeds a child reducer once per element of an
// identified.Array living inside the parent state (to-many).
//
//   - arrayOf extracts the collection from the parent state.
//   - actionOf extracts the target element key and the child action from a
//     parent action, reporting false when the action does not address this
//     collection.
//   - embed wraps a child action back into a parent action addressing the
//     same element key.
//
// A missing element is a silent no-op rather than an error: the element
// may have been removed while an effect addressing it was still in
// flight, which is the documented cancellation race.
//
// The matched element is copied out, reduced, and written back in place;
// child effects are re-wrapped with the element key threaded through
// embed so every resulting action still addresses the right instance.
//
// ForEach reducers count as substate reducers for NewSequence ordering.
func NewForEach[PS, PA, CS, CA any, K comparable](
	child Reducer[CS, CA],
	arrayOf func(*PS) *identified.Array[K, CS],
	actionOf func(PA) (K, CA, bool),
	embed func(K, CA) PA,
) Reducer[PS, PA] {
	return forEachReducer[PS, PA, CS, CA, K]{
		child:    child,
		arrayOf:  arrayOf,
		actionOf: actionOf,
		embed:    embed,
	}
}

type forEachReducer[PS, PA, CS, CA any, K comparable] struct {
	child    Reducer[CS, CA]
	arrayOf  func(*PS) *identified.Array[K, CS]
	actionOf func(PA) (K, CA, bool)
	embed    func(K, CA) PA
}

func (forEachReducer[PS, PA, CS, CA, K]) substateReducer() {}

func (f forEachReducer[PS, PA, CS, CA, K]) Reduce(ctx context.Context, state *PS, action PA) effect.Effect[PA] {
	key, childAction, ok := f.actionOf(action)
	if !ok {
		return nil
	}
	array := f.arrayOf(state)
	if array == nil {
		return nil
	}
	element, ok := array.Get(key)
	if !ok {
		return nil
	}

	eff := f.child.Reduce(ctx, &element, childAction)
	array.Update(key, element)

	return effect.Map(eff, func(ca CA) PA {
		return f.embed(key, ca)
	})
}
