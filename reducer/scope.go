package reducer

import (
	"context"

	"github.com/on-the-ground/reduct_ive_go/effect"
)

// NewScope embeds a child reducer into a parent domain (to-one).
//
//   - stateOf extracts a pointer to the child state from the parent state;
//     returning nil marks the substate as absent (optional child slot).
//   - actionOf extracts the child action from a parent action, reporting
//     false when the action does not address this child.
//   - embed wraps a child action back into the parent action type.
//
// When the action does not match or the child state is absent, state is
// untouched and no effect is returned. Effects produced by the child are
// re-wrapped through embed (effect.Map) so every action they deliver to
// the parent's dispatch is a parent action.
//
// Scope reducers count as substate reducers for NewSequence ordering.
func NewScope[PS, PA, CS, CA any](
	child Reducer[CS, CA],
	stateOf func(*PS) *CS,
	actionOf func(PA) (CA, bool),
	embed func(CA) PA,
) Reducer[PS, PA] {
	return scopeReducer[PS, PA, CS, CA]{
		child:    child,
		stateOf:  stateOf,
		actionOf: actionOf,
		embed:    embed,
	}
}

type scopeReducer[PS, PA, CS, CA any] struct {
	child    Reducer[CS, CA]
	stateOf  func(*PS) *CS
	actionOf func(PA) (CA, bool)
	embed    func(CA) PA
}

func (scopeReducer[PS, PA, CS, CA]) substateReducer() {}

func (s scopeReducer[PS, PA, CS, CA]) Reduce(ctx context.Context, state *PS, action PA) effect.Effect[PA] {
	childAction, ok := s.actionOf(action)
	if !ok {
		return nil
	}
	childState := s.stateOf(state)
	if childState == nil {
		return nil
	}
	return effect.Map(s.child.Reduce(ctx, childState, childAction), s.embed)
}
