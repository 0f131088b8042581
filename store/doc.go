// Package store provides the runtime of Reduct-ive Go: a store owning one
// state value and one root reducer, a dispatch loop serializing state
// mutation under a single lock, and an executor turning effect values into
// supervised goroutines.
//
// # Unidirectional flow
//
// State evolves only through discrete actions:
//
//	caller → Dispatch(action) → lock → Reduce(state, action) → unlock
//	       → notify subscribers → execute returned effect
//	       → effect tasks dispatch further actions, recursively.
//
// Reduce is synchronous and fast, which is why the store's lock can safely
// wrap it; effects are where all waiting happens, on their own goroutines.
//
// # Ordering
//
// Actions dispatched synchronously in sequence are processed strictly in
// that order. Actions emitted by a single Many effect are delivered one at
// a time, in emission order, each fully reduced before the next. Actions
// from independent effects interleave freely.
//
// # Cancellation
//
// Cancellation is name-based and cooperative: cancelling an effect.ID
// signals the tracked task's context; synchronous work in flight is not
// interrupted, so one late action may still arrive after a cancel request.
// Reducers guard against this with correlation ids kept in state.
//
// # Teardown
//
// Close cancels every running task and waits for them to drain; no action
// is delivered to a store after Close returns.
//
// Example:
//
//	st := store.New(ctx, counterState{}, counterReducer())
//	defer st.Close()
//
//	st.Dispatch(ctx, Increment{})
//	fmt.Println(st.State().Value)
package store
