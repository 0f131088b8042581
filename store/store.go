package store

import (
	"context"

	"go.uber.org/zap"

	"github.com/on-the-ground/reduct_ive_go/effect"
	"github.com/on-the-ground/reduct_ive_go/reducer"
)

// Store owns one state value, one root reducer, and the registry of
// running effects. It is the sole mutation gateway: state evolves only
// through Dispatch.
//
// Stores created by Scoped share their parent's lock, registry, lifecycle
// and subscribers; reads and writes through either view stay consistent.
type Store[S, A any] struct {
	core *core
	// read returns the current state slice. Callers must hold core.mu.
	read func() S
	// send runs the full dispatch pipeline for one action.
	send func(ctx context.Context, action A)
}

// Option configures a store at construction time.
type Option func(*options)

type options struct {
	logger *zap.Logger
}

// WithLogger attaches a zap logger to the store and its executor.
// Defaults to zap.NewNop.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// New creates a store around initial state and a root reducer.
//
// ctx is the store's root context: every effect task runs under it, so
// values it carries (e.g. a deps container) are visible to effect bodies
// and to the dispatches they trigger. Cancelling ctx tears the store
// down the same way Close does.
func New[S, A any](
	ctx context.Context,
	initial S,
	root reducer.Reducer[S, A],
	opts ...Option,
) *Store[S, A] {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	rt := &runtime[S, A]{
		core:    newCore(ctx, o.logger),
		state:   initial,
		reducer: root,
	}
	return &Store[S, A]{
		core: rt.core,
		read: func() S { return rt.state },
		send: rt.dispatch,
	}
}

// Scoped derives a store viewing a slice of parent's state.
//
//   - read projects the child slice out of a parent state snapshot.
//   - embed wraps a child action into the parent action the parent's root
//     reducer understands.
//
// The derived store shares the parent's mutex, task registry, subscribers
// and lifecycle: dispatching through the child reduces the same
// underlying state the parent observes, and Close on the child is Close
// on the shared core.
func Scoped[PS, PA, CS, CA any](
	parent *Store[PS, PA],
	read func(PS) CS,
	embed func(CA) PA,
) *Store[CS, CA] {
	return &Store[CS, CA]{
		core: parent.core,
		read: func() CS { return read(parent.read()) },
		send: func(ctx context.Context, action CA) {
			parent.send(ctx, embed(action))
		},
	}
}

// Dispatch submits one action for synchronous reduction.
//
// The store's lock is held for exactly the root reduce call; subscribers
// are notified and the resulting effect is handed to the executor after
// the lock is released, so effect callbacks may safely re-enter Dispatch
// from their own goroutines. Dispatching on a closed store is a silent
// no-op.
func (s *Store[S, A]) Dispatch(ctx context.Context, action A) {
	s.send(ctx, action)
}

// State returns a point-in-time snapshot of the store's current state,
// never a partially mutated view.
func (s *Store[S, A]) State() S {
	s.core.mu.Lock()
	defer s.core.mu.Unlock()
	return s.read()
}

// Subscribe registers fn as a change signal fired after each dispatch,
// outside the store's lock. The returned function removes the
// subscription. fn must not block: it runs on the dispatching goroutine.
func (s *Store[S, A]) Subscribe(fn func()) (unsubscribe func()) {
	c := s.core
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return func() {}
	}
	id := c.nextSubID
	c.nextSubID++
	c.subscribers[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subscribers, id)
	}
}

// Close tears the store down: every tracked effect is cancelled, the root
// context ends every spawned task, and Close blocks until they drain. No
// action is delivered after Close returns. Idempotent; on a scoped store
// it closes the shared core.
func (s *Store[S, A]) Close() {
	c := s.core
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		c.registry = make(map[effect.ID][]*taskHandle)
		c.subscribers = make(map[uint64]func())
		c.mu.Unlock()

		c.cancelRoot()
		c.wg.Wait()
	})
}
