package store

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/on-the-ground/reduct_ive_go/effect"
	"github.com/on-the-ground/reduct_ive_go/reducer"
)

// runtime is the typed half of a root store: the state value, the root
// reducer, and the executor interpreting effects back into dispatches.
type runtime[S, A any] struct {
	core    *core
	state   S
	reducer reducer.Reducer[S, A]
}

// dispatch is the store's single mutation path: lock, reduce, unlock,
// notify, execute.
func (rt *runtime[S, A]) dispatch(ctx context.Context, action A) {
	c := rt.core
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	eff := rt.reducer.Reduce(ctx, &rt.state, action)
	subs := c.snapshotSubscribers()
	c.mu.Unlock()

	for _, notify := range subs {
		notify()
	}
	if eff != nil {
		rt.execute(eff)
	}
}

// execute interprets one effect. Cancel and Forget are control values
// applied synchronously against the registry; everything else is prepared
// (cancellation handles registered) before it is spawned as a tracked
// task under the store's root context, so a Cancel dispatched right after
// the effect-returning dispatch always finds its target.
func (rt *runtime[S, A]) execute(e effect.Effect[A]) {
	switch eff := e.(type) {
	case effect.Cancel[A]:
		rt.core.cancelID(eff.ID)
	case effect.Forget[A]:
		rt.core.forgetID(eff.ID)
	default:
		rt.spawn(rt.prepare(rt.core.rootCtx, e))
	}
}

// spawn starts one supervised task. Tasks are joined on Close; a panic in
// a task is recovered and logged, never unwinding into the store.
func (rt *runtime[S, A]) spawn(task func()) {
	c := rt.core
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.wg.Add(1)
	c.mu.Unlock()

	go func() {
		defer c.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				c.logger.Error("panic in effect task", zap.Any("error", r))
			}
		}()
		task()
	}()
}

// prepare binds the effect's context tree and registers every
// Cancellable handle synchronously, on the dispatching goroutine, then
// returns the deferred body. Registration must not wait for the task
// goroutine to be scheduled: by the time the dispatch that produced this
// effect returns, each tagged id is already cancellable by name.
func (rt *runtime[S, A]) prepare(taskCtx context.Context, e effect.Effect[A]) func() {
	switch eff := e.(type) {
	case effect.Compound[A]:
		tasks := make([]func(), 0, len(eff.Children))
		for _, child := range eff.Children {
			tasks = append(tasks, rt.prepare(taskCtx, child))
		}
		// Fan out one goroutine per child and join them. Failures are
		// isolated: a panicking branch never cancels its siblings, and
		// the parent itself is not independently cancellable.
		return func() {
			var children sync.WaitGroup
			for _, task := range tasks {
				children.Add(1)
				go func(task func()) {
					defer children.Done()
					defer func() {
						if r := recover(); r != nil {
							rt.core.logger.Error("panic in compound branch", zap.Any("error", r))
						}
					}()
					task()
				}(task)
			}
			children.Wait()
		}

	case effect.Cancellable[A]:
		childCtx, cancel := context.WithCancel(taskCtx)
		handle := &taskHandle{id: eff.ID, cancel: cancel}
		rt.core.register(handle)
		inner := rt.prepare(childCtx, eff.Inner)
		// Deregister exactly this handle on completion so a stale id never
		// points at a finished task.
		return func() {
			defer cancel()
			defer rt.core.deregister(handle)
			inner()
		}

	default:
		return func() { rt.run(taskCtx, e) }
	}
}

// run interprets a leaf effect to completion on the current goroutine.
// Compound and Cancellable never reach here; prepare unwraps them.
func (rt *runtime[S, A]) run(taskCtx context.Context, e effect.Effect[A]) {
	switch eff := e.(type) {
	case effect.One[A]:
		action, err := eff.Op(taskCtx)
		if err != nil {
			rt.core.logger.Debug("one effect dropped", zap.Error(err))
			return
		}
		if taskCtx.Err() != nil {
			// Cancelled while the op was in flight: drop the result.
			return
		}
		rt.dispatch(taskCtx, action)

	case effect.Many[A]:
		err := eff.Op(taskCtx, func(action A) bool {
			if taskCtx.Err() != nil || rt.core.isClosed() {
				return false
			}
			rt.dispatch(taskCtx, action)
			return taskCtx.Err() == nil && !rt.core.isClosed()
		})
		if err != nil {
			rt.core.logger.Debug("many effect ended with error", zap.Error(err))
		}

	case effect.Cancel[A]:
		rt.core.cancelID(eff.ID)

	case effect.Forget[A]:
		rt.core.forgetID(eff.ID)

	default:
		// Effect is a sealed interface, so this should never happen.
		// Bug in the code.
		panic(fmt.Sprintf("unrecognized effect variant: %T", e))
	}
}
