package store

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/on-the-ground/reduct_ive_go/effect"
)

// core is the shared mutable heart of a store and every view derived from
// it: one mutex guards the state tree, the task registry and the
// subscriber set, preserving the single-writer invariant across parent
// and scoped stores.
//
// The mutex is held only for synchronous work (one reduce call, registry
// bookkeeping, subscriber bookkeeping) and never across anything that can
// park on external work.
type core struct {
	mu          sync.Mutex
	closed      bool
	rootCtx     context.Context
	cancelRoot  context.CancelFunc
	wg          sync.WaitGroup
	registry    map[effect.ID][]*taskHandle
	subscribers map[uint64]func()
	nextSubID   uint64
	logger      *zap.Logger
	closeOnce   sync.Once
}

// taskHandle correlates one running cancellable task with its id.
// Deregistration removes exactly this handle, so a finished task never
// leaves a stale id behind and never detaches a newer registration made
// under the same id.
type taskHandle struct {
	id     effect.ID
	cancel context.CancelFunc
}

func newCore(ctx context.Context, logger *zap.Logger) *core {
	rootCtx, cancelRoot := context.WithCancel(ctx)
	return &core{
		rootCtx:     rootCtx,
		cancelRoot:  cancelRoot,
		registry:    make(map[effect.ID][]*taskHandle),
		subscribers: make(map[uint64]func()),
		logger:      logger,
	}
}

func (c *core) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *core) register(h *taskHandle) {
	if h.id.IsZero() {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.registry[h.id] = append(c.registry[h.id], h)
}

func (c *core) deregister(h *taskHandle) {
	if h.id.IsZero() {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	handles := c.registry[h.id]
	for i, candidate := range handles {
		if candidate == h {
			handles = append(handles[:i], handles[i+1:]...)
			break
		}
	}
	if len(handles) == 0 {
		delete(c.registry, h.id)
	} else {
		c.registry[h.id] = handles
	}
}

// cancelID cancels and removes every handle registered under id.
// Unknown ids are a no-op; repeated cancellation is idempotent.
func (c *core) cancelID(id effect.ID) {
	if id.IsZero() {
		return
	}
	c.mu.Lock()
	handles := c.registry[id]
	delete(c.registry, id)
	c.mu.Unlock()

	for _, h := range handles {
		h.cancel()
	}
}

// forgetID removes every handle registered under id without cancelling:
// the work runs to completion but can no longer be targeted by name.
func (c *core) forgetID(id effect.ID) {
	if id.IsZero() {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.registry, id)
}

func (c *core) snapshotSubscribers() []func() {
	subs := make([]func(), 0, len(c.subscribers))
	for _, fn := range c.subscribers {
		subs = append(subs, fn)
	}
	return subs
}
