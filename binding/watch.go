package binding

import (
	"context"
	"sync"

	"github.com/on-the-ground/reduct_ive_go/store"
)

// Watch streams state snapshots over a channel, one per change signal.
//
// When the consumer lags, older snapshots are dropped in favor of the
// newest one: a binding only ever needs the latest state, not the full
// history. The returned stop function unsubscribes and closes the
// channel; cancelling ctx does the same. Non-positive buffer defaults
// to 1.
func Watch[S, A any](
	ctx context.Context,
	st *store.Store[S, A],
	buffer int,
) (<-chan S, func()) {
	if buffer <= 0 {
		buffer = 1
	}
	w := &watcher[S]{ch: make(chan S, buffer)}

	unsubscribe := st.Subscribe(func() {
		w.push(st.State())
	})
	stop := func() {
		unsubscribe()
		w.close()
	}

	go func() {
		select {
		case <-ctx.Done():
			stop()
		case <-w.done():
		}
	}()

	return w.ch, stop
}

type watcher[S any] struct {
	mu     sync.Mutex
	closed bool
	doneCh chan struct{}
	ch     chan S

	once sync.Once
}

func (w *watcher[S]) done() chan struct{} {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.doneCh == nil {
		w.doneCh = make(chan struct{})
	}
	return w.doneCh
}

// push delivers the newest snapshot without ever blocking the
// dispatching goroutine: a full channel loses its oldest element first.
func (w *watcher[S]) push(snapshot S) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	for {
		select {
		case w.ch <- snapshot:
			return
		default:
		}
		select {
		case <-w.ch:
		default:
		}
	}
}

func (w *watcher[S]) close() {
	done := w.done()
	w.once.Do(func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		w.closed = true
		close(w.ch)
		close(done)
	})
}
