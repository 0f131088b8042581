package storage

import (
	"bytes"
	"context"

	"github.com/on-the-ground/reduct_ive_go/effect"
	"github.com/on-the-ground/reduct_ive_go/reducer"
)

// Snapshot decorates r so every reduce that actually changed the state
// merges in an effect persisting the new snapshot under key. No-op
// reduces write nothing. State must be gob-encodable; the decorator is
// meant for a store's root reducer.
//
// Persistence always happens inside the returned effect, never inside the
// synchronous reduce: the store's lock is released before the container
// is touched.
func Snapshot[S, A any](r reducer.Reducer[S, A], container Container, key string) reducer.Reducer[S, A] {
	return snapshotReducer[S, A]{inner: r, container: container, key: key}
}

type snapshotReducer[S, A any] struct {
	inner     reducer.Reducer[S, A]
	container Container
	key       string
}

func (sr snapshotReducer[S, A]) Reduce(ctx context.Context, state *S, action A) effect.Effect[A] {
	before, beforeErr := EncodeValue(*state)

	eff := sr.inner.Reduce(ctx, state, action)

	after, afterErr := EncodeValue(*state)
	if beforeErr != nil || afterErr != nil || bytes.Equal(before, after) {
		return eff
	}

	persist := effect.NewMany(func(ctx context.Context, _ func(A) bool) error {
		return sr.container.Set(ctx, sr.key, after)
	})
	return effect.Merge(eff, persist)
}

// RestoreSnapshot loads the snapshot persisted under key, reporting false
// when none exists. Use it to seed a store's initial state at
// construction.
func RestoreSnapshot[S any](ctx context.Context, container Container, key string) (S, bool, error) {
	var zero S
	data, ok, err := container.Get(ctx, key)
	if err != nil || !ok {
		return zero, false, err
	}
	state, err := DecodeValue[S](data)
	if err != nil {
		return zero, false, err
	}
	return state, true, nil
}
