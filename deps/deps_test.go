package deps_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/on-the-ground/reduct_ive_go/deps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct {
	sequence int
}

func newContainer(t *testing.T) *deps.Container {
	t.Helper()
	c, err := deps.NewContainer(deps.NewConfig(16))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestResolve_FreshRunsFactoryEveryCall(t *testing.T) {
	c := newContainer(t)
	key := deps.NewKey[*clock]("clock")

	sequence := 0
	deps.Register(c, key, deps.ScopeFresh, func(c *deps.Container) (*clock, error) {
		sequence++
		return &clock{sequence: sequence}, nil
	})

	first, err := deps.Resolve(c, key)
	require.NoError(t, err)
	second, err := deps.Resolve(c, key)
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.Equal(t, 1, first.sequence)
	assert.Equal(t, 2, second.sequence)
}

func TestResolve_SingletonIsIdentityStable(t *testing.T) {
	c := newContainer(t)
	key := deps.NewKey[*clock]("clock")

	calls := 0
	deps.Register(c, key, deps.ScopeSingleton, func(c *deps.Container) (*clock, error) {
		calls++
		return &clock{}, nil
	})

	first, err := deps.Resolve(c, key)
	require.NoError(t, err)
	second, err := deps.Resolve(c, key)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, calls)
}

func TestResolve_SingletonFactoryResolvesItsOwnDependencies(t *testing.T) {
	c := newContainer(t)
	clockKey := deps.NewKey[*clock]("clock")
	serviceKey := deps.NewKey[string]("service")

	deps.Register(c, clockKey, deps.ScopeFresh, func(c *deps.Container) (*clock, error) {
		return &clock{sequence: 7}, nil
	})
	// The singleton factory receives the container so it can resolve
	// nested keys; that inner Resolve must not block on the container
	// lock while the singleton is being built.
	deps.Register(c, serviceKey, deps.ScopeSingleton, func(c *deps.Container) (string, error) {
		inner, err := deps.Resolve(c, clockKey)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("service@%d", inner.sequence), nil
	})

	got, err := deps.Resolve(c, serviceKey)
	require.NoError(t, err)
	assert.Equal(t, "service@7", got)

	again, err := deps.Resolve(c, serviceKey)
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestResolve_SingletonRetriesAfterFactoryError(t *testing.T) {
	c := newContainer(t)
	key := deps.NewKey[*clock]("clock")

	calls := 0
	deps.Register(c, key, deps.ScopeSingleton, func(c *deps.Container) (*clock, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("not ready")
		}
		return &clock{sequence: calls}, nil
	})

	_, err := deps.Resolve(c, key)
	require.Error(t, err)

	// A failed construction must not pin the error forever.
	got, err := deps.Resolve(c, key)
	require.NoError(t, err)
	assert.Equal(t, 2, got.sequence)
}

func TestResolve_CachedReturnsUsableValues(t *testing.T) {
	c := newContainer(t)
	key := deps.NewKey[*clock]("clock")

	calls := 0
	deps.Register(c, key, deps.ScopeCached, func(c *deps.Container) (*clock, error) {
		calls++
		return &clock{sequence: calls}, nil
	})

	// The cached scope promises a usable value every call, nothing more:
	// admission may drop an entry, re-running the factory.
	for i := 0; i < 5; i++ {
		got, err := deps.Resolve(c, key)
		require.NoError(t, err)
		require.NotNil(t, got)
	}
	assert.GreaterOrEqual(t, calls, 1)
}

func TestResolve_OverrideWins(t *testing.T) {
	c := newContainer(t)
	key := deps.NewKey[*clock]("clock")

	deps.Register(c, key, deps.ScopeSingleton, func(c *deps.Container) (*clock, error) {
		return &clock{sequence: 1}, nil
	})
	pinned := &clock{sequence: 99}
	deps.Override(c, key, pinned)

	got, err := deps.Resolve(c, key)
	require.NoError(t, err)
	assert.Same(t, pinned, got)
}

func TestResolve_UnknownKey(t *testing.T) {
	c := newContainer(t)
	_, err := deps.Resolve(c, deps.NewKey[string]("missing"))
	assert.ErrorIs(t, err, deps.ErrNoSuchKey)
	assert.Contains(t, err.Error(), "missing")
}

func TestResolve_FactoryErrorPropagates(t *testing.T) {
	c := newContainer(t)
	key := deps.NewKey[*clock]("clock")
	wantErr := errors.New("db unreachable")
	deps.Register(c, key, deps.ScopeFresh, func(c *deps.Container) (*clock, error) {
		return nil, wantErr
	})

	_, err := deps.Resolve(c, key)
	assert.ErrorIs(t, err, wantErr)
}

func TestResolveFromContext(t *testing.T) {
	c := newContainer(t)
	key := deps.NewKey[string]("greeting")
	deps.Register(c, key, deps.ScopeFresh, func(c *deps.Container) (string, error) {
		return "hello", nil
	})

	ctx := deps.WithContainer(context.Background(), c)
	got, err := deps.ResolveFromContext(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "hello", got)

	_, err = deps.ResolveFromContext(context.Background(), key)
	assert.ErrorIs(t, err, deps.ErrNoContainer)
}

func TestClose_RunsCleanupsInReverseOrder(t *testing.T) {
	c, err := deps.NewContainer(deps.NewConfig(0))
	require.NoError(t, err)

	var order []string
	c.OnClose(func() error {
		order = append(order, "first-registered")
		return nil
	})
	c.OnClose(func() error {
		order = append(order, "last-registered")
		return errors.New("cleanup failed")
	})

	err = c.Close()
	assert.Error(t, err)
	assert.Equal(t, []string{"last-registered", "first-registered"}, order)

	// Idempotent.
	assert.NoError(t, c.Close())
}

func TestRegister_OnClosedContainerPanics(t *testing.T) {
	c, err := deps.NewContainer(deps.NewConfig(1))
	require.NoError(t, err)
	require.NoError(t, c.Close())

	assert.Panics(t, func() {
		deps.Register(c, deps.NewKey[int]("late"), deps.ScopeFresh,
			func(c *deps.Container) (int, error) { return 0, nil })
	})
}
