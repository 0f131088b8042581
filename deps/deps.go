// Package deps is the dependency-resolution boundary of Reduct-ive Go:
// "given a declared key, return a value of the associated type, possibly
// from a cache scoped as fresh/cached/singleton, possibly overridden for
// tests."
//
// Reducers reach the container through the context handed to Reduce, so
// resolving stays synchronous and free of hidden globals. Callers may not
// assume identity stability beyond what the declared scope promises: a
// cached entry can be evicted and rebuilt at any time.
package deps

import (
	"context"
	"errors"
	"fmt"
	"sync"

	ristretto "github.com/dgraph-io/ristretto/v2"
	"go.uber.org/multierr"

	"github.com/on-the-ground/reduct_ive_go/shared/helper"
)

var (
	// ErrNoSuchKey is returned when no factory or override is registered
	// under the requested key.
	ErrNoSuchKey = errors.New("no such key")
	// ErrNoContainer is returned when a context carries no container.
	ErrNoContainer = errors.New("no container in context")
)

// Key declares a dependency of type T under a unique name.
type Key[T any] struct {
	name string
}

// NewKey creates a typed key. Keys with equal names and types address the
// same registration.
func NewKey[T any](name string) Key[T] {
	return Key[T]{name: name}
}

func (k Key[T]) String() string { return k.name }

// Scope declares how long a resolved value lives.
type Scope string

const (
	// ScopeFresh runs the factory on every resolution.
	ScopeFresh Scope = "reduct_ive_go_deps_scope_fresh"
	// ScopeCached keeps resolved values in a lossy cache; admission or
	// eviction may drop an entry, re-running the factory on the next
	// resolution.
	ScopeCached Scope = "reduct_ive_go_deps_scope_cached"
	// ScopeSingleton resolves once; every later resolution returns the
	// same value.
	ScopeSingleton Scope = "reduct_ive_go_deps_scope_singleton"
)

// Config sizes the container's cached scope.
type Config struct {
	CacheSize int // default: 1024
}

// NewConfig normalizes non-positive fields to defaults.
func NewConfig(cacheSize int) Config {
	if cacheSize <= 0 {
		cacheSize = 1024
	}
	return Config{CacheSize: cacheSize}
}

type registration struct {
	factory func(*Container) (any, error)
	scope   Scope
}

// singletonEntry keeps a singleton's construction single-flight. The
// factory runs under the entry's Once, never under the container lock,
// so it is free to resolve its own dependencies.
type singletonEntry struct {
	once  sync.Once
	value any
	err   error
}

// Container registers factories under typed keys and resolves them on
// demand. Safe for concurrent use.
type Container struct {
	mu         sync.RWMutex
	closed     bool
	factories  map[string]registration
	singletons map[string]*singletonEntry
	overrides  map[string]any
	cache      *ristretto.Cache[string, any]
	cleanups   []func() error
}

// NewContainer builds an empty container.
func NewContainer(config Config) (*Container, error) {
	config = NewConfig(config.CacheSize)
	cache, err := ristretto.NewCache(&ristretto.Config[string, any]{
		NumCounters: int64(config.CacheSize) * 10,
		MaxCost:     int64(config.CacheSize),
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build dependency cache: %w", err)
	}
	return &Container{
		factories:  make(map[string]registration),
		singletons: make(map[string]*singletonEntry),
		overrides:  make(map[string]any),
		cache:      cache,
	}, nil
}

// Register binds factory to key under the given scope.
// Registering on a closed container is a bug in composition and panics.
func Register[T any](c *Container, key Key[T], scope Scope, factory func(*Container) (T, error)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		panic(fmt.Sprintf("register %q on closed container", key.name))
	}
	c.factories[key.name] = registration{
		factory: func(c *Container) (any, error) { return factory(c) },
		scope:   scope,
	}
}

// Override pins key to value, bypassing any registered factory. Intended
// for tests; an override always wins over every scope.
func Override[T any](c *Container, key Key[T], value T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		panic(fmt.Sprintf("override %q on closed container", key.name))
	}
	c.overrides[key.name] = value
}

// Resolve returns the value registered under key, honoring its scope.
func Resolve[T any](c *Container, key Key[T]) (T, error) {
	return helper.TypedValueOf[T](func() (any, error) {
		return c.resolve(key.name)
	})
}

func (c *Container) resolve(name string) (any, error) {
	c.mu.RLock()
	if value, ok := c.overrides[name]; ok {
		c.mu.RUnlock()
		return value, nil
	}
	reg, ok := c.factories[name]
	c.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoSuchKey, name)
	}

	switch reg.scope {
	case ScopeFresh:
		return reg.factory(c)

	case ScopeCached:
		if value, ok := c.cache.Get(name); ok {
			return value, nil
		}
		value, err := reg.factory(c)
		if err != nil {
			return nil, err
		}
		c.cache.Set(name, value, 1)
		c.cache.Wait()
		return value, nil

	case ScopeSingleton:
		c.mu.Lock()
		entry, ok := c.singletons[name]
		if !ok {
			entry = &singletonEntry{}
			c.singletons[name] = entry
		}
		c.mu.Unlock()
		entry.once.Do(func() {
			entry.value, entry.err = reg.factory(c)
			if entry.err != nil {
				// Drop the failed entry so a later resolution retries.
				c.mu.Lock()
				delete(c.singletons, name)
				c.mu.Unlock()
			}
		})
		return entry.value, entry.err

	default:
		// Scope is a closed set, so this should never happen.
		// Bug in the code.
		panic(fmt.Sprintf("unrecognized scope: %s", reg.scope))
	}
}

// OnClose registers a cleanup to run when the container closes.
func (c *Container) OnClose(fn func() error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cleanups = append(c.cleanups, fn)
}

// Close runs registered cleanups in reverse order, aggregating their
// errors, and releases the cached scope. Idempotent.
func (c *Container) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	cleanups := c.cleanups
	c.cleanups = nil
	c.mu.Unlock()

	var err error
	for i := len(cleanups) - 1; i >= 0; i-- {
		err = multierr.Append(err, cleanups[i]())
	}
	c.cache.Close()
	return err
}

type containerCtxKey struct{}

// WithContainer attaches c to ctx so reducers can resolve through the
// context handed to Reduce.
func WithContainer(ctx context.Context, c *Container) context.Context {
	return context.WithValue(ctx, containerCtxKey{}, c)
}

// FromContext returns the container attached by WithContainer, if any.
func FromContext(ctx context.Context) (*Container, bool) {
	return helper.TypedValueOf2[*Container](func() (any, bool) {
		raw := ctx.Value(containerCtxKey{})
		return raw, raw != nil
	})
}

// ResolveFromContext resolves key through the container carried by ctx.
func ResolveFromContext[T any](ctx context.Context, key Key[T]) (T, error) {
	c, ok := FromContext(ctx)
	if !ok {
		var zero T
		return zero, ErrNoContainer
	}
	return Resolve(c, key)
}
