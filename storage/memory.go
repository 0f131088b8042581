package storage

import (
	"context"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// MemoryContainer is an in-memory Container sharded by key hash so
// concurrent writers on disjoint keys do not contend on one lock.
type MemoryContainer struct {
	shards []*memoryShard
}

var _ Container = (*MemoryContainer)(nil)

type memoryShard struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

// NewMemoryContainer builds a container with the given shard count.
// Non-positive counts default to 1.
func NewMemoryContainer(shards int) *MemoryContainer {
	if shards <= 0 {
		shards = 1
	}
	c := &MemoryContainer{shards: make([]*memoryShard, shards)}
	for i := range c.shards {
		c.shards[i] = &memoryShard{entries: make(map[string][]byte)}
	}
	return c
}

func (c *MemoryContainer) shardOf(key string) *memoryShard {
	return c.shards[xxhash.Sum64String(key)%uint64(len(c.shards))]
}

func (c *MemoryContainer) Set(_ context.Context, key string, value []byte) error {
	shard := c.shardOf(key)
	shard.mu.Lock()
	defer shard.mu.Unlock()
	shard.entries[key] = append([]byte(nil), value...)
	return nil
}

func (c *MemoryContainer) Get(_ context.Context, key string) ([]byte, bool, error) {
	shard := c.shardOf(key)
	shard.mu.RLock()
	defer shard.mu.RUnlock()
	value, ok := shard.entries[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), value...), true, nil
}

func (c *MemoryContainer) Delete(_ context.Context, key string) error {
	shard := c.shardOf(key)
	shard.mu.Lock()
	defer shard.mu.Unlock()
	delete(shard.entries, key)
	return nil
}

func (c *MemoryContainer) Close() error { return nil }
