// Package storage is the persistent key/value boundary of Reduct-ive Go:
// read and write of a single value by string key against an injected
// container, with no transactionality assumed.
//
// Three reference containers ship with the package (an xxhash-sharded
// in-memory map, a SQLite table and a go-memdb table) plus a gob codec
// and a reducer decorator persisting state snapshots through effects.
package storage

import "context"

// Container reads and writes single values by string key.
//
// Get reports (nil, false, nil) for an absent key: absence is not an
// error. Implementations must be safe for concurrent use.
type Container interface {
	Set(ctx context.Context, key string, value []byte) error
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Delete(ctx context.Context, key string) error
	Close() error
}
