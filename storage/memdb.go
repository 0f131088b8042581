package storage

import (
	"context"

	memdb "github.com/hashicorp/go-memdb"
)

const (
	memdbTable = "entries"
	memdbIndex = "id"
)

type memdbEntry struct {
	Key   string
	Value []byte
}

// MemDBContainer is a Container backed by hashicorp/go-memdb, useful when
// several collaborators want transactional reads over the same snapshot
// store.
type MemDBContainer struct {
	db *memdb.MemDB
}

var _ Container = (*MemDBContainer)(nil)

// NewMemDBContainer builds a container over a single-table memdb schema
// indexed by key.
func NewMemDBContainer() (*MemDBContainer, error) {
	schema := &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			memdbTable: {
				Name: memdbTable,
				Indexes: map[string]*memdb.IndexSchema{
					memdbIndex: {
						Name:    memdbIndex,
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "Key"},
					},
				},
			},
		},
	}
	db, err := memdb.NewMemDB(schema)
	if err != nil {
		return nil, err
	}
	return &MemDBContainer{db: db}, nil
}

func (c *MemDBContainer) Set(_ context.Context, key string, value []byte) error {
	txn := c.db.Txn(true)
	defer txn.Abort()

	entry := &memdbEntry{Key: key, Value: append([]byte(nil), value...)}
	if err := txn.Insert(memdbTable, entry); err != nil {
		return err
	}
	txn.Commit()
	return nil
}

func (c *MemDBContainer) Get(_ context.Context, key string) ([]byte, bool, error) {
	txn := c.db.Txn(false)
	defer txn.Abort()

	raw, err := txn.First(memdbTable, memdbIndex, key)
	if err != nil || raw == nil {
		return nil, false, err
	}
	entry := raw.(*memdbEntry)
	return append([]byte(nil), entry.Value...), true, nil
}

func (c *MemDBContainer) Delete(_ context.Context, key string) error {
	txn := c.db.Txn(true)
	defer txn.Abort()

	raw, err := txn.First(memdbTable, memdbIndex, key)
	if err != nil {
		return err
	}
	if raw == nil {
		return nil
	}
	if err := txn.Delete(memdbTable, raw); err != nil {
		return err
	}
	txn.Commit()
	return nil
}

func (c *MemDBContainer) Close() error { return nil }
