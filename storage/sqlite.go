package storage

import (
	"context"
	"database/sql"

	"github.com/on-the-ground/reduct_ive_go/shared/helper"
)

// SQLiteContainer is a Container backed by one SQLite table.
//
// It expects an *sql.DB that uses a SQLite driver (for example,
// "modernc.org/sqlite"). The caller is responsible for importing the
// driver, e.g.:
//
//	import _ "modernc.org/sqlite"
type SQLiteContainer struct {
	db *sql.DB
}

var _ Container = (*SQLiteContainer)(nil)

// NewSQLiteContainer initializes the required schema in the given
// database and returns a new SQLiteContainer.
func NewSQLiteContainer(db *sql.DB) (*SQLiteContainer, error) {
	c := &SQLiteContainer{db: db}
	if err := c.initSchema(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *SQLiteContainer) initSchema() error {
	_, err := c.db.Exec(`
		CREATE TABLE IF NOT EXISTS entries (
			key TEXT PRIMARY KEY,
			value BLOB
		);`,
	)
	return err
}

func (c *SQLiteContainer) Set(ctx context.Context, key string, value []byte) error {
	// SQLite rejects concurrent writers with a busy error; a short retry
	// absorbs that instead of surfacing it to the reducer's effect.
	return helper.Retry(3, func() error {
		_, err := c.db.ExecContext(ctx, `
			INSERT INTO entries (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
			key, value,
		)
		return err
	})
}

func (c *SQLiteContainer) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := c.db.QueryRowContext(ctx,
		`SELECT value FROM entries WHERE key = ?`, key,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (c *SQLiteContainer) Delete(ctx context.Context, key string) error {
	_, err := c.db.ExecContext(ctx, `DELETE FROM entries WHERE key = ?`, key)
	return err
}

func (c *SQLiteContainer) Close() error { return c.db.Close() }
