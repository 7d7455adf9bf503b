package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/FranksOps/hoard/internal/storage"
	_ "modernc.org/sqlite"
)

// ensure sqliteBackend implements storage.Backend
var _ storage.Backend = (*sqliteBackend)(nil)

// sqliteBackend stores each collection as rows in a single members table,
// with the primary key enforcing set semantics.
type sqliteBackend struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS members (
	collection TEXT NOT NULL,
	member TEXT NOT NULL,
	PRIMARY KEY (collection, member)
);
`

// New creates a SQLite-backed storage.Backend.
func New(dsn string) (storage.Backend, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &sqliteBackend{db: db}, nil
}

func (b *sqliteBackend) Add(ctx context.Context, collection, member string) (bool, error) {
	res, err := b.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO members (collection, member) VALUES (?, ?)`,
		collection, member,
	)
	if err != nil {
		return false, fmt.Errorf("failed to add member to %s: %w", collection, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n > 0, nil
}

func (b *sqliteBackend) Remove(ctx context.Context, collection, member string) (bool, error) {
	res, err := b.db.ExecContext(ctx,
		`DELETE FROM members WHERE collection = ? AND member = ?`,
		collection, member,
	)
	if err != nil {
		return false, fmt.Errorf("failed to remove member from %s: %w", collection, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n > 0, nil
}

func (b *sqliteBackend) Count(ctx context.Context, collection string) (int64, error) {
	var n int64
	err := b.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM members WHERE collection = ?`, collection,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", collection, err)
	}
	return n, nil
}

func (b *sqliteBackend) Members(ctx context.Context, collection string) ([]string, error) {
	rows, err := b.db.QueryContext(ctx,
		`SELECT member FROM members WHERE collection = ?`, collection,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to read members of %s: %w", collection, err)
	}
	defer rows.Close()

	var members []string
	for rows.Next() {
		var member string
		if err := rows.Scan(&member); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read members of %s: %w", collection, err)
	}
	return members, nil
}

func (b *sqliteBackend) Drop(ctx context.Context, collection string) (bool, error) {
	res, err := b.db.ExecContext(ctx,
		`DELETE FROM members WHERE collection = ?`, collection,
	)
	if err != nil {
		return false, fmt.Errorf("failed to drop %s: %w", collection, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n > 0, nil
}

func (b *sqliteBackend) Collections(ctx context.Context, prefix string) ([]string, error) {
	rows, err := b.db.QueryContext(ctx,
		`SELECT DISTINCT collection FROM members WHERE collection LIKE ? || '%'`, prefix,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan collection key: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}
	return keys, nil
}

func (b *sqliteBackend) Ping(ctx context.Context) error {
	if err := b.db.PingContext(ctx); err != nil {
		return fmt.Errorf("sqlite unreachable: %w", err)
	}
	return nil
}

func (b *sqliteBackend) Close() error {
	return b.db.Close()
}
