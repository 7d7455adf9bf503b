package postgres

import (
	"context"
	"fmt"

	"github.com/FranksOps/hoard/internal/storage"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ensure postgresBackend implements storage.Backend
var _ storage.Backend = (*postgresBackend)(nil)

type postgresBackend struct {
	pool *pgxpool.Pool
}

const schema = `
CREATE TABLE IF NOT EXISTS members (
	collection TEXT NOT NULL,
	member TEXT NOT NULL,
	PRIMARY KEY (collection, member)
);
`

// New creates a Postgres-backed storage.Backend. The pgx pool bounds the
// number of outstanding connections.
func New(ctx context.Context, dsn string) (storage.Backend, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &postgresBackend{pool: pool}, nil
}

func (b *postgresBackend) Add(ctx context.Context, collection, member string) (bool, error) {
	tag, err := b.pool.Exec(ctx,
		`INSERT INTO members (collection, member) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		collection, member,
	)
	if err != nil {
		return false, fmt.Errorf("failed to add member to %s: %w", collection, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (b *postgresBackend) Remove(ctx context.Context, collection, member string) (bool, error) {
	tag, err := b.pool.Exec(ctx,
		`DELETE FROM members WHERE collection = $1 AND member = $2`,
		collection, member,
	)
	if err != nil {
		return false, fmt.Errorf("failed to remove member from %s: %w", collection, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (b *postgresBackend) Count(ctx context.Context, collection string) (int64, error) {
	var n int64
	err := b.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM members WHERE collection = $1`, collection,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", collection, err)
	}
	return n, nil
}

func (b *postgresBackend) Members(ctx context.Context, collection string) ([]string, error) {
	rows, err := b.pool.Query(ctx,
		`SELECT member FROM members WHERE collection = $1`, collection,
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

func (b *postgresBackend) Drop(ctx context.Context, collection string) (bool, error) {
	tag, err := b.pool.Exec(ctx,
		`DELETE FROM members WHERE collection = $1`, collection,
	)
	if err != nil {
		return false, fmt.Errorf("failed to drop %s: %w", collection, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (b *postgresBackend) Collections(ctx context.Context, prefix string) ([]string, error) {
	rows, err := b.pool.Query(ctx,
		`SELECT DISTINCT collection FROM members WHERE collection LIKE $1 || '%'`, prefix,
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

func (b *postgresBackend) Ping(ctx context.Context) error {
	if err := b.pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres unreachable: %w", err)
	}
	return nil
}

func (b *postgresBackend) Close() error {
	b.pool.Close()
	return nil
}
