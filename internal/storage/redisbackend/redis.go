package redisbackend

import (
	"context"
	"fmt"

	"github.com/FranksOps/hoard/internal/storage"
	"github.com/redis/go-redis/v9"
)

// ensure redisBackend implements storage.Backend
var _ storage.Backend = (*redisBackend)(nil)

type redisBackend struct {
	client *redis.Client
}

// Config holds the connection parameters for the Redis set store.
type Config struct {
	Host     string
	Port     int
	DB       int
	PoolSize int
}

// New creates a Redis-backed storage.Backend. The client owns a connection
// pool bounded by PoolSize; New fails fast if the server is unreachable.
func New(ctx context.Context, cfg Config) (storage.Backend, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s:%d: %w", cfg.Host, cfg.Port, err)
	}

	return &redisBackend{client: client}, nil
}

func (b *redisBackend) Add(ctx context.Context, collection, member string) (bool, error) {
	n, err := b.client.SAdd(ctx, collection, member).Result()
	if err != nil {
		return false, fmt.Errorf("failed to add member to %s: %w", collection, err)
	}
	return n > 0, nil
}

func (b *redisBackend) Remove(ctx context.Context, collection, member string) (bool, error) {
	n, err := b.client.SRem(ctx, collection, member).Result()
	if err != nil {
		return false, fmt.Errorf("failed to remove member from %s: %w", collection, err)
	}
	return n > 0, nil
}

func (b *redisBackend) Count(ctx context.Context, collection string) (int64, error) {
	n, err := b.client.SCard(ctx, collection).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", collection, err)
	}
	return n, nil
}

func (b *redisBackend) Members(ctx context.Context, collection string) ([]string, error) {
	members, err := b.client.SMembers(ctx, collection).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read members of %s: %w", collection, err)
	}
	return members, nil
}

func (b *redisBackend) Drop(ctx context.Context, collection string) (bool, error) {
	n, err := b.client.Del(ctx, collection).Result()
	if err != nil {
		return false, fmt.Errorf("failed to drop %s: %w", collection, err)
	}
	return n > 0, nil
}

func (b *redisBackend) Collections(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	iter := b.client.Scan(ctx, 0, prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan collections: %w", err)
	}
	return keys, nil
}

func (b *redisBackend) Ping(ctx context.Context) error {
	if err := b.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis unreachable: %w", err)
	}
	return nil
}

func (b *redisBackend) Close() error {
	return b.client.Close()
}
