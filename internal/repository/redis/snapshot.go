package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/utafrali/storefront/pkg/database"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

const keyPrefix = "storefront:"

// SnapshotRepository implements repository.SnapshotRepository using Redis.
// Concurrent writers from different processes are last-write-wins.
type SnapshotRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSnapshotRepository creates a Redis-backed snapshot repository. Keys
// expire ttl after their last write; a zero ttl keeps them forever.
func NewSnapshotRepository(client *redis.Client, ttl time.Duration) *SnapshotRepository {
	return &SnapshotRepository{
		client: client,
		ttl:    ttl,
	}
}

func redisKey(session, key string) string {
	return keyPrefix + session + ":" + key
}

// Get retrieves a snapshot from Redis.
func (r *SnapshotRepository) Get(ctx context.Context, session, key string) ([]byte, error) {
	rk := redisKey(session, key)
	ctx, end := database.TraceCommand(ctx, "GET", rk)

	data, err := r.client.Get(ctx, rk).Bytes()
	if errors.Is(err, redis.Nil) {
		end(nil)
		return nil, apperrors.NotFound("snapshot", key)
	}
	end(err)
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return data, nil
}

// Set writes a snapshot with the configured TTL.
func (r *SnapshotRepository) Set(ctx context.Context, session, key string, data []byte) error {
	rk := redisKey(session, key)
	ctx, end := database.TraceCommand(ctx, "SET", rk)

	err := r.client.Set(ctx, rk, data, r.ttl).Err()
	end(err)
	if err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Delete removes a snapshot.
func (r *SnapshotRepository) Delete(ctx context.Context, session, key string) error {
	rk := redisKey(session, key)
	ctx, end := database.TraceCommand(ctx, "DEL", rk)

	err := r.client.Del(ctx, rk).Err()
	end(err)
	if err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}
