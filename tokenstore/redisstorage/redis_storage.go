// Package redisstorage backs token storage with Redis for deployments where
// several client processes share one session.
package redisstorage

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/finacct/go-session-client/tokenstore"
)

var _ tokenstore.Storage = (*RedisStorage)(nil)

const defaultOpTimeout = 5 * time.Second

// RedisStorage adapts a Redis client to the synchronous Storage contract.
// Tokens are stored without expiry; the session layer clears them on logout.
type RedisStorage struct {
	client    *redis.Client
	opTimeout time.Duration
}

// New creates a RedisStorage over an already-configured client.
func New(client *redis.Client) (*RedisStorage, error) {
	if client == nil {
		return nil, fmt.Errorf("[redisstorage.New] client is required")
	}
	return &RedisStorage{client: client, opTimeout: defaultOpTimeout}, nil
}

func (rs *RedisStorage) Get(key string) (string, error) {
	ctx, cancel := rs.opContext()
	defer cancel()

	value, err := rs.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	} else if err != nil {
		return "", fmt.Errorf("redis get: %w", err)
	}
	return value, nil
}

func (rs *RedisStorage) Set(key, value string) error {
	ctx, cancel := rs.opContext()
	defer cancel()

	if err := rs.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (rs *RedisStorage) Remove(key string) error {
	ctx, cancel := rs.opContext()
	defer cancel()

	if err := rs.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (rs *RedisStorage) opContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), rs.opTimeout)
}
