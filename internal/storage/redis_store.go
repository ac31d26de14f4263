package storage

import (
	"context"
	"errors"
	"time"

	"github.com/ikkim/perfume-storefront/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps state in Redis. Every write refreshes the key's TTL, so
// abandoned carts expire on their own.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

func NewRedisStore(client redis.UniversalClient, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "storefront:",
		ttl:    ttl,
	}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		logger.Error("Failed to read state from Redis", err, map[string]interface{}{
			"key": key,
		})
		return nil, err
	}
	return val, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.prefix+key, value, s.ttl).Err(); err != nil {
		logger.Error("Failed to write state to Redis", err, map[string]interface{}{
			"key": key,
		})
		return err
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		logger.Error("Failed to delete state from Redis", err, map[string]interface{}{
			"key": key,
		})
		return err
	}
	return nil
}
