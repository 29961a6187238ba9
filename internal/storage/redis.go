package storage

import (
	"context"
	"strings"

	"github.com/redis/go-redis/v9"
)

// RedisStore implements Store on top of redis, namespacing all keys
// under a prefix so unrelated data in the same database is untouched.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a new redis-backed store
func NewRedisStore(addr string, db int, prefix string) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	return &RedisStore{
		client: client,
		prefix: prefix + ":",
	}
}

// Get retrieves a value from redis
func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Set stores a value in redis without expiration
func (r *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	return r.client.Set(ctx, r.prefix+key, value, 0).Err()
}

// Delete removes a key from redis
func (r *RedisStore) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.prefix+key).Err()
}

// Keys lists all keys under the prefix
func (r *RedisStore) Keys(ctx context.Context) ([]string, error) {
	prefixed, err := r.client.Keys(ctx, r.prefix+"*").Result()
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(prefixed))
	for _, key := range prefixed {
		keys = append(keys, strings.TrimPrefix(key, r.prefix))
	}
	return keys, nil
}

// Clear removes every key under the prefix
func (r *RedisStore) Clear(ctx context.Context) error {
	keys, err := r.client.Keys(ctx, r.prefix+"*").Result()
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return r.client.Del(ctx, keys...).Err()
}

// Close closes the redis connection
func (r *RedisStore) Close() error {
	return r.client.Close()
}
