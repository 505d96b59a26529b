package gateway

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// viewKeyPrefix namespaces cached view keys in redis.
const viewKeyPrefix = "guildcore:view:"

// RedisInvalidator evicts cached view keys from a redis instance shared with
// read-side consumers.
type RedisInvalidator struct {
	rdb *redis.Client
}

// NewRedisInvalidator connects a redis client with the given options.
func NewRedisInvalidator(opts *redis.Options) *RedisInvalidator {
	return &RedisInvalidator{rdb: redis.NewClient(opts)}
}

// Close releases the redis connection.
func (r *RedisInvalidator) Close() error {
	return r.rdb.Close()
}

// Ping verifies redis connectivity. Useful for health checks.
func (r *RedisInvalidator) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

// Invalidate deletes the namespaced view keys in one round trip.
func (r *RedisInvalidator) Invalidate(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	namespaced := make([]string, len(keys))
	for i, key := range keys {
		namespaced[i] = viewKeyPrefix + key
	}
	if err := r.rdb.Del(ctx, namespaced...).Err(); err != nil {
		return fmt.Errorf("invalidate view keys: %w", err)
	}
	return nil
}
