package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var _ Cache = (*Redis)(nil)

// Redis shares cached views across replicas. Expiry is delegated to Redis
// with SET ... EX, so the TTL semantics match Memory.
type Redis struct {
	client redis.UniversalClient
	ttl    time.Duration
	prefix string
}

// RedisOption configures a Redis cache.
type RedisOption func(*Redis)

// WithKeyPrefix namespaces keys, e.g. per environment.
func WithKeyPrefix(prefix string) RedisOption {
	return func(r *Redis) {
		r.prefix = prefix
	}
}

func NewRedis(client redis.UniversalClient, ttl time.Duration, opts ...RedisOption) *Redis {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	r := &Redis{client: client, ttl: ttl}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (r *Redis) key(ownerID string, view View) string {
	return r.prefix + Key(ownerID, view)
}

func (r *Redis) Get(ctx context.Context, ownerID string, view View) ([]byte, bool, error) {
	data, err := r.client.Get(ctx, r.key(ownerID, view)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get cached %s view: %w", view, err)
	}
	return data, true, nil
}

func (r *Redis) Set(ctx context.Context, ownerID string, view View, data []byte) error {
	if err := r.client.Set(ctx, r.key(ownerID, view), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("set cached %s view: %w", view, err)
	}
	return nil
}

func (r *Redis) Clear(ctx context.Context, ownerID string, views ...View) error {
	if len(views) == 0 {
		return nil
	}
	keys := make([]string, 0, len(views))
	for _, v := range views {
		keys = append(keys, r.key(ownerID, v))
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("clear cached views: %w", err)
	}
	return nil
}
