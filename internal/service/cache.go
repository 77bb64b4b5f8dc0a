package service

import (
	"context"
	"time"

	"github.com/jdavey/taskhub-api/internal/platform/redis"
)

// ErrCacheMiss is the sentinel a Cache returns from Get when the key is
// absent. It is the redis client's miss error so callers can test with
// errors.Is without importing the client package.
var ErrCacheMiss = redis.ErrCacheMiss

// Cache is the advisory key/value cache consumed by the task service for
// idempotent reads. internal/platform/redis.Client satisfies it. The cache
// is never authoritative; implementations signal absence with an error and
// callers fall back to the store.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}
