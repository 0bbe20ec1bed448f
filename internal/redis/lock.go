package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Locker is a best-effort per-account mutex over SET NX. It serializes
// concurrent email-send requests for one address across instances before the
// database round-trip; the store's version check remains the backstop.
type Locker struct {
	rdb *redis.Client
}

func NewLocker(rdb *redis.Client) *Locker {
	return &Locker{rdb: rdb}
}

func (l *Locker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return l.rdb.SetNX(ctx, "lock:"+key, 1, ttl).Result()
}

func (l *Locker) Release(ctx context.Context, key string) error {
	return l.rdb.Del(ctx, "lock:"+key).Err()
}
