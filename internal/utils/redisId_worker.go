package utils

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisIdWorker generates globally unique ids: a 31-bit second offset from a
// fixed epoch shifted left 32 bits, OR-ed with a per-day Redis counter.
type RedisIdWorker struct {
	client *redis.Client
}

const (
	// epoch: 2024-01-01 00:00:00 UTC
	beginTimestamp = int64(1704067200)
	maxTimestamp   = int64((1 << 31) - 1)
	maxSequence    = int64((1 << 32) - 1)
	// daily counter keys expire with a little slack past the day boundary
	keyTTL = 48 * time.Hour
)

func NewRedisIdWorker(client *redis.Client) *RedisIdWorker {
	return &RedisIdWorker{client: client}
}

// NextId returns the next id for the given key prefix. INCR is atomic on the
// Redis side, so concurrent instances never collide within a day.
func (w *RedisIdWorker) NextId(ctx context.Context, keyPrefix string) (int64, error) {
	now := time.Now()
	timestamp := now.Unix() - beginTimestamp
	if timestamp < 0 {
		return 0, fmt.Errorf("timestamp is before beginTimestamp")
	}
	if timestamp > maxTimestamp {
		return 0, fmt.Errorf("timestamp overflow: %d exceeds %d", timestamp, maxTimestamp)
	}

	date := now.Format("2006:01:02")
	key := fmt.Sprintf("icr:%s:%s", keyPrefix, date)

	count, err := w.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		// only set expiry when the key is first created, so writes do not
		// keep refreshing the TTL
		ok, err := w.client.Expire(ctx, key, keyTTL).Result()
		if err != nil {
			return 0, err
		}
		if !ok {
			return 0, fmt.Errorf("failed to set expiration for key %s", key)
		}
	}
	if count > maxSequence {
		return 0, fmt.Errorf("sequence overflow: %d exceeds %d", count, maxSequence)
	}

	return (timestamp << 32) | count, nil
}
