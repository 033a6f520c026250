package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Redis holds a per-report-date lock. Two callers saving the same day at
// once is a lost-update hazard for the running ticket counters; the lock
// serializes them. The TTL bounds how long a crashed writer can hold a day.
type Redis struct {
	Client  *redis.Client
	LockTTL time.Duration
}

func NewRedis(client *redis.Client, lockTTL time.Duration) *Redis {
	if lockTTL <= 0 {
		lockTTL = 2 * time.Minute
	}
	return &Redis{Client: client, LockTTL: lockTTL}
}

func lockKey(date string) string {
	return "report_lock:" + date
}

// LockDate acquires the write lock for one calendar day. Returns false when
// another writer holds it.
func (r *Redis) LockDate(date, holderID string) (bool, error) {
	ok, err := r.Client.SetNX(context.Background(), lockKey(date), holderID, r.LockTTL).Result()
	if err != nil {
		return false, fmt.Errorf("redis lock error: %w", err)
	}
	return ok, nil
}

// UnlockDate releases the lock if this holder still owns it. A lock that
// expired and was re-acquired by someone else is left alone.
func (r *Redis) UnlockDate(date, holderID string) error {
	ctx := context.Background()
	key := lockKey(date)

	val, err := r.Client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil // already released or expired
	}
	if err != nil {
		return err
	}
	if val == holderID {
		_, err := r.Client.Del(ctx, key).Result()
		return err
	}
	return nil
}
