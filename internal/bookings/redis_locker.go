package bookings

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Locker serializes booking attempts per technician. Deployments whose
// store provides transactional isolation do not need one; it is the
// substitute for stores that cannot close the check-then-act window on
// their own.
type Locker interface {
	WithLock(ctx context.Context, technicianID string, fn func(ctx context.Context) error) error
}

// RedisLocker implements Locker with a Redis SET NX lease keyed by
// technician id.
type RedisLocker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisLocker creates a locker with the given lease TTL.
func NewRedisLocker(client *redis.Client, ttl time.Duration) *RedisLocker {
	if client == nil {
		panic("bookings: redis client required")
	}
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &RedisLocker{client: client, ttl: ttl}
}

const lockRetryDelay = 50 * time.Millisecond

// WithLock acquires the technician's lease, runs fn, and releases the
// lease only if this caller still owns it.
func (l *RedisLocker) WithLock(ctx context.Context, technicianID string, fn func(ctx context.Context) error) error {
	key := "booking_lock:" + technicianID
	token := uuid.NewString()

	deadline := time.Now().Add(l.ttl)
	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return fmt.Errorf("bookings: acquire lock: %w", err)
		}
		if ok {
			break
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("bookings: technician %s lock busy", technicianID)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(lockRetryDelay):
		}
	}

	defer func() {
		// Compare-and-delete so an expired lease taken over by another
		// caller is never released from here.
		const release = `
			if redis.call("get", KEYS[1]) == ARGV[1] then
				return redis.call("del", KEYS[1])
			end
			return 0
		`
		_ = l.client.Eval(context.WithoutCancel(ctx), release, []string{key}, token).Err()
	}()

	return fn(ctx)
}
