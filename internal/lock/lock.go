// Package lock provides the per-key critical sections used when closing a day.
package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"

	"github.com/MrJamesThe3rd/dayledger/internal/operation"
)

// Redis holds keys across every instance sharing the redis server.
type Redis struct {
	client *redislock.Client
}

func NewRedis(rdb *redis.Client) *Redis {
	return &Redis{client: redislock.New(rdb)}
}

func (r *Redis) Obtain(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, error) {
	l, err := r.client.Obtain(ctx, key, ttl, nil)
	if err != nil {
		if errors.Is(err, redislock.ErrNotObtained) {
			return nil, operation.ErrBusy
		}

		return nil, fmt.Errorf("obtaining lock %s: %w", key, err)
	}

	return func(ctx context.Context) error {
		if err := l.Release(ctx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			return fmt.Errorf("releasing lock %s: %w", key, err)
		}

		return nil
	}, nil
}

// Local holds keys within one process. The ttl is ignored: a key is held until
// released.
type Local struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func NewLocal() *Local {
	return &Local{held: make(map[string]struct{})}
}

func (l *Local) Obtain(_ context.Context, key string, _ time.Duration) (func(context.Context) error, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.held[key]; ok {
		return nil, operation.ErrBusy
	}

	l.held[key] = struct{}{}

	var once sync.Once

	return func(context.Context) error {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, key)
			l.mu.Unlock()
		})

		return nil
	}, nil
}
