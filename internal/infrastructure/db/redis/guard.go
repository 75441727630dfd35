package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// InFlightGuard marks a session's auth flow request as pending.
// Key format: inflight:<sid>
//
// The TTL matches the backend timeout so a crashed holder never locks the
// flow for longer than one request could take.
type InFlightGuard struct {
	client *redis.Client
	ttl    time.Duration
}

func NewInFlightGuard(client *redis.Client, ttl time.Duration) *InFlightGuard {
	return &InFlightGuard{client: client, ttl: ttl}
}

// Acquire sets the mark and reports false when one is already set.
func (g *InFlightGuard) Acquire(ctx context.Context, sid string) (bool, error) {
	ok, err := g.client.SetNX(ctx, g.key(sid), "1", g.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("inflight acquire: %w", err)
	}
	return ok, nil
}

func (g *InFlightGuard) Release(ctx context.Context, sid string) error {
	if err := g.client.Del(ctx, g.key(sid)).Err(); err != nil {
		return fmt.Errorf("inflight release: %w", err)
	}
	return nil
}

func (g *InFlightGuard) Pending(ctx context.Context, sid string) (bool, error) {
	n, err := g.client.Exists(ctx, g.key(sid)).Result()
	if err != nil {
		return false, fmt.Errorf("inflight check: %w", err)
	}
	return n > 0, nil
}

func (g *InFlightGuard) key(sid string) string {
	return buildKey("inflight", sid)
}
