package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/greenhaven/storefront/internal/api/metrics"
	"github.com/greenhaven/storefront/internal/core/domain"
)

// DefaultStaleTime is how long a cached query is served before a refetch.
const DefaultStaleTime = 2 * time.Minute

// generationTTL outlives any fetch, so an expired counter never matches a
// generation read by a fetch still in progress.
const generationTTL = 24 * time.Hour

// KEYS[1] generation counter, KEYS[2] entry; ARGV gen, payload, ttl in ms.
var setIfGeneration = redis.NewScript(`
if (redis.call("GET", KEYS[1]) or "0") ~= ARGV[1] then
	return 0
end
redis.call("SET", KEYS[2], ARGV[2], "PX", ARGV[3])
return 1
`)

// QueryCache stores JSON-encoded query results per session.
// Key format: qc:<sid>:<segment>:<segment>...
// Generation counter: qcgen:<sid>
type QueryCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewQueryCache(client *redis.Client, staleTime time.Duration) *QueryCache {
	if staleTime <= 0 {
		staleTime = DefaultStaleTime
	}
	return &QueryCache{client: client, ttl: staleTime}
}

func (c *QueryCache) Get(ctx context.Context, sid string, key domain.QueryKey, dst any) (bool, error) {
	raw, err := c.client.Get(ctx, c.key(sid, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.QueryCacheLookupsTotal.WithLabelValues("miss").Inc()
		return false, nil
	}
	if err != nil {
		metrics.QueryCacheLookupsTotal.WithLabelValues("error").Inc()
		return false, fmt.Errorf("query cache get: %w", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		metrics.QueryCacheLookupsTotal.WithLabelValues("error").Inc()
		return false, fmt.Errorf("query cache decode: %w", err)
	}
	metrics.QueryCacheLookupsTotal.WithLabelValues("hit").Inc()
	return true, nil
}

func (c *QueryCache) Set(ctx context.Context, sid string, key domain.QueryKey, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("query cache encode: %w", err)
	}
	if err := c.client.Set(ctx, c.key(sid, key), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("query cache set: %w", err)
	}
	return nil
}

func (c *QueryCache) Generation(ctx context.Context, sid string) (int64, error) {
	gen, err := c.client.Get(ctx, c.generationKey(sid)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("query cache generation: %w", err)
	}
	return gen, nil
}

func (c *QueryCache) SetIfUnchanged(ctx context.Context, sid string, gen int64, key domain.QueryKey, value any) (bool, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return false, fmt.Errorf("query cache encode: %w", err)
	}
	keys := []string{c.generationKey(sid), c.key(sid, key)}
	stored, err := setIfGeneration.Run(ctx, c.client, keys, strconv.FormatInt(gen, 10), raw, c.ttl.Milliseconds()).Int()
	if err != nil {
		return false, fmt.Errorf("query cache set: %w", err)
	}
	return stored == 1, nil
}

// Invalidate deletes each key and every key it prefixes.
func (c *QueryCache) Invalidate(ctx context.Context, sid string, keys ...domain.QueryKey) error {
	if err := c.bump(ctx, sid); err != nil {
		return fmt.Errorf("query cache invalidate: %w", err)
	}
	for _, key := range keys {
		exact := c.key(sid, key)
		if err := c.client.Del(ctx, exact).Err(); err != nil {
			return fmt.Errorf("query cache invalidate: %w", err)
		}
		if err := deleteMatching(ctx, c.client, exact+":*"); err != nil {
			return fmt.Errorf("query cache invalidate: %w", err)
		}
	}
	return nil
}

// Drop deletes every cached query of the session.
func (c *QueryCache) Drop(ctx context.Context, sid string) error {
	if err := c.bump(ctx, sid); err != nil {
		return fmt.Errorf("query cache drop: %w", err)
	}
	if err := deleteMatching(ctx, c.client, buildKey("qc", sid)+":*"); err != nil {
		return fmt.Errorf("query cache drop: %w", err)
	}
	return nil
}

// bump runs before any delete so that fetches racing the invalidation fail
// their conditional write.
func (c *QueryCache) bump(ctx context.Context, sid string) error {
	pipe := c.client.TxPipeline()
	pipe.Incr(ctx, c.generationKey(sid))
	pipe.Expire(ctx, c.generationKey(sid), generationTTL)
	_, err := pipe.Exec(ctx)
	return err
}

func (c *QueryCache) generationKey(sid string) string {
	return buildKey("qcgen", sid)
}

func (c *QueryCache) key(sid string, key domain.QueryKey) string {
	return buildKey("qc", append([]string{sid}, key...)...)
}
