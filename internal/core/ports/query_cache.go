package ports

import (
	"context"

	"github.com/greenhaven/storefront/internal/core/domain"
)

// QueryCache stores query results per session under semantic keys.
type QueryCache interface {
	// Get decodes a fresh entry into dst and reports whether one existed.
	Get(ctx context.Context, sid string, key domain.QueryKey, dst any) (bool, error)
	Set(ctx context.Context, sid string, key domain.QueryKey, value any) error
	// Generation changes whenever the session's entries are invalidated or
	// dropped.
	Generation(ctx context.Context, sid string) (int64, error)
	// SetIfUnchanged stores value only while the session is still at gen, so a
	// result fetched before an invalidation is never written back after it.
	SetIfUnchanged(ctx context.Context, sid string, gen int64, key domain.QueryKey, value any) (bool, error)
	// Invalidate drops each key and every key it prefixes.
	Invalidate(ctx context.Context, sid string, keys ...domain.QueryKey) error
	// Drop removes every entry of the session.
	Drop(ctx context.Context, sid string) error
}

// Invalidator schedules cache invalidation without blocking the caller.
type Invalidator interface {
	Invalidate(sid string, keys ...domain.QueryKey)
}
