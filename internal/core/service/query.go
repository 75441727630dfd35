package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/greenhaven/storefront/internal/core/domain"
	"github.com/greenhaven/storefront/internal/core/ports"
)

// queries reads through the per-session query cache. Cache failures are never
// fatal: the backend is asked instead. A result is written back only if the
// session saw no invalidation while it was being fetched.
type queries struct {
	cache ports.QueryCache
	log   zerolog.Logger
}

func cached[T any](ctx context.Context, q queries, sid string, key domain.QueryKey, fetch func(context.Context) (*T, error)) (*T, error) {
	var hit T
	ok, err := q.cache.Get(ctx, sid, key, &hit)
	if err != nil {
		q.log.Warn().Err(err).Strs("key", key).Msg("query cache read failed, fetching")
	} else if ok {
		return &hit, nil
	}

	gen, genErr := q.cache.Generation(ctx, sid)
	v, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	if genErr != nil {
		q.log.Warn().Err(genErr).Strs("key", key).Msg("query cache generation unavailable, not caching")
		return v, nil
	}
	if _, err := q.cache.SetIfUnchanged(ctx, sid, gen, key, v); err != nil {
		q.log.Warn().Err(err).Strs("key", key).Msg("query cache write failed")
	}
	return v, nil
}

// loadSession treats a session that never stored anything as anonymous.
func loadSession(ctx context.Context, store ports.SessionStore, sid string) (*domain.Session, error) {
	sess, err := store.Get(ctx, sid)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return &domain.Session{ID: sid}, nil
	}
	if err != nil {
		return nil, err
	}
	return sess, nil
}
