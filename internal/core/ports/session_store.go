package ports

import (
	"context"

	"github.com/greenhaven/storefront/internal/core/domain"
)

// SessionStore persists the per-session client slots. Each setter writes
// exactly one slot.
type SessionStore interface {
	// Get returns domain.ErrSessionNotFound for a session that never wrote a slot.
	Get(ctx context.Context, sid string) (*domain.Session, error)
	SetToken(ctx context.Context, sid, token string) error
	SetUser(ctx context.Context, sid string, user *domain.Profile) error
	SetAuthenticated(ctx context.Context, sid string, authenticated bool) error
	SetCartID(ctx context.Context, sid, cartID string) error
	SetLocale(ctx context.Context, sid, locale string) error
	// ClearCredentials removes the token and cached profile.
	ClearCredentials(ctx context.Context, sid string) error
	ClearCartID(ctx context.Context, sid string) error
	// Clear removes every slot.
	Clear(ctx context.Context, sid string) error
}
