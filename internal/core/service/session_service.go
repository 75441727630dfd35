package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/greenhaven/storefront/internal/core/domain"
	"github.com/greenhaven/storefront/internal/core/ports"
)

type SessionService struct {
	sessions      ports.SessionStore
	cache         ports.QueryCache
	flows         ports.FlowStore
	defaultLocale string
	log           zerolog.Logger
}

func NewSessionService(sessions ports.SessionStore, cache ports.QueryCache, flows ports.FlowStore, defaultLocale string, log zerolog.Logger) *SessionService {
	if defaultLocale == "" {
		defaultLocale = domain.LocaleEN
	}
	return &SessionService{
		sessions:      sessions,
		cache:         cache,
		flows:         flows,
		defaultLocale: defaultLocale,
		log:           log,
	}
}

// Current reports the session as the UI header renders it. The profile is only
// exposed for an authenticated session.
func (s *SessionService) Current(ctx context.Context, sid string) (*ports.SessionView, error) {
	sess, err := loadSession(ctx, s.sessions, sid)
	if err != nil {
		return nil, fmt.Errorf("current session: %w", err)
	}

	view := &ports.SessionView{
		Authenticated: sess.IsAuthenticated(),
		HasCart:       sess.HasCart(),
		Locale:        s.localeOf(sess),
	}
	if view.Authenticated {
		view.User = sess.User
	}
	return view, nil
}

// Logout clears every slot of the session, its cached queries and any open
// auth flow. The locale goes too; the next read falls back to the default.
func (s *SessionService) Logout(ctx context.Context, sid string) error {
	if err := s.sessions.Clear(ctx, sid); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	if err := s.cache.Drop(ctx, sid); err != nil {
		s.log.Warn().Err(err).Str("session_id", sid).Msg("failed to drop query cache on logout")
	}
	if err := s.flows.Delete(ctx, sid); err != nil {
		s.log.Warn().Err(err).Str("session_id", sid).Msg("failed to drop auth flow on logout")
	}

	s.log.Info().Str("session_id", sid).Msg("session logged out")
	return nil
}

func (s *SessionService) Locale(ctx context.Context, sid string) (string, error) {
	sess, err := loadSession(ctx, s.sessions, sid)
	if err != nil {
		return "", fmt.Errorf("locale: %w", err)
	}
	return s.localeOf(sess), nil
}

// SetLocale persists the UI language. Cached queries are dropped because the
// backend localizes names and messages.
func (s *SessionService) SetLocale(ctx context.Context, sid, locale string) error {
	if !domain.IsSupportedLocale(locale) {
		return &domain.ValidationError{Fields: map[string]string{"locale": "locale must be one of: en ru uz"}}
	}
	if err := s.sessions.SetLocale(ctx, sid, locale); err != nil {
		return fmt.Errorf("set locale: %w", err)
	}
	if err := s.cache.Drop(ctx, sid); err != nil {
		s.log.Warn().Err(err).Str("session_id", sid).Msg("failed to drop query cache on locale change")
	}
	return nil
}

func (s *SessionService) localeOf(sess *domain.Session) string {
	if sess.Locale == "" {
		return s.defaultLocale
	}
	return sess.Locale
}
