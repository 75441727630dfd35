package middleware

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/greenhaven/storefront/internal/core/domain"
	"github.com/greenhaven/storefront/internal/core/ports"
)

// RequireAuthenticated lets only sessions holding a token and the
// authenticated flag through. Must run after Session.
func RequireAuthenticated(sessions ports.SessionStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sid := SessionID(c)
			if sid == "" {
				return domain.ErrNotAuthenticated
			}

			sess, err := sessions.Get(c.Request().Context(), sid)
			if errors.Is(err, domain.ErrSessionNotFound) {
				return domain.ErrNotAuthenticated
			}
			if err != nil {
				return err
			}
			if !sess.IsAuthenticated() {
				return domain.ErrNotAuthenticated
			}
			return next(c)
		}
	}
}
