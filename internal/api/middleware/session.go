package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	// SessionCookie carries the signed session handle for browsers.
	SessionCookie = "sf_session"
	// SessionHeader carries the handle for non-browser clients. A freshly
	// minted handle is echoed back in it.
	SessionHeader = "X-Session-Token"
	// SessionIDKey is the echo context key holding the session id.
	SessionIDKey = "session_id"

	sessionCookieMaxAge = 365 * 24 * time.Hour
)

// SessionConfig configures the Session middleware.
type SessionConfig struct {
	Secret       []byte
	CookieSecure bool
	// Now is overridable in tests.
	Now func() time.Time
}

type sessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// Session resolves the caller's session from the signed handle, or mints a
// new anonymous one, and injects the session id into the context.
func Session(cfg SessionConfig) echo.MiddlewareFunc {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sid, err := ParseSessionToken(cfg.Secret, sessionToken(c))
			if err != nil {
				sid = uuid.NewString()
				token, err := IssueSessionToken(cfg.Secret, sid, cfg.Now())
				if err != nil {
					return err
				}
				c.SetCookie(&http.Cookie{
					Name:     SessionCookie,
					Value:    token,
					Path:     "/",
					MaxAge:   int(sessionCookieMaxAge.Seconds()),
					HttpOnly: true,
					Secure:   cfg.CookieSecure,
					SameSite: http.SameSiteLaxMode,
				})
				c.Response().Header().Set(SessionHeader, token)
			}

			c.Set(SessionIDKey, sid)
			return next(c)
		}
	}
}

// SessionID returns the id injected by Session, or "" when it did not run.
func SessionID(c echo.Context) string {
	sid, _ := c.Get(SessionIDKey).(string)
	return sid
}

// IssueSessionToken signs a handle for sid.
func IssueSessionToken(secret []byte, sid string, now time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		SessionID: sid,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
		},
	})
	return token.SignedString(secret)
}

// ParseSessionToken verifies an HS256 handle and returns its session id.
func ParseSessionToken(secret []byte, raw string) (string, error) {
	if raw == "" {
		return "", errors.New("missing session token")
	}

	claims := &sessionClaims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return secret, nil
	})
	if err != nil || !tkn.Valid {
		return "", errors.New("invalid session token")
	}
	if _, err := uuid.Parse(claims.SessionID); err != nil {
		return "", errors.New("invalid session id")
	}
	return claims.SessionID, nil
}

// The header wins over the cookie so API clients can switch sessions.
func sessionToken(c echo.Context) string {
	if token := c.Request().Header.Get(SessionHeader); token != "" {
		return token
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return cookie.Value
	}
	return ""
}
