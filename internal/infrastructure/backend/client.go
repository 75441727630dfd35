// Package backend is the typed data-access client for the storefront REST
// API. Every call resolves the caller's bearer token and locale from the
// session store, and a 401 answer clears the session's credentials.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/greenhaven/storefront/internal/api/metrics"
	"github.com/greenhaven/storefront/internal/core/domain"
	"github.com/greenhaven/storefront/internal/core/ports"
)

const (
	defaultTimeout = 180 * time.Second
	maxBodyBytes   = 4 << 20
)

// Config holds client configuration.
type Config struct {
	BaseURL string
	Timeout time.Duration
	// RPS and Burst bound outbound traffic for the whole process. Zero RPS
	// disables the limiter.
	RPS   float64
	Burst int
}

// Client talks to the storefront backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	sessions   ports.SessionStore
	log        zerolog.Logger
}

// New creates a backend client. A nil httpClient gets one with cfg.Timeout.
func New(cfg Config, sessions ports.SessionStore, httpClient *http.Client, log zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RPS > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RPS), burst)
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
		limiter:    limiter,
		sessions:   sessions,
		log:        log,
	}
}

// call describes one backend request. endpoint is the route template used as
// the metrics label; path is the concrete path.
type call struct {
	method   string
	endpoint string
	path     string
	query    url.Values
	body     any
	// unchecked skips the {success: false} check, for endpoints whose caller
	// interprets the flag itself.
	unchecked bool
}

// envelope carries the fields every backend answer may have.
type envelope struct {
	Success *bool           `json:"success"`
	Message json.RawMessage `json:"message"`
	Error   json.RawMessage `json:"error"`
}

func (c *Client) do(ctx context.Context, sid string, rc call, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%s %s: %w: %v", rc.method, rc.endpoint, domain.ErrBackendUnavailable, err)
	}

	req, err := c.newRequest(ctx, sid, rc)
	if err != nil {
		return err
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.BackendRequestDuration.WithLabelValues(rc.endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.BackendRequestsTotal.WithLabelValues(rc.endpoint, rc.method, "transport").Inc()
		c.log.Warn().Err(err).Str("endpoint", rc.endpoint).Str("method", rc.method).Msg("backend request failed")
		return fmt.Errorf("%s %s: %w: %v", rc.method, rc.endpoint, domain.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	metrics.BackendRequestsTotal.WithLabelValues(rc.endpoint, rc.method, strconv.Itoa(resp.StatusCode)).Inc()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%s %s: read response: %w: %v", rc.method, rc.endpoint, domain.ErrBackendUnavailable, err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		c.expire(ctx, sid)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &domain.BackendError{Status: resp.StatusCode, Message: extractMessage(raw)}
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if !rc.unchecked {
		var env envelope
		if json.Unmarshal(raw, &env) == nil && env.Success != nil && !*env.Success {
			return &domain.BackendError{Status: http.StatusUnprocessableEntity, Message: extractMessage(raw)}
		}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s %s: unmarshal response: %w", rc.method, rc.endpoint, err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, sid string, rc call) (*http.Request, error) {
	var body io.Reader
	if rc.body != nil {
		b, err := json.Marshal(rc.body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	target := c.baseURL + rc.path
	if len(rc.query) > 0 {
		target += "?" + rc.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, rc.method, target, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if rc.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	sess, err := c.sessions.Get(ctx, sid)
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
	case err != nil:
		return nil, fmt.Errorf("load session: %w", err)
	default:
		if sess.AccessToken != "" {
			req.Header.Set("Authorization", "Bearer "+sess.AccessToken)
		}
		if sess.Locale != "" {
			req.Header.Set("Accept-Language", sess.Locale)
		}
	}
	return req, nil
}

// expire clears the token and cached profile after the backend rejected them.
// The request error is still returned to the caller.
func (c *Client) expire(ctx context.Context, sid string) {
	metrics.SessionsExpiredTotal.Inc()
	if err := c.sessions.ClearCredentials(context.WithoutCancel(ctx), sid); err != nil {
		c.log.Error().Err(err).Str("session_id", sid).Msg("failed to clear expired credentials")
		return
	}
	c.log.Info().Str("session_id", sid).Msg("backend rejected token, credentials cleared")
}

// extractMessage pulls a human message out of an error body. The backend sends
// either a string or a list of strings under "message", or an "error" string.
func extractMessage(raw []byte) string {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return strings.TrimSpace(string(raw))
	}
	for _, field := range []json.RawMessage{env.Message, env.Error} {
		if len(field) == 0 {
			continue
		}
		var s string
		if json.Unmarshal(field, &s) == nil && s != "" {
			return s
		}
		var list []string
		if json.Unmarshal(field, &list) == nil && len(list) > 0 {
			return strings.Join(list, ", ")
		}
	}
	return ""
}

func seg(s string) string {
	return url.PathEscape(s)
}

func listQuery(p domain.ListParams) url.Values {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	return q
}
