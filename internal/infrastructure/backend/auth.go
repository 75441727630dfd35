package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/greenhaven/storefront/internal/core/ports"
)

// Login performs step 1 of the login flow.
func (c *Client) Login(ctx context.Context, sid string, in ports.LoginInput) (*ports.AuthResult, error) {
	var out ports.AuthResult
	err := c.do(ctx, sid, call{
		method:   http.MethodPost,
		endpoint: "/auth/login",
		path:     "/auth/login",
		query:    url.Values{"platform": {"web"}},
		body:     in,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Register performs step 1 of the registration flow.
func (c *Client) Register(ctx context.Context, sid string, in ports.RegisterInput) (*ports.AuthResult, error) {
	var out ports.AuthResult
	err := c.do(ctx, sid, call{
		method:   http.MethodPost,
		endpoint: "/auth/register",
		path:     "/auth/register",
		body:     in,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// CheckPhone confirms the OTP. A {success: false} answer is returned as false,
// not as an error.
func (c *Client) CheckPhone(ctx context.Context, sid string, in ports.CheckPhoneInput) (bool, error) {
	var out struct {
		Success bool `json:"success"`
	}
	err := c.do(ctx, sid, call{
		method:    http.MethodPost,
		endpoint:  "/auth/check-phone",
		path:      "/auth/check-phone",
		body:      in,
		unchecked: true,
	}, &out)
	if err != nil {
		return false, err
	}
	return out.Success, nil
}
