package backend

import (
	"context"
	"net/http"

	"github.com/greenhaven/storefront/internal/core/domain"
)

func (c *Client) CreateMerchant(ctx context.Context, sid string, in domain.MerchantApplication) (*domain.MerchantApplication, error) {
	var out domain.MerchantApplication
	err := c.do(ctx, sid, call{
		method:   http.MethodPost,
		endpoint: "/merchants",
		path:     "/merchants",
		body:     in,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// SignUpMerchant completes a merchant account from an invitation token.
func (c *Client) SignUpMerchant(ctx context.Context, sid, token string, in domain.MerchantSignup) error {
	return c.do(ctx, sid, call{
		method:   http.MethodPost,
		endpoint: "/merchants/signup/{token}",
		path:     "/merchants/signup/" + seg(token),
		body:     in,
	}, nil)
}
