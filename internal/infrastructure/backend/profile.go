package backend

import (
	"context"
	"net/http"

	"github.com/greenhaven/storefront/internal/core/domain"
)

func (c *Client) Purchases(ctx context.Context, sid string, p domain.ListParams) (*domain.Page[domain.Purchase], error) {
	var out domain.Page[domain.Purchase]
	err := c.do(ctx, sid, call{
		method:   http.MethodGet,
		endpoint: "/orders/me",
		path:     "/orders/me",
		query:    listQuery(p),
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) MyReviews(ctx context.Context, sid string, p domain.ListParams) (*domain.Page[domain.Review], error) {
	var out domain.Page[domain.Review]
	err := c.do(ctx, sid, call{
		method:   http.MethodGet,
		endpoint: "/reviews/me",
		path:     "/reviews/me",
		query:    listQuery(p),
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) PostReview(ctx context.Context, sid string, in domain.ReviewInput) error {
	return c.do(ctx, sid, call{method: http.MethodPost, endpoint: "/reviews", path: "/reviews", body: in}, nil)
}

func (c *Client) Addresses(ctx context.Context, sid string, p domain.ListParams) (*domain.Page[domain.Address], error) {
	var out domain.Page[domain.Address]
	err := c.do(ctx, sid, call{
		method:   http.MethodGet,
		endpoint: "/addresses",
		path:     "/addresses",
		query:    listQuery(p),
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateAddress(ctx context.Context, sid string, in domain.AddressInput) error {
	return c.do(ctx, sid, call{method: http.MethodPost, endpoint: "/addresses", path: "/addresses", body: in}, nil)
}

func (c *Client) DeleteAddress(ctx context.Context, sid, id string) error {
	return c.do(ctx, sid, call{
		method:   http.MethodDelete,
		endpoint: "/addresses/{id}",
		path:     "/addresses/" + seg(id),
	}, nil)
}

func (c *Client) SetDefaultAddress(ctx context.Context, sid, id string, isDefault bool) error {
	return c.do(ctx, sid, call{
		method:   http.MethodPut,
		endpoint: "/addresses/{id}",
		path:     "/addresses/" + seg(id),
		body:     map[string]bool{"isDefault": isDefault},
	}, nil)
}
