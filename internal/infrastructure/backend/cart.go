package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/greenhaven/storefront/internal/core/domain"
)

func (c *Client) GetCart(ctx context.Context, sid string) (*domain.Cart, error) {
	var out domain.Cart
	if err := c.do(ctx, sid, call{method: http.MethodGet, endpoint: "/cart", path: "/cart"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateCart mints a cart holding lines and returns its id.
func (c *Client) CreateCart(ctx context.Context, sid string, lines []domain.CartItemDetails) (string, error) {
	var out struct {
		CartID string `json:"cartId"`
	}
	err := c.do(ctx, sid, call{
		method:   http.MethodPost,
		endpoint: "/cart",
		path:     "/cart",
		body:     map[string]any{"products": lines},
	}, &out)
	if err != nil {
		return "", err
	}
	if out.CartID == "" {
		return "", fmt.Errorf("create cart: %w", &domain.BackendError{Status: http.StatusBadGateway, Message: "cart id missing from response"})
	}
	return out.CartID, nil
}

func (c *Client) AddToCart(ctx context.Context, sid, cartID string, line domain.CartItemDetails) error {
	return c.do(ctx, sid, call{
		method:   http.MethodPost,
		endpoint: "/cart/{cart}",
		path:     "/cart/" + seg(cartID),
		body:     map[string]any{"product": line},
	}, nil)
}

func (c *Client) RemoveFromCart(ctx context.Context, sid, cartID, productID string) error {
	return c.do(ctx, sid, call{
		method:   http.MethodDelete,
		endpoint: "/cart/{cart}/{product}",
		path:     "/cart/" + seg(cartID) + "/" + seg(productID),
	}, nil)
}

func (c *Client) RemoveCart(ctx context.Context, sid, cartID string) error {
	return c.do(ctx, sid, call{
		method:   http.MethodDelete,
		endpoint: "/cart/{cart}",
		path:     "/cart/" + seg(cartID),
	}, nil)
}

func (c *Client) ChangeQuantity(ctx context.Context, sid, cartID, productID string, action domain.QuantityAction) error {
	return c.do(ctx, sid, call{
		method:   http.MethodPut,
		endpoint: "/cart/{cart}/{product}/{action}",
		path:     "/cart/" + seg(cartID) + "/" + seg(productID) + "/" + seg(string(action)),
	}, nil)
}

// MakeOrder initiates checkout for the cart.
func (c *Client) MakeOrder(ctx context.Context, sid, cartID string, total float64) (*domain.Order, error) {
	var out struct {
		Order domain.Order `json:"order"`
	}
	err := c.do(ctx, sid, call{
		method:   http.MethodPost,
		endpoint: "/orders",
		path:     "/orders",
		body:     map[string]any{"cartId": cartID, "total": total},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out.Order, nil
}
