package backend

import (
	"context"
	"net/http"

	"github.com/greenhaven/storefront/internal/core/domain"
)

func (c *Client) Wishlist(ctx context.Context, sid string) (*domain.Page[domain.WishlistItem], error) {
	var out domain.Page[domain.WishlistItem]
	if err := c.do(ctx, sid, call{method: http.MethodGet, endpoint: "/wishlist", path: "/wishlist"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ToggleWishlist sets the like state of a product and returns the updated item.
func (c *Client) ToggleWishlist(ctx context.Context, sid, productID string, isLiked bool) (*domain.WishlistItem, error) {
	var out struct {
		Wishlist *domain.WishlistItem `json:"wishlist"`
	}
	err := c.do(ctx, sid, call{
		method:   http.MethodPost,
		endpoint: "/wishlist",
		path:     "/wishlist",
		body:     map[string]any{"product": productID, "isLiked": isLiked},
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.Wishlist, nil
}

func (c *Client) ClearWishlist(ctx context.Context, sid string) error {
	return c.do(ctx, sid, call{method: http.MethodDelete, endpoint: "/wishlist", path: "/wishlist"}, nil)
}
