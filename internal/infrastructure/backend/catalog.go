package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/greenhaven/storefront/internal/core/domain"
)

func (c *Client) Products(ctx context.Context, sid string, f domain.ProductFilter) (*domain.ProductPage, error) {
	var out domain.ProductPage
	err := c.do(ctx, sid, call{
		method:   http.MethodGet,
		endpoint: "/products/list",
		path:     "/products/list",
		query:    productQuery(f),
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Product(ctx context.Context, sid, id string) (*domain.Product, error) {
	var out domain.Product
	err := c.do(ctx, sid, call{
		method:   http.MethodGet,
		endpoint: "/products/item/{id}",
		path:     "/products/item/" + seg(id),
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SearchProducts(ctx context.Context, sid, name string) (*domain.Page[domain.Product], error) {
	var out domain.Page[domain.Product]
	err := c.do(ctx, sid, call{
		method:   http.MethodGet,
		endpoint: "/products/list/search/{name}",
		path:     "/products/list/search/" + seg(name),
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Categories(ctx context.Context, sid string) (*domain.Page[domain.Category], error) {
	var out domain.Page[domain.Category]
	err := c.do(ctx, sid, call{
		method:   http.MethodGet,
		endpoint: "/categories/list",
		path:     "/categories/list",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ProductReviews(ctx context.Context, sid, productID string, p domain.ListParams) (*domain.Page[domain.Review], error) {
	var out domain.Page[domain.Review]
	err := c.do(ctx, sid, call{
		method:   http.MethodGet,
		endpoint: "/reviews/{productId}",
		path:     "/reviews/" + seg(productID),
		query:    listQuery(p),
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// productQuery renders only the filters that are set.
func productQuery(f domain.ProductFilter) url.Values {
	q := listQuery(f.ListParams)
	if f.Min != nil {
		q.Set("min", strconv.FormatFloat(*f.Min, 'f', -1, 64))
	}
	if f.Max != nil {
		q.Set("max", strconv.FormatFloat(*f.Max, 'f', -1, 64))
	}
	if f.Category != "" {
		q.Set("category", f.Category)
	}
	if f.Rating > 0 {
		q.Set("rating", strconv.Itoa(f.Rating))
	}
	if f.SortBy != "" {
		q.Set("sortBy", f.SortBy)
	}
	if f.InDiscount {
		q.Set("inDiscount", "true")
	}
	if f.IsNew {
		q.Set("isNew", "true")
	}
	if f.GeneralRecommendation {
		q.Set("generalRecommendation", "true")
	}
	return q
}
