package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/greenhaven/storefront/internal/core/domain"
	"github.com/greenhaven/storefront/internal/core/ports"
)

func TestCartHandler_AddItem_Created(t *testing.T) {
	stub := &stubCarts{
		addFn: func(ctx context.Context, sid, productID string) (*ports.AddToCartResult, error) {
			if productID != "p-1" {
				t.Fatalf("unexpected product %q", productID)
			}
			return &ports.AddToCartResult{Created: true}, nil
		},
	}
	h := NewCartHandler(stub)

	c, rec := newContext(t, http.MethodPost, "/v1/cart/items", `{"product":"p-1"}`)
	if err := h.AddItem(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var res ports.AddToCartResult
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !res.Created {
		t.Fatalf("expected created cart")
	}
}

func TestCartHandler_AddItem_BlankProduct(t *testing.T) {
	stub := &stubCarts{
		addFn: func(ctx context.Context, sid, productID string) (*ports.AddToCartResult, error) {
			t.Fatalf("service should not be called")
			return nil, nil
		},
	}
	h := NewCartHandler(stub)

	c, _ := newContext(t, http.MethodPost, "/v1/cart/items", `{"product":"   "}`)
	err := h.AddItem(c)

	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if ve.Fields["product"] != "This field cannot be empty" {
		t.Fatalf("unexpected fields: %+v", ve.Fields)
	}
}

func TestCartHandler_ChangeQuantity_PathParams(t *testing.T) {
	var gotProduct string
	var gotAction domain.QuantityAction
	stub := &stubCarts{
		quantityFn: func(ctx context.Context, sid, productID string, action domain.QuantityAction) error {
			gotProduct, gotAction = productID, action
			return nil
		},
	}
	h := NewCartHandler(stub)

	c, rec := newContext(t, http.MethodPut, "/v1/cart/items/p-1/dec", "")
	c.SetParamNames("product", "action")
	c.SetParamValues("p-1", "dec")

	if err := h.ChangeQuantity(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if gotProduct != "p-1" || gotAction != domain.QuantityDec {
		t.Fatalf("unexpected args: %s %s", gotProduct, gotAction)
	}
}

func TestCartHandler_RemoveItem(t *testing.T) {
	stub := &stubCarts{}
	h := NewCartHandler(stub)

	c, rec := newContext(t, http.MethodDelete, "/v1/cart/items/p-9", "")
	c.SetParamNames("product")
	c.SetParamValues("p-9")

	if err := h.RemoveItem(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent || len(stub.removed) != 1 || stub.removed[0] != "p-9" {
		t.Fatalf("unexpected result: %d %v", rec.Code, stub.removed)
	}
}

func TestCartHandler_Checkout_NoCart(t *testing.T) {
	stub := &stubCarts{
		checkoutFn: func(ctx context.Context, sid string) (*domain.Order, error) {
			return nil, domain.ErrNoCart
		},
	}
	h := NewCartHandler(stub)

	c, _ := newContext(t, http.MethodPost, "/v1/cart/checkout", "")
	if err := h.Checkout(c); !errors.Is(err, domain.ErrNoCart) {
		t.Fatalf("expected ErrNoCart, got %v", err)
	}
}

func TestCartHandler_Checkout_Success(t *testing.T) {
	stub := &stubCarts{
		checkoutFn: func(ctx context.Context, sid string) (*domain.Order, error) {
			return &domain.Order{ID: "o-1"}, nil
		},
	}
	h := NewCartHandler(stub)

	c, rec := newContext(t, http.MethodPost, "/v1/cart/checkout", "")
	if err := h.Checkout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var order domain.Order
	if err := json.Unmarshal(rec.Body.Bytes(), &order); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if order.ID != "o-1" {
		t.Fatalf("unexpected order: %+v", order)
	}
}

func TestWishlistHandler_Toggle(t *testing.T) {
	h := NewWishlistHandler(&stubWishlist{})

	c, rec := newContext(t, http.MethodPost, "/v1/wishlist/p-1/toggle", "")
	c.SetParamNames("product")
	c.SetParamValues("p-1")

	if err := h.Toggle(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var res toggleResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if res.Product != "p-1" || !res.IsLiked {
		t.Fatalf("unexpected toggle response: %+v", res)
	}
}
