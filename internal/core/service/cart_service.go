package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/greenhaven/storefront/internal/core/domain"
	"github.com/greenhaven/storefront/internal/core/ports"
)

// CartService orchestrates the cart: minting it on first add, quantity
// changes and checkout. Every successful mutation invalidates ["cart"].
type CartService struct {
	backend     ports.CartBackend
	catalog     ports.CatalogBackend
	sessions    ports.SessionStore
	q           queries
	invalidator ports.Invalidator
	log         zerolog.Logger
}

func NewCartService(
	backend ports.CartBackend,
	catalog ports.CatalogBackend,
	sessions ports.SessionStore,
	cache ports.QueryCache,
	invalidator ports.Invalidator,
	log zerolog.Logger,
) *CartService {
	return &CartService{
		backend:     backend,
		catalog:     catalog,
		sessions:    sessions,
		q:           queries{cache: cache, log: log},
		invalidator: invalidator,
		log:         log,
	}
}

func (s *CartService) Cart(ctx context.Context, sid string) (*ports.CartView, error) {
	sess, err := loadSession(ctx, s.sessions, sid)
	if err != nil {
		return nil, fmt.Errorf("cart: %w", err)
	}

	cart, err := cached(ctx, s.q, sid, domain.KeyCart, func(ctx context.Context) (*domain.Cart, error) {
		return s.backend.GetCart(ctx, sid)
	})
	if err != nil {
		return nil, fmt.Errorf("cart: %w", err)
	}

	items := cart.Products
	if items == nil {
		items = []domain.CartItem{}
	}
	for i := range items {
		items[i].Product.Decorate()
	}
	return &ports.CartView{
		Items:   items,
		Total:   cart.Total(),
		HasCart: sess.HasCart(),
	}, nil
}

// AddItem puts one unit of the product in the cart at its effective price.
// Without a stored cart id a cart is created and its id persisted.
func (s *CartService) AddItem(ctx context.Context, sid, productID string) (*ports.AddToCartResult, error) {
	sess, err := loadSession(ctx, s.sessions, sid)
	if err != nil {
		return nil, fmt.Errorf("add to cart: %w", err)
	}

	product, err := cached(ctx, s.q, sid, domain.ProductKey(productID), func(ctx context.Context) (*domain.Product, error) {
		return s.catalog.Product(ctx, sid, productID)
	})
	if err != nil {
		return nil, fmt.Errorf("add to cart: %w", err)
	}
	line := domain.NewCartLine(product)
	if line.Product == "" {
		line.Product = productID
	}

	result := &ports.AddToCartResult{}
	if sess.HasCart() {
		if err := s.backend.AddToCart(ctx, sid, sess.CartID, line); err != nil {
			return nil, fmt.Errorf("add to cart: %w", err)
		}
	} else {
		cartID, err := s.backend.CreateCart(ctx, sid, []domain.CartItemDetails{line})
		if err != nil {
			return nil, fmt.Errorf("create cart: %w", err)
		}
		if err := s.sessions.SetCartID(ctx, sid, cartID); err != nil {
			return nil, fmt.Errorf("create cart: persist cart id: %w", err)
		}
		result.Created = true
		s.log.Info().Str("session_id", sid).Str("cart_id", cartID).Msg("cart created")
	}

	s.invalidator.Invalidate(sid, domain.KeyCart)
	return result, nil
}

func (s *CartService) RemoveItem(ctx context.Context, sid, productID string) error {
	cartID, err := s.cartID(ctx, sid)
	if err != nil {
		return fmt.Errorf("remove from cart: %w", err)
	}
	if err := s.backend.RemoveFromCart(ctx, sid, cartID, productID); err != nil {
		return fmt.Errorf("remove from cart: %w", err)
	}
	s.invalidator.Invalidate(sid, domain.KeyCart)
	return nil
}

func (s *CartService) ChangeQuantity(ctx context.Context, sid, productID string, action domain.QuantityAction) error {
	if !action.Valid() {
		return &domain.ValidationError{Fields: map[string]string{"action": "action must be one of: inc dec"}}
	}
	cartID, err := s.cartID(ctx, sid)
	if err != nil {
		return fmt.Errorf("change quantity: %w", err)
	}
	if err := s.backend.ChangeQuantity(ctx, sid, cartID, productID, action); err != nil {
		return fmt.Errorf("change quantity: %w", err)
	}
	s.invalidator.Invalidate(sid, domain.KeyCart)
	return nil
}

// RemoveCart deletes the whole cart and forgets its id.
func (s *CartService) RemoveCart(ctx context.Context, sid string) error {
	cartID, err := s.cartID(ctx, sid)
	if err != nil {
		return fmt.Errorf("remove cart: %w", err)
	}
	if err := s.backend.RemoveCart(ctx, sid, cartID); err != nil {
		return fmt.Errorf("remove cart: %w", err)
	}
	if err := s.sessions.ClearCartID(ctx, sid); err != nil {
		return fmt.Errorf("remove cart: %w", err)
	}
	s.invalidator.Invalidate(sid, domain.KeyCart)
	return nil
}

// Checkout places the order for the current cart. The total is computed from a
// fresh read of the cart, never from the cache.
func (s *CartService) Checkout(ctx context.Context, sid string) (*domain.Order, error) {
	cartID, err := s.cartID(ctx, sid)
	if err != nil {
		return nil, fmt.Errorf("checkout: %w", err)
	}

	cart, err := s.backend.GetCart(ctx, sid)
	if err != nil {
		return nil, fmt.Errorf("checkout: %w", err)
	}
	if cart.Empty() {
		return nil, &domain.ValidationError{Fields: map[string]string{"cart": "Cart is empty"}}
	}

	order, err := s.backend.MakeOrder(ctx, sid, cartID, cart.Total())
	if err != nil {
		return nil, fmt.Errorf("checkout: %w", err)
	}
	if err := s.sessions.ClearCartID(ctx, sid); err != nil {
		return nil, fmt.Errorf("checkout: %w", err)
	}
	s.invalidator.Invalidate(sid, domain.KeyCart, domain.KeyPurchases)

	s.log.Info().Str("session_id", sid).Str("order_id", order.ID).Msg("order placed")
	return order, nil
}

func (s *CartService) cartID(ctx context.Context, sid string) (string, error) {
	sess, err := loadSession(ctx, s.sessions, sid)
	if err != nil {
		return "", err
	}
	if !sess.HasCart() {
		return "", domain.ErrNoCart
	}
	return sess.CartID, nil
}
