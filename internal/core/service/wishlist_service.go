package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/greenhaven/storefront/internal/core/domain"
	"github.com/greenhaven/storefront/internal/core/ports"
)

// Product payloads carry isLiked, so a like change also stales every product
// query of the session.
var wishlistDependents = []domain.QueryKey{
	domain.KeyWishlist,
	{"products"},
	{"product"},
	{"search"},
	domain.KeyNewProducts,
	domain.KeyDiscountedProducts,
	domain.KeyGeneralProducts,
}

type WishlistService struct {
	backend     ports.WishlistBackend
	q           queries
	invalidator ports.Invalidator
}

func NewWishlistService(backend ports.WishlistBackend, cache ports.QueryCache, invalidator ports.Invalidator, log zerolog.Logger) *WishlistService {
	return &WishlistService{
		backend:     backend,
		q:           queries{cache: cache, log: log},
		invalidator: invalidator,
	}
}

func (s *WishlistService) Wishlist(ctx context.Context, sid string) (*domain.Page[domain.WishlistItem], error) {
	page, err := s.list(ctx, sid)
	if err != nil {
		return nil, fmt.Errorf("wishlist: %w", err)
	}
	liked := make([]domain.WishlistItem, 0, len(page.Results))
	for _, item := range page.Results {
		if !item.IsLiked {
			continue
		}
		item.Decorate()
		liked = append(liked, item)
	}
	return &domain.Page[domain.WishlistItem]{Count: len(liked), Results: liked}, nil
}

// Toggle sends the negation of the product's current like state, false when
// the product is not in the wishlist, and returns the state the backend
// reports. The current state is read from the backend, not the cache, since
// the previous toggle's invalidation may still be queued.
func (s *WishlistService) Toggle(ctx context.Context, sid, productID string) (bool, error) {
	page, err := s.backend.Wishlist(ctx, sid)
	if err != nil {
		return false, fmt.Errorf("toggle wishlist: %w", err)
	}

	liked := false
	for _, item := range page.Results {
		if item.ID == productID {
			liked = item.IsLiked
			break
		}
	}

	next := !liked
	item, err := s.backend.ToggleWishlist(ctx, sid, productID, next)
	if err != nil {
		return false, fmt.Errorf("toggle wishlist: %w", err)
	}
	s.invalidator.Invalidate(sid, wishlistDependents...)
	if item != nil {
		return item.IsLiked, nil
	}
	return next, nil
}

func (s *WishlistService) Clear(ctx context.Context, sid string) error {
	if err := s.backend.ClearWishlist(ctx, sid); err != nil {
		return fmt.Errorf("clear wishlist: %w", err)
	}
	s.invalidator.Invalidate(sid, wishlistDependents...)
	return nil
}

func (s *WishlistService) list(ctx context.Context, sid string) (*domain.Page[domain.WishlistItem], error) {
	return cached(ctx, s.q, sid, domain.KeyWishlist, func(ctx context.Context) (*domain.Page[domain.WishlistItem], error) {
		return s.backend.Wishlist(ctx, sid)
	})
}
