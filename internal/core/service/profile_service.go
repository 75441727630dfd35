package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/greenhaven/storefront/internal/core/domain"
	"github.com/greenhaven/storefront/internal/core/ports"
)

// DefaultRowsPerPage is the profile table page size.
const DefaultRowsPerPage = 10

type ProfileService struct {
	backend     ports.ProfileBackend
	q           queries
	invalidator ports.Invalidator
	rowsPerPage int
}

func NewProfileService(backend ports.ProfileBackend, cache ports.QueryCache, invalidator ports.Invalidator, rowsPerPage int, log zerolog.Logger) *ProfileService {
	if rowsPerPage <= 0 {
		rowsPerPage = DefaultRowsPerPage
	}
	return &ProfileService{
		backend:     backend,
		q:           queries{cache: cache, log: log},
		invalidator: invalidator,
		rowsPerPage: rowsPerPage,
	}
}

func (s *ProfileService) Purchases(ctx context.Context, sid string, p domain.ListParams) (*domain.Page[domain.Purchase], error) {
	p = s.paging(p)
	page, err := cached(ctx, s.q, sid, domain.PagedKey(domain.KeyPurchases, p), func(ctx context.Context) (*domain.Page[domain.Purchase], error) {
		return s.backend.Purchases(ctx, sid, p)
	})
	if err != nil {
		return nil, fmt.Errorf("purchases: %w", err)
	}
	return page, nil
}

func (s *ProfileService) Reviews(ctx context.Context, sid string, p domain.ListParams) (*domain.Page[domain.Review], error) {
	p = s.paging(p)
	page, err := cached(ctx, s.q, sid, domain.PagedKey(domain.KeyReviews, p), func(ctx context.Context) (*domain.Page[domain.Review], error) {
		return s.backend.MyReviews(ctx, sid, p)
	})
	if err != nil {
		return nil, fmt.Errorf("my reviews: %w", err)
	}
	return page, nil
}

// PostReview submits a review. The product's rating changes, so its detail and
// review list are staled along with the user's own reviews.
func (s *ProfileService) PostReview(ctx context.Context, sid string, in domain.ReviewInput) error {
	fields := map[string]string{}
	if strings.TrimSpace(in.Product) == "" {
		fields["product"] = "This field cannot be empty"
	}
	if strings.TrimSpace(in.Review) == "" {
		fields["review"] = "This field cannot be empty"
	}
	if in.Rating < 1 || in.Rating > 5 {
		fields["rating"] = "rating must be between 1 and 5"
	}
	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}

	if err := s.backend.PostReview(ctx, sid, in); err != nil {
		return fmt.Errorf("post review: %w", err)
	}
	s.invalidator.Invalidate(sid,
		domain.KeyReviews,
		domain.ProductReviewsKey(in.Product),
		domain.ProductKey(in.Product),
	)
	return nil
}

func (s *ProfileService) Addresses(ctx context.Context, sid string, p domain.ListParams) (*domain.Page[domain.Address], error) {
	p = s.paging(p)
	page, err := cached(ctx, s.q, sid, domain.PagedKey(domain.KeyAddresses, p), func(ctx context.Context) (*domain.Page[domain.Address], error) {
		return s.backend.Addresses(ctx, sid, p)
	})
	if err != nil {
		return nil, fmt.Errorf("addresses: %w", err)
	}
	return page, nil
}

func (s *ProfileService) CreateAddress(ctx context.Context, sid string, in domain.AddressInput) error {
	if err := s.backend.CreateAddress(ctx, sid, in); err != nil {
		return fmt.Errorf("create address: %w", err)
	}
	s.invalidator.Invalidate(sid, domain.KeyAddresses)
	return nil
}

func (s *ProfileService) DeleteAddress(ctx context.Context, sid, id string) error {
	if err := s.backend.DeleteAddress(ctx, sid, id); err != nil {
		return fmt.Errorf("delete address: %w", err)
	}
	s.invalidator.Invalidate(sid, domain.KeyAddresses)
	return nil
}

func (s *ProfileService) SetDefaultAddress(ctx context.Context, sid, id string, isDefault bool) error {
	if err := s.backend.SetDefaultAddress(ctx, sid, id, isDefault); err != nil {
		return fmt.Errorf("set default address: %w", err)
	}
	s.invalidator.Invalidate(sid, domain.KeyAddresses)
	return nil
}

func (s *ProfileService) paging(p domain.ListParams) domain.ListParams {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = s.rowsPerPage
	}
	p.Search = strings.TrimSpace(p.Search)
	return p
}
