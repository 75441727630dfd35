package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/greenhaven/storefront/internal/core/domain"
	"github.com/greenhaven/storefront/internal/core/ports"
)

// DefaultCatalogPageSize is the product grid page size.
const DefaultCatalogPageSize = 16

// CatalogService serves read-only catalog queries through the query cache.
type CatalogService struct {
	backend  ports.CatalogBackend
	q        queries
	pageSize int
}

func NewCatalogService(backend ports.CatalogBackend, cache ports.QueryCache, pageSize int, log zerolog.Logger) *CatalogService {
	if pageSize <= 0 {
		pageSize = DefaultCatalogPageSize
	}
	return &CatalogService{
		backend:  backend,
		q:        queries{cache: cache, log: log},
		pageSize: pageSize,
	}
}

// Home loads the three landing page rails concurrently. Any failing rail
// fails the whole call.
func (s *CatalogService) Home(ctx context.Context, sid string) (*ports.HomeFeeds, error) {
	feeds := &ports.HomeFeeds{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		feeds.New, err = s.feed(gctx, sid, domain.KeyNewProducts, domain.ProductFilter{IsNew: true})
		return err
	})
	g.Go(func() error {
		var err error
		feeds.Discounted, err = s.feed(gctx, sid, domain.KeyDiscountedProducts, domain.ProductFilter{InDiscount: true})
		return err
	})
	g.Go(func() error {
		var err error
		feeds.General, err = s.feed(gctx, sid, domain.KeyGeneralProducts, domain.ProductFilter{GeneralRecommendation: true})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("home feeds: %w", err)
	}
	return feeds, nil
}

func (s *CatalogService) Categories(ctx context.Context, sid string) ([]domain.Category, error) {
	page, err := cached(ctx, s.q, sid, domain.KeyCategories, func(ctx context.Context) (*domain.Page[domain.Category], error) {
		return s.backend.Categories(ctx, sid)
	})
	if err != nil {
		return nil, fmt.Errorf("categories: %w", err)
	}
	if page.Results == nil {
		return []domain.Category{}, nil
	}
	return page.Results, nil
}

// Products lists a catalog page. Page defaults to 1, the limit to the grid
// size and the sort order to "all".
func (s *CatalogService) Products(ctx context.Context, sid string, f domain.ProductFilter) (*domain.ProductPage, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = s.pageSize
	}
	switch f.SortBy {
	case domain.SortAll, domain.SortMostExpensive, domain.SortCheapest:
	case "":
		f.SortBy = domain.SortAll
	default:
		return nil, &domain.ValidationError{Fields: map[string]string{
			"sortBy": "sortBy must be one of: all most-expensive cheapest",
		}}
	}
	if f.Min != nil && f.Max != nil && *f.Min > *f.Max {
		return nil, &domain.ValidationError{Fields: map[string]string{"min": "min must not exceed max"}}
	}

	page, err := cached(ctx, s.q, sid, domain.ProductsKey(f), func(ctx context.Context) (*domain.ProductPage, error) {
		return s.backend.Products(ctx, sid, f)
	})
	if err != nil {
		return nil, fmt.Errorf("products: %w", err)
	}
	page.Decorate()
	return page, nil
}

func (s *CatalogService) Product(ctx context.Context, sid, id string) (*domain.Product, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.ErrProductNotFound
	}
	product, err := cached(ctx, s.q, sid, domain.ProductKey(id), func(ctx context.Context) (*domain.Product, error) {
		return s.backend.Product(ctx, sid, id)
	})
	if err != nil {
		return nil, fmt.Errorf("product %s: %w", id, err)
	}
	product.Decorate()
	return product, nil
}

func (s *CatalogService) ProductReviews(ctx context.Context, sid, productID string, p domain.ListParams) (*domain.Page[domain.Review], error) {
	key := domain.PagedKey(domain.ProductReviewsKey(productID), p)
	page, err := cached(ctx, s.q, sid, key, func(ctx context.Context) (*domain.Page[domain.Review], error) {
		return s.backend.ProductReviews(ctx, sid, productID, p)
	})
	if err != nil {
		return nil, fmt.Errorf("product reviews: %w", err)
	}
	return page, nil
}

func (s *CatalogService) Search(ctx context.Context, sid, name string) (*domain.Page[domain.Product], error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return &domain.Page[domain.Product]{Results: []domain.Product{}}, nil
	}
	page, err := cached(ctx, s.q, sid, domain.SearchKey(name), func(ctx context.Context) (*domain.Page[domain.Product], error) {
		return s.backend.SearchProducts(ctx, sid, name)
	})
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	for i := range page.Results {
		page.Results[i].Decorate()
	}
	return page, nil
}

func (s *CatalogService) feed(ctx context.Context, sid string, key domain.QueryKey, f domain.ProductFilter) ([]domain.Product, error) {
	page, err := cached(ctx, s.q, sid, key, func(ctx context.Context) (*domain.ProductPage, error) {
		return s.backend.Products(ctx, sid, f)
	})
	if err != nil {
		return nil, err
	}
	page.Decorate()
	if page.Results == nil {
		return []domain.Product{}, nil
	}
	return page.Results, nil
}
