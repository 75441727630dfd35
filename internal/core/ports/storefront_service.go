package ports

import (
	"context"

	"github.com/greenhaven/storefront/internal/core/domain"
)

// CartView is the cart with the checkout total.
type CartView struct {
	Items   []domain.CartItem `json:"items"`
	Total   float64           `json:"total"`
	HasCart bool              `json:"hasCart"`
}

// AddToCartResult tells whether the add minted a new cart.
type AddToCartResult struct {
	Created bool `json:"created"`
}

type CartService interface {
	Cart(ctx context.Context, sid string) (*CartView, error)
	AddItem(ctx context.Context, sid, productID string) (*AddToCartResult, error)
	RemoveItem(ctx context.Context, sid, productID string) error
	ChangeQuantity(ctx context.Context, sid, productID string, action domain.QuantityAction) error
	RemoveCart(ctx context.Context, sid string) error
	Checkout(ctx context.Context, sid string) (*domain.Order, error)
}

type WishlistService interface {
	Wishlist(ctx context.Context, sid string) (*domain.Page[domain.WishlistItem], error)
	// Toggle flips the like state and returns the new one.
	Toggle(ctx context.Context, sid, productID string) (bool, error)
	Clear(ctx context.Context, sid string) error
}

// HomeFeeds are the three product rails of the landing page.
type HomeFeeds struct {
	New        []domain.Product `json:"new"`
	Discounted []domain.Product `json:"discounted"`
	General    []domain.Product `json:"general"`
}

type CatalogService interface {
	Home(ctx context.Context, sid string) (*HomeFeeds, error)
	Categories(ctx context.Context, sid string) ([]domain.Category, error)
	Products(ctx context.Context, sid string, f domain.ProductFilter) (*domain.ProductPage, error)
	Product(ctx context.Context, sid, id string) (*domain.Product, error)
	ProductReviews(ctx context.Context, sid, productID string, p domain.ListParams) (*domain.Page[domain.Review], error)
	Search(ctx context.Context, sid, name string) (*domain.Page[domain.Product], error)
}

type ProfileService interface {
	Purchases(ctx context.Context, sid string, p domain.ListParams) (*domain.Page[domain.Purchase], error)
	Reviews(ctx context.Context, sid string, p domain.ListParams) (*domain.Page[domain.Review], error)
	PostReview(ctx context.Context, sid string, in domain.ReviewInput) error
	Addresses(ctx context.Context, sid string, p domain.ListParams) (*domain.Page[domain.Address], error)
	CreateAddress(ctx context.Context, sid string, in domain.AddressInput) error
	DeleteAddress(ctx context.Context, sid, id string) error
	SetDefaultAddress(ctx context.Context, sid, id string, isDefault bool) error
}

type MerchantService interface {
	Apply(ctx context.Context, sid string, in domain.MerchantApplication) (*domain.MerchantApplication, error)
	SignUp(ctx context.Context, sid, token string, in domain.MerchantSignup) error
}
