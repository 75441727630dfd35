package ports

import (
	"context"

	"github.com/greenhaven/storefront/internal/core/domain"
)

// Every backend call takes the session id: the client resolves the bearer
// token and locale from that session, and clears its credentials on a 401.

// LoginInput is the step 1 login payload.
type LoginInput struct {
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password"`
}

// RegisterInput is the step 1 register payload.
type RegisterInput struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password"`
}

// CheckPhoneInput is the step 2 confirmation payload.
type CheckPhoneInput struct {
	Token       string `json:"token"`
	PhoneNumber string `json:"phoneNumber"`
	OTP         string `json:"otp"`
}

// AuthResult is returned by both step 1 endpoints. Token is the short-lived
// exchange token needed for step 2.
type AuthResult struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    domain.User `json:"user"`
}

type AuthBackend interface {
	Login(ctx context.Context, sid string, in LoginInput) (*AuthResult, error)
	Register(ctx context.Context, sid string, in RegisterInput) (*AuthResult, error)
	CheckPhone(ctx context.Context, sid string, in CheckPhoneInput) (bool, error)
}

type CartBackend interface {
	GetCart(ctx context.Context, sid string) (*domain.Cart, error)
	CreateCart(ctx context.Context, sid string, lines []domain.CartItemDetails) (string, error)
	AddToCart(ctx context.Context, sid, cartID string, line domain.CartItemDetails) error
	RemoveFromCart(ctx context.Context, sid, cartID, productID string) error
	RemoveCart(ctx context.Context, sid, cartID string) error
	ChangeQuantity(ctx context.Context, sid, cartID, productID string, action domain.QuantityAction) error
	MakeOrder(ctx context.Context, sid, cartID string, total float64) (*domain.Order, error)
}

type CatalogBackend interface {
	Products(ctx context.Context, sid string, f domain.ProductFilter) (*domain.ProductPage, error)
	Product(ctx context.Context, sid, id string) (*domain.Product, error)
	SearchProducts(ctx context.Context, sid, name string) (*domain.Page[domain.Product], error)
	Categories(ctx context.Context, sid string) (*domain.Page[domain.Category], error)
	ProductReviews(ctx context.Context, sid, productID string, p domain.ListParams) (*domain.Page[domain.Review], error)
}

type WishlistBackend interface {
	Wishlist(ctx context.Context, sid string) (*domain.Page[domain.WishlistItem], error)
	ToggleWishlist(ctx context.Context, sid, productID string, isLiked bool) (*domain.WishlistItem, error)
	ClearWishlist(ctx context.Context, sid string) error
}

type ProfileBackend interface {
	Purchases(ctx context.Context, sid string, p domain.ListParams) (*domain.Page[domain.Purchase], error)
	MyReviews(ctx context.Context, sid string, p domain.ListParams) (*domain.Page[domain.Review], error)
	PostReview(ctx context.Context, sid string, in domain.ReviewInput) error
	Addresses(ctx context.Context, sid string, p domain.ListParams) (*domain.Page[domain.Address], error)
	CreateAddress(ctx context.Context, sid string, in domain.AddressInput) error
	DeleteAddress(ctx context.Context, sid, id string) error
	SetDefaultAddress(ctx context.Context, sid, id string, isDefault bool) error
}

type MerchantBackend interface {
	CreateMerchant(ctx context.Context, sid string, in domain.MerchantApplication) (*domain.MerchantApplication, error)
	SignUpMerchant(ctx context.Context, sid, token string, in domain.MerchantSignup) error
}
