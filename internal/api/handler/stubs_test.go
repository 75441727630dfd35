package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/greenhaven/storefront/internal/api/middleware"
	"github.com/greenhaven/storefront/internal/core/domain"
	"github.com/greenhaven/storefront/internal/core/ports"
)

const testSID = "sid-1"

// newContext builds a JSON request context with the session id already set,
// the way the Session middleware leaves it.
func newContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.SessionIDKey, testSID)
	return c, rec
}

type stubFlows struct {
	openFn        func(ctx context.Context, sid string, mode domain.FlowMode) (*ports.FlowView, error)
	stateFn       func(ctx context.Context, sid string) (*ports.FlowView, error)
	credentialsFn func(ctx context.Context, sid string, creds domain.Credentials) (*ports.FlowView, error)
	otpFn         func(ctx context.Context, sid, otp string) (*ports.SessionView, error)
	resendFn      func(ctx context.Context, sid string) (*ports.FlowView, error)
	backFn        func(ctx context.Context, sid string) (*ports.FlowView, error)
	cancelFn      func(ctx context.Context, sid string) error
}

func (s *stubFlows) Open(ctx context.Context, sid string, mode domain.FlowMode) (*ports.FlowView, error) {
	return s.openFn(ctx, sid, mode)
}

func (s *stubFlows) State(ctx context.Context, sid string) (*ports.FlowView, error) {
	return s.stateFn(ctx, sid)
}

func (s *stubFlows) SubmitCredentials(ctx context.Context, sid string, creds domain.Credentials) (*ports.FlowView, error) {
	return s.credentialsFn(ctx, sid, creds)
}

func (s *stubFlows) ConfirmOTP(ctx context.Context, sid, otp string) (*ports.SessionView, error) {
	return s.otpFn(ctx, sid, otp)
}

func (s *stubFlows) Resend(ctx context.Context, sid string) (*ports.FlowView, error) {
	return s.resendFn(ctx, sid)
}

func (s *stubFlows) Back(ctx context.Context, sid string) (*ports.FlowView, error) {
	return s.backFn(ctx, sid)
}

func (s *stubFlows) Cancel(ctx context.Context, sid string) error {
	return s.cancelFn(ctx, sid)
}

type stubSessions struct {
	view      *ports.SessionView
	locale    string
	loggedOut bool
}

func (s *stubSessions) Current(ctx context.Context, sid string) (*ports.SessionView, error) {
	return s.view, nil
}

func (s *stubSessions) Logout(ctx context.Context, sid string) error {
	s.loggedOut = true
	return nil
}

func (s *stubSessions) Locale(ctx context.Context, sid string) (string, error) {
	return s.locale, nil
}

func (s *stubSessions) SetLocale(ctx context.Context, sid, locale string) error {
	s.locale = locale
	return nil
}

type stubCarts struct {
	addFn      func(ctx context.Context, sid, productID string) (*ports.AddToCartResult, error)
	quantityFn func(ctx context.Context, sid, productID string, action domain.QuantityAction) error
	checkoutFn func(ctx context.Context, sid string) (*domain.Order, error)
	removed    []string
}

func (s *stubCarts) Cart(ctx context.Context, sid string) (*ports.CartView, error) {
	return &ports.CartView{Items: []domain.CartItem{}}, nil
}

func (s *stubCarts) AddItem(ctx context.Context, sid, productID string) (*ports.AddToCartResult, error) {
	return s.addFn(ctx, sid, productID)
}

func (s *stubCarts) RemoveItem(ctx context.Context, sid, productID string) error {
	s.removed = append(s.removed, productID)
	return nil
}

func (s *stubCarts) ChangeQuantity(ctx context.Context, sid, productID string, action domain.QuantityAction) error {
	return s.quantityFn(ctx, sid, productID, action)
}

func (s *stubCarts) RemoveCart(ctx context.Context, sid string) error {
	return nil
}

func (s *stubCarts) Checkout(ctx context.Context, sid string) (*domain.Order, error) {
	return s.checkoutFn(ctx, sid)
}

type stubCatalog struct {
	productsFn func(ctx context.Context, sid string, f domain.ProductFilter) (*domain.ProductPage, error)
	reviewsFn  func(ctx context.Context, sid, productID string, p domain.ListParams) (*domain.Page[domain.Review], error)
}

func (s *stubCatalog) Home(ctx context.Context, sid string) (*ports.HomeFeeds, error) {
	return &ports.HomeFeeds{}, nil
}

func (s *stubCatalog) Categories(ctx context.Context, sid string) ([]domain.Category, error) {
	return []domain.Category{{Name: "Plants", Slug: "plants"}}, nil
}

func (s *stubCatalog) Products(ctx context.Context, sid string, f domain.ProductFilter) (*domain.ProductPage, error) {
	return s.productsFn(ctx, sid, f)
}

func (s *stubCatalog) Product(ctx context.Context, sid, id string) (*domain.Product, error) {
	if id == "" {
		return nil, domain.ErrProductNotFound
	}
	return &domain.Product{ID: id}, nil
}

func (s *stubCatalog) ProductReviews(ctx context.Context, sid, productID string, p domain.ListParams) (*domain.Page[domain.Review], error) {
	return s.reviewsFn(ctx, sid, productID, p)
}

func (s *stubCatalog) Search(ctx context.Context, sid, name string) (*domain.Page[domain.Product], error) {
	return &domain.Page[domain.Product]{}, nil
}

type stubWishlist struct {
	liked bool
}

func (s *stubWishlist) Wishlist(ctx context.Context, sid string) (*domain.Page[domain.WishlistItem], error) {
	return &domain.Page[domain.WishlistItem]{}, nil
}

func (s *stubWishlist) Toggle(ctx context.Context, sid, productID string) (bool, error) {
	s.liked = !s.liked
	return s.liked, nil
}

func (s *stubWishlist) Clear(ctx context.Context, sid string) error {
	return nil
}

type stubProfile struct {
	addresses  []domain.AddressInput
	reviews    []domain.ReviewInput
	defaultIDs map[string]bool
}

func (s *stubProfile) Purchases(ctx context.Context, sid string, p domain.ListParams) (*domain.Page[domain.Purchase], error) {
	return &domain.Page[domain.Purchase]{}, nil
}

func (s *stubProfile) Reviews(ctx context.Context, sid string, p domain.ListParams) (*domain.Page[domain.Review], error) {
	return &domain.Page[domain.Review]{}, nil
}

func (s *stubProfile) PostReview(ctx context.Context, sid string, in domain.ReviewInput) error {
	s.reviews = append(s.reviews, in)
	return nil
}

func (s *stubProfile) Addresses(ctx context.Context, sid string, p domain.ListParams) (*domain.Page[domain.Address], error) {
	return &domain.Page[domain.Address]{}, nil
}

func (s *stubProfile) CreateAddress(ctx context.Context, sid string, in domain.AddressInput) error {
	s.addresses = append(s.addresses, in)
	return nil
}

func (s *stubProfile) DeleteAddress(ctx context.Context, sid, id string) error {
	return nil
}

func (s *stubProfile) SetDefaultAddress(ctx context.Context, sid, id string, isDefault bool) error {
	if s.defaultIDs == nil {
		s.defaultIDs = map[string]bool{}
	}
	s.defaultIDs[id] = isDefault
	return nil
}

type stubMerchants struct {
	applied []domain.MerchantApplication
	token   string
}

func (s *stubMerchants) Apply(ctx context.Context, sid string, in domain.MerchantApplication) (*domain.MerchantApplication, error) {
	s.applied = append(s.applied, in)
	return &in, nil
}

func (s *stubMerchants) SignUp(ctx context.Context, sid, token string, in domain.MerchantSignup) error {
	s.token = token
	return nil
}
