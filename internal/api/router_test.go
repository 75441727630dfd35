package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/greenhaven/storefront/internal/api/middleware"
	"github.com/greenhaven/storefront/internal/core/domain"
	"github.com/greenhaven/storefront/internal/core/ports"
)

type routerSessions struct{}

func (routerSessions) Current(ctx context.Context, sid string) (*ports.SessionView, error) {
	return &ports.SessionView{Locale: "en"}, nil
}
func (routerSessions) Logout(ctx context.Context, sid string) error { return nil }
func (routerSessions) Locale(ctx context.Context, sid string) (string, error) {
	return "en", nil
}
func (routerSessions) SetLocale(ctx context.Context, sid, locale string) error { return nil }

// routerCatalog records which operation a route resolved to.
type routerCatalog struct {
	mu   sync.Mutex
	last string
}

func (c *routerCatalog) mark(op string) {
	c.mu.Lock()
	c.last = op
	c.mu.Unlock()
}

func (c *routerCatalog) Home(ctx context.Context, sid string) (*ports.HomeFeeds, error) {
	c.mark("home")
	return &ports.HomeFeeds{}, nil
}
func (c *routerCatalog) Categories(ctx context.Context, sid string) ([]domain.Category, error) {
	c.mark("categories")
	return nil, nil
}
func (c *routerCatalog) Products(ctx context.Context, sid string, f domain.ProductFilter) (*domain.ProductPage, error) {
	c.mark("products:" + f.Category)
	return &domain.ProductPage{}, nil
}
func (c *routerCatalog) Product(ctx context.Context, sid, id string) (*domain.Product, error) {
	c.mark("product:" + id)
	return &domain.Product{ID: id}, nil
}
func (c *routerCatalog) ProductReviews(ctx context.Context, sid, productID string, p domain.ListParams) (*domain.Page[domain.Review], error) {
	c.mark("reviews:" + productID)
	return &domain.Page[domain.Review]{}, nil
}
func (c *routerCatalog) Search(ctx context.Context, sid, name string) (*domain.Page[domain.Product], error) {
	c.mark("search:" + name)
	return &domain.Page[domain.Product]{}, nil
}

type anonymousStore struct{}

func (anonymousStore) Get(ctx context.Context, sid string) (*domain.Session, error) {
	return nil, domain.ErrSessionNotFound
}
func (anonymousStore) SetToken(ctx context.Context, sid, token string) error { return nil }
func (anonymousStore) SetUser(ctx context.Context, sid string, user *domain.Profile) error {
	return nil
}
func (anonymousStore) SetAuthenticated(ctx context.Context, sid string, authenticated bool) error {
	return nil
}
func (anonymousStore) SetCartID(ctx context.Context, sid, cartID string) error { return nil }
func (anonymousStore) SetLocale(ctx context.Context, sid, locale string) error { return nil }
func (anonymousStore) ClearCredentials(ctx context.Context, sid string) error { return nil }
func (anonymousStore) ClearCartID(ctx context.Context, sid string) error { return nil }
func (anonymousStore) Clear(ctx context.Context, sid string) error { return nil }

var (
	routerOnce    sync.Once
	sharedRouter  *echo.Echo
	sharedCatalog = &routerCatalog{}
)

// The prometheus middleware registers collectors globally, so the router is
// built once per test binary.
func testRouter(t *testing.T) *echo.Echo {
	t.Helper()
	routerOnce.Do(func() {
		sharedRouter = NewRouter(Deps{
			Sessions:      routerSessions{},
			Catalog:       sharedCatalog,
			SessionStore:  anonymousStore{},
			SessionSecret: []byte("router-secret"),
			Log:           zerolog.Nop(),
		})
	})
	return sharedRouter
}

func TestRouter_LivenessNeedsNoSession(t *testing.T) {
	e := testRouter(t)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatalf("ops routes must not mint sessions")
	}
}

func TestRouter_AnonymousSessionIsMinted(t *testing.T) {
	e := testRouter(t)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/session", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get(middleware.SessionHeader) == "" {
		t.Fatalf("expected a minted session token")
	}
	if rec.Header().Get(echo.HeaderXRequestID) == "" {
		t.Fatalf("expected a request id")
	}
}

func TestRouter_CartRequiresAuthentication(t *testing.T) {
	e := testRouter(t)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/cart", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body.Error != "authentication required" {
		t.Fatalf("unexpected error body: %+v", body)
	}
}

func TestRouter_CatalogRoutes(t *testing.T) {
	e := testRouter(t)

	cases := map[string]string{
		"/v1/catalog/home":            "home",
		"/v1/catalog/plants/products": "products:plants",
		"/v1/products/search/fern":    "search:fern",
		"/v1/products/p-1":            "product:p-1",
		"/v1/products/p-1/reviews":    "reviews:p-1",
	}

	for path, want := range cases {
		t.Run(path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rec.Code)
			}
			sharedCatalog.mu.Lock()
			got := sharedCatalog.last
			sharedCatalog.mu.Unlock()
			if got != want {
				t.Fatalf("expected %s, got %s", want, got)
			}
		})
	}
}

func TestRouter_UnknownRouteUsesEnvelope(t *testing.T) {
	e := testRouter(t)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/nope", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body.Error == "" {
		t.Fatalf("expected error envelope, got %q", rec.Body.String())
	}
}
