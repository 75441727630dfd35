package api

import (
	"context"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/greenhaven/storefront/docs"
	"github.com/greenhaven/storefront/internal/api/handler"
	"github.com/greenhaven/storefront/internal/api/middleware"
	"github.com/greenhaven/storefront/internal/core/ports"
)

// Pinger reports whether a dependency answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Flows     ports.AuthFlowService
	Sessions  ports.SessionService
	Catalog   ports.CatalogService
	Carts     ports.CartService
	Wishlist  ports.WishlistService
	Profile   ports.ProfileService
	Merchants ports.MerchantService

	// SessionStore backs RequireAuthenticated.
	SessionStore  ports.SessionStore
	SessionSecret []byte
	CookieSecure  bool

	Mongo Pinger
	Redis *redis.Client
	Log   zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echomiddleware.Recover())
	e.Use(echoprometheus.NewMiddleware("storefront"))

	// --- Ops (no session) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(map[string]handler.CheckFunc{
		"mongodb": func(ctx context.Context) error { return d.Mongo.Ping(ctx) },
		"redis":   func(ctx context.Context) error { return d.Redis.Ping(ctx).Err() },
	})

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Storefront API ---
	v1 := e.Group("/v1", middleware.Session(middleware.SessionConfig{
		Secret:       d.SessionSecret,
		CookieSecure: d.CookieSecure,
	}))
	requireAuth := middleware.RequireAuthenticated(d.SessionStore)

	flows := handler.NewAuthFlowHandler(d.Flows)
	v1.POST("/auth/flow", flows.Open)
	v1.GET("/auth/flow", flows.State)
	v1.DELETE("/auth/flow", flows.Cancel)
	v1.POST("/auth/flow/credentials", flows.SubmitCredentials)
	v1.POST("/auth/flow/otp", flows.ConfirmOTP)
	v1.POST("/auth/flow/resend", flows.Resend)
	v1.POST("/auth/flow/back", flows.Back)

	sessions := handler.NewSessionHandler(d.Sessions)
	v1.GET("/session", sessions.Current)
	v1.DELETE("/session", sessions.Logout)
	v1.GET("/locale", sessions.Locale)
	v1.PUT("/locale", sessions.SetLocale)

	catalog := handler.NewCatalogHandler(d.Catalog)
	v1.GET("/catalog/home", catalog.Home)
	v1.GET("/catalog/categories", catalog.Categories)
	v1.GET("/catalog/:slug/products", catalog.Products)
	v1.GET("/products/search/:name", catalog.Search)
	v1.GET("/products/:id", catalog.Product)
	v1.GET("/products/:id/reviews", catalog.ProductReviews)

	carts := handler.NewCartHandler(d.Carts)
	cart := v1.Group("/cart", requireAuth)
	cart.GET("", carts.Cart)
	cart.DELETE("", carts.RemoveCart)
	cart.POST("/items", carts.AddItem)
	cart.DELETE("/items/:product", carts.RemoveItem)
	cart.PUT("/items/:product/:action", carts.ChangeQuantity)
	cart.POST("/checkout", carts.Checkout)

	wishlist := handler.NewWishlistHandler(d.Wishlist)
	wl := v1.Group("/wishlist", requireAuth)
	wl.GET("", wishlist.Wishlist)
	wl.DELETE("", wishlist.Clear)
	wl.POST("/:product/toggle", wishlist.Toggle)

	profile := handler.NewProfileHandler(d.Profile)
	pr := v1.Group("/profile", requireAuth)
	pr.GET("/purchases", profile.Purchases)
	pr.GET("/reviews", profile.Reviews)
	pr.POST("/reviews", profile.PostReview)
	pr.GET("/addresses", profile.Addresses)
	pr.POST("/addresses", profile.CreateAddress)
	pr.PUT("/addresses/:id/default", profile.SetDefaultAddress)
	pr.DELETE("/addresses/:id", profile.DeleteAddress)

	merchants := handler.NewMerchantHandler(d.Merchants)
	v1.POST("/merchants/apply", merchants.Apply)
	v1.POST("/merchants/signup/:token", merchants.SignUp)

	return e
}
