package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"github.com/greenhaven/storefront/internal/core/domain"
	"github.com/greenhaven/storefront/internal/core/ports"
)

// ── session store ─────────────────────────────────────────────────────────────

type memSessions struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session
	writes   map[string]int
	// failOn makes the setter of the named slot fail.
	failOn string
}

var errSlotWrite = errors.New("slot write failed")

func newMemSessions() *memSessions {
	return &memSessions{sessions: map[string]*domain.Session{}, writes: map[string]int{}}
}

func (m *memSessions) slot(sid, name string) *domain.Session {
	m.writes[name]++
	s, ok := m.sessions[sid]
	if !ok {
		s = &domain.Session{ID: sid}
		m.sessions[sid] = s
	}
	return s
}

func (m *memSessions) totalWrites() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.writes {
		n += c
	}
	return n
}

func (m *memSessions) Get(_ context.Context, sid string) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sid]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	clone := *s
	return &clone, nil
}

func (m *memSessions) SetToken(_ context.Context, sid, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failOn == "access_token" {
		return errSlotWrite
	}
	m.slot(sid, "access_token").AccessToken = token
	return nil
}

func (m *memSessions) SetUser(_ context.Context, sid string, user *domain.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failOn == "user" {
		return errSlotWrite
	}
	m.slot(sid, "user").User = user
	return nil
}

func (m *memSessions) SetAuthenticated(_ context.Context, sid string, authenticated bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failOn == "authenticated" {
		return errSlotWrite
	}
	m.slot(sid, "authenticated").Authenticated = authenticated
	return nil
}

func (m *memSessions) SetCartID(_ context.Context, sid, cartID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slot(sid, "cart_id").CartID = cartID
	return nil
}

func (m *memSessions) SetLocale(_ context.Context, sid, locale string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slot(sid, "i18nextLng").Locale = locale
	return nil
}

func (m *memSessions) ClearCredentials(_ context.Context, sid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.slot(sid, "clear_credentials")
	s.AccessToken = ""
	s.User = nil
	return nil
}

func (m *memSessions) ClearCartID(_ context.Context, sid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slot(sid, "clear_cart_id").CartID = ""
	return nil
}

func (m *memSessions) Clear(_ context.Context, sid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes["clear"]++
	delete(m.sessions, sid)
	return nil
}

// ── query cache ───────────────────────────────────────────────────────────────

type memCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	gens    map[string]int64
	gets    int
}

func newMemCache() *memCache {
	return &memCache{entries: map[string][]byte{}, gens: map[string]int64{}}
}

func cacheKey(sid string, key domain.QueryKey) string {
	return sid + "|" + strings.Join(key, "|")
}

func (c *memCache) Get(_ context.Context, sid string, key domain.QueryKey, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	raw, ok := c.entries[cacheKey(sid, key)]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

func (c *memCache) Set(_ context.Context, sid string, key domain.QueryKey, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey(sid, key)] = raw
	return nil
}

func (c *memCache) Generation(_ context.Context, sid string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens[sid], nil
}

func (c *memCache) SetIfUnchanged(_ context.Context, sid string, gen int64, key domain.QueryKey, value any) (bool, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return false, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[sid] != gen {
		return false, nil
	}
	c.entries[cacheKey(sid, key)] = raw
	return true, nil
}

func (c *memCache) Invalidate(_ context.Context, sid string, keys ...domain.QueryKey) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gens[sid]++
	for _, key := range keys {
		prefix := cacheKey(sid, key)
		for k := range c.entries {
			if k == prefix || strings.HasPrefix(k, prefix+"|") {
				delete(c.entries, k)
			}
		}
	}
	return nil
}

func (c *memCache) Drop(_ context.Context, sid string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gens[sid]++
	for k := range c.entries {
		if strings.HasPrefix(k, sid+"|") {
			delete(c.entries, k)
		}
	}
	return nil
}

func (c *memCache) has(sid string, key domain.QueryKey) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[cacheKey(sid, key)]
	return ok
}

// syncInvalidator applies invalidations inline and records them.
type syncInvalidator struct {
	cache *memCache
	keys  []domain.QueryKey
}

func (i *syncInvalidator) Invalidate(sid string, keys ...domain.QueryKey) {
	i.keys = append(i.keys, keys...)
	if i.cache != nil {
		_ = i.cache.Invalidate(context.Background(), sid, keys...)
	}
}

func (i *syncInvalidator) invalidated(key domain.QueryKey) bool {
	want := strings.Join(key, "|")
	for _, k := range i.keys {
		if strings.Join(k, "|") == want {
			return true
		}
	}
	return false
}

// ── auth flow collaborators ───────────────────────────────────────────────────

type memFlows struct {
	flows map[string]domain.AuthFlow
}

func newMemFlows() *memFlows {
	return &memFlows{flows: map[string]domain.AuthFlow{}}
}

func (m *memFlows) Load(_ context.Context, sid string) (*domain.AuthFlow, error) {
	f, ok := m.flows[sid]
	if !ok {
		return nil, domain.ErrFlowNotFound
	}
	if f.Provisional != nil {
		u := *f.Provisional
		f.Provisional = &u
	}
	return &f, nil
}

func (m *memFlows) Save(_ context.Context, flow *domain.AuthFlow) error {
	m.flows[flow.SessionID] = *flow
	return nil
}

func (m *memFlows) Delete(_ context.Context, sid string) error {
	delete(m.flows, sid)
	return nil
}

type stubGuard struct {
	held     map[string]bool
	acquires int
}

func newStubGuard() *stubGuard {
	return &stubGuard{held: map[string]bool{}}
}

func (g *stubGuard) Acquire(_ context.Context, sid string) (bool, error) {
	if g.held[sid] {
		return false, nil
	}
	g.acquires++
	g.held[sid] = true
	return true, nil
}

func (g *stubGuard) Release(_ context.Context, sid string) error {
	delete(g.held, sid)
	return nil
}

func (g *stubGuard) Pending(_ context.Context, sid string) (bool, error) {
	return g.held[sid], nil
}

type stubAudit struct {
	events []domain.AuthEvent
}

func (a *stubAudit) Record(_ context.Context, e domain.AuthEvent) error {
	a.events = append(a.events, e)
	return nil
}

func (a *stubAudit) names() []string {
	out := make([]string, 0, len(a.events))
	for _, e := range a.events {
		out = append(out, e.Event)
	}
	return out
}

type stubAuthBackend struct {
	loginFn      func(ports.LoginInput) (*ports.AuthResult, error)
	registerFn   func(ports.RegisterInput) (*ports.AuthResult, error)
	checkPhoneFn func(ports.CheckPhoneInput) (bool, error)
	calls        int
}

func (b *stubAuthBackend) Login(_ context.Context, _ string, in ports.LoginInput) (*ports.AuthResult, error) {
	b.calls++
	return b.loginFn(in)
}

func (b *stubAuthBackend) Register(_ context.Context, _ string, in ports.RegisterInput) (*ports.AuthResult, error) {
	b.calls++
	return b.registerFn(in)
}

func (b *stubAuthBackend) CheckPhone(_ context.Context, _ string, in ports.CheckPhoneInput) (bool, error) {
	b.calls++
	return b.checkPhoneFn(in)
}

// ── storefront backends ───────────────────────────────────────────────────────

type stubCartBackend struct {
	cart        *domain.Cart
	getCalls    int
	created     [][]domain.CartItemDetails
	added       []domain.CartItemDetails
	addedTo     []string
	removed     []string
	changed     []domain.QuantityAction
	removedCart []string
	orders      []float64
	orderCart   string
	newCartID   string
	err         error
}

func (b *stubCartBackend) GetCart(context.Context, string) (*domain.Cart, error) {
	b.getCalls++
	if b.err != nil {
		return nil, b.err
	}
	if b.cart == nil {
		return &domain.Cart{}, nil
	}
	clone := *b.cart
	clone.Products = append([]domain.CartItem(nil), b.cart.Products...)
	return &clone, nil
}

func (b *stubCartBackend) CreateCart(_ context.Context, _ string, lines []domain.CartItemDetails) (string, error) {
	if b.err != nil {
		return "", b.err
	}
	b.created = append(b.created, lines)
	return b.newCartID, nil
}

func (b *stubCartBackend) AddToCart(_ context.Context, _, cartID string, line domain.CartItemDetails) error {
	if b.err != nil {
		return b.err
	}
	b.addedTo = append(b.addedTo, cartID)
	b.added = append(b.added, line)
	return nil
}

func (b *stubCartBackend) RemoveFromCart(_ context.Context, _, _, productID string) error {
	b.removed = append(b.removed, productID)
	return b.err
}

func (b *stubCartBackend) RemoveCart(_ context.Context, _, cartID string) error {
	b.removedCart = append(b.removedCart, cartID)
	return b.err
}

func (b *stubCartBackend) ChangeQuantity(_ context.Context, _, _, _ string, action domain.QuantityAction) error {
	b.changed = append(b.changed, action)
	return b.err
}

func (b *stubCartBackend) MakeOrder(_ context.Context, _, cartID string, total float64) (*domain.Order, error) {
	if b.err != nil {
		return nil, b.err
	}
	b.orderCart = cartID
	b.orders = append(b.orders, total)
	return &domain.Order{ID: "order-1"}, nil
}

type stubCatalogBackend struct {
	mu            sync.Mutex
	products      map[string]*domain.Product
	productsFn    func(domain.ProductFilter) (*domain.ProductPage, error)
	productCalls  int
	listCalls     int
	categories    []domain.Category
	search        []domain.Product
	reviews       []domain.Review
	reviewsCalled int
}

func (b *stubCatalogBackend) Products(_ context.Context, _ string, f domain.ProductFilter) (*domain.ProductPage, error) {
	b.mu.Lock()
	b.listCalls++
	b.mu.Unlock()
	return b.productsFn(f)
}

func (b *stubCatalogBackend) Product(_ context.Context, _, id string) (*domain.Product, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.productCalls++
	p, ok := b.products[id]
	if !ok {
		return nil, &domain.BackendError{Status: 404, Message: "Product not found"}
	}
	clone := *p
	return &clone, nil
}

func (b *stubCatalogBackend) SearchProducts(context.Context, string, string) (*domain.Page[domain.Product], error) {
	return &domain.Page[domain.Product]{Count: len(b.search), Results: append([]domain.Product(nil), b.search...)}, nil
}

func (b *stubCatalogBackend) Categories(context.Context, string) (*domain.Page[domain.Category], error) {
	return &domain.Page[domain.Category]{Count: len(b.categories), Results: b.categories}, nil
}

func (b *stubCatalogBackend) ProductReviews(context.Context, string, string, domain.ListParams) (*domain.Page[domain.Review], error) {
	b.reviewsCalled++
	return &domain.Page[domain.Review]{Count: len(b.reviews), Results: b.reviews}, nil
}

type stubWishlistBackend struct {
	items     []domain.WishlistItem
	listCalls int
	toggled   map[string]bool
	cleared   bool
}

func (b *stubWishlistBackend) Wishlist(context.Context, string) (*domain.Page[domain.WishlistItem], error) {
	b.listCalls++
	return &domain.Page[domain.WishlistItem]{Count: len(b.items), Results: append([]domain.WishlistItem(nil), b.items...)}, nil
}

func (b *stubWishlistBackend) ToggleWishlist(_ context.Context, _, productID string, isLiked bool) (*domain.WishlistItem, error) {
	if b.toggled == nil {
		b.toggled = map[string]bool{}
	}
	b.toggled[productID] = isLiked
	for i := range b.items {
		if b.items[i].ID == productID {
			b.items[i].IsLiked = isLiked
			return &b.items[i], nil
		}
	}
	b.items = append(b.items, domain.WishlistItem{ID: productID, IsLiked: isLiked})
	return &domain.WishlistItem{ID: productID, IsLiked: isLiked}, nil
}

func (b *stubWishlistBackend) ClearWishlist(context.Context, string) error {
	b.cleared = true
	return nil
}

type stubProfileBackend struct {
	lastParams    domain.ListParams
	purchaseCalls int
	reviews       []domain.ReviewInput
	addresses     []domain.AddressInput
	deleted       []string
	defaults      map[string]bool
	err           error
}

func (b *stubProfileBackend) Purchases(_ context.Context, _ string, p domain.ListParams) (*domain.Page[domain.Purchase], error) {
	b.purchaseCalls++
	b.lastParams = p
	if b.err != nil {
		return nil, b.err
	}
	return &domain.Page[domain.Purchase]{Count: 1, Results: []domain.Purchase{{ID: "p1", Total: 10}}}, nil
}

func (b *stubProfileBackend) MyReviews(_ context.Context, _ string, p domain.ListParams) (*domain.Page[domain.Review], error) {
	b.lastParams = p
	return &domain.Page[domain.Review]{}, b.err
}

func (b *stubProfileBackend) PostReview(_ context.Context, _ string, in domain.ReviewInput) error {
	if b.err != nil {
		return b.err
	}
	b.reviews = append(b.reviews, in)
	return nil
}

func (b *stubProfileBackend) Addresses(_ context.Context, _ string, p domain.ListParams) (*domain.Page[domain.Address], error) {
	b.lastParams = p
	return &domain.Page[domain.Address]{}, b.err
}

func (b *stubProfileBackend) CreateAddress(_ context.Context, _ string, in domain.AddressInput) error {
	if b.err != nil {
		return b.err
	}
	b.addresses = append(b.addresses, in)
	return nil
}

func (b *stubProfileBackend) DeleteAddress(_ context.Context, _, id string) error {
	if b.err != nil {
		return b.err
	}
	b.deleted = append(b.deleted, id)
	return nil
}

func (b *stubProfileBackend) SetDefaultAddress(_ context.Context, _, id string, isDefault bool) error {
	if b.err != nil {
		return b.err
	}
	if b.defaults == nil {
		b.defaults = map[string]bool{}
	}
	b.defaults[id] = isDefault
	return nil
}

type stubMerchantBackend struct {
	application *domain.MerchantApplication
	signupToken string
	signup      *domain.MerchantSignup
}

func (b *stubMerchantBackend) CreateMerchant(_ context.Context, _ string, in domain.MerchantApplication) (*domain.MerchantApplication, error) {
	b.application = &in
	return &in, nil
}

func (b *stubMerchantBackend) SignUpMerchant(_ context.Context, _, token string, in domain.MerchantSignup) error {
	b.signupToken = token
	b.signup = &in
	return nil
}
