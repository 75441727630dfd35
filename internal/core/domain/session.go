package domain

import (
	"strings"
	"time"
)

const (
	RoleCustomer = "customer"
	RoleMerchant = "merchant"
)

// Supported UI locales, stored under the i18nextLng slot.
const (
	LocaleEN = "en"
	LocaleRU = "ru"
	LocaleUZ = "uz"
)

// IsSupportedLocale reports whether lng is one of the storefront locales.
func IsSupportedLocale(lng string) bool {
	switch lng {
	case LocaleEN, LocaleRU, LocaleUZ:
		return true
	}
	return false
}

// User is the user record returned by the backend auth endpoints.
type User struct {
	ID          string `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	PhoneNumber string `json:"phoneNumber"`
	Role        string `json:"role"`
}

// Profile returns the denormalized display copy of the user, without its id.
func (u *User) Profile() *Profile {
	if u == nil {
		return nil
	}
	return &Profile{
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		PhoneNumber: u.PhoneNumber,
		Role:        u.Role,
	}
}

// Profile is the cached copy of the signed-in user. Display only; the backend
// stays authoritative.
type Profile struct {
	FirstName   string `json:"firstName"   bson:"first_name"`
	LastName    string `json:"lastName"    bson:"last_name"`
	PhoneNumber string `json:"phoneNumber" bson:"phone_number"`
	Role        string `json:"role"        bson:"role"`
}

// DisplayName joins first and last name.
func (p *Profile) DisplayName() string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// Session holds the per-browser client state: the bearer token, the cart id,
// the cached profile and the selected locale.
type Session struct {
	ID            string
	AccessToken   string
	User          *Profile
	CartID        string
	Authenticated bool
	Locale        string
	UpdatedAt     time.Time
}

// IsAuthenticated mirrors the storefront rule: the flag alone is not enough,
// a token and a profile with a name and phone must also be present.
func (s *Session) IsAuthenticated() bool {
	if s == nil || !s.Authenticated || s.AccessToken == "" || s.User == nil {
		return false
	}
	return s.User.DisplayName() != "" && s.User.PhoneNumber != ""
}

// HasCart reports whether the backend has minted a cart for this session.
func (s *Session) HasCart() bool {
	return s != nil && s.CartID != ""
}
