package domain

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// Sort orders accepted by the product list endpoint.
const (
	SortAll           = "all"
	SortMostExpensive = "most-expensive"
	SortCheapest      = "cheapest"
)

// FlexibleID accepts ids the backend sends either as JSON numbers or strings.
type FlexibleID string

func (id *FlexibleID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = FlexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = FlexibleID(n.String())
	return nil
}

// EntityRef is the {id, name} shape the backend embeds in other records.
type EntityRef struct {
	ID   FlexibleID `json:"id"`
	Name string     `json:"name"`
}

// Category groups products in the catalog menu.
type Category struct {
	ID          FlexibleID `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Slug        string     `json:"slug,omitempty"`
}

type Image struct {
	ImageURL string `json:"imageUrl"`
	ImageKey string `json:"imageKey"`
}

type Brand struct {
	ID       string `json:"_id"`
	Name     string `json:"name"`
	IsActive bool   `json:"isActive"`
}

// Product is a catalog item. Rating, discount, category and wishlist fields are
// only present on the endpoints that return them.
type Product struct {
	ID              string    `json:"id"`
	Images          []Image   `json:"images"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Colors          []string  `json:"colors"`
	Price           float64   `json:"price"`
	Brand           Brand     `json:"brand"`
	Quantity        int       `json:"quantity"`
	AverageRating   float64   `json:"averageRating,omitempty"`
	TotalRatings    int       `json:"totalRatings,omitempty"`
	TotalReviews    int       `json:"totalReviews,omitempty"`
	IsDiscounted    bool      `json:"isDiscounted"`
	DiscountedPrice float64   `json:"discountedPrice,omitempty"`
	DiscountPercent int       `json:"discountPercent,omitempty"`
	Category        *Category `json:"category,omitempty"`
	IsLiked         bool      `json:"isLiked,omitempty"`
}

// EffectivePrice is the price a shopper pays for one unit.
func (p *Product) EffectivePrice() float64 {
	if p.IsDiscounted {
		return p.DiscountedPrice
	}
	return p.Price
}

// Decorate fills the derived DiscountPercent field.
func (p *Product) Decorate() {
	if p.IsDiscounted {
		p.DiscountPercent = DiscountPercent(p.Price, p.DiscountedPrice)
	}
}

// DiscountPercent is the rounded percentage knocked off price.
func DiscountPercent(price, discounted float64) int {
	if price <= 0 {
		return 0
	}
	return 100 - int(math.Round(discounted*100/price))
}

// Page is the backend list envelope.
type Page[T any] struct {
	Count   int `json:"count"`
	Results []T `json:"results"`
}

// ProductPage is a product list, optionally scoped to a category.
type ProductPage struct {
	Page[Product]
	Category *Category `json:"category"`
}

// Decorate decorates every product in the page.
func (p *ProductPage) Decorate() {
	for i := range p.Results {
		p.Results[i].Decorate()
	}
}

// ListParams are the shared paging parameters.
type ListParams struct {
	Page   int
	Limit  int
	Search string
}

// ProductFilter narrows the product list. Zero values are omitted from the
// backend query.
type ProductFilter struct {
	ListParams
	Min                   *float64
	Max                   *float64
	Category              string
	Rating                int
	SortBy                string
	InDiscount            bool
	IsNew                 bool
	GeneralRecommendation bool
}

// CacheSegment renders the price filters as one query key segment.
func (f ProductFilter) CacheSegment() string {
	seg := "min=" + formatBound(f.Min) + ",max=" + formatBound(f.Max)
	if f.Rating > 0 {
		seg += ",rating=" + strconv.Itoa(f.Rating)
	}
	return seg
}

func formatBound(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
