package domain

import "strconv"

// QueryKey names a cached query. Invalidating a key also drops every key it
// prefixes, so ["products"] covers all product list pages.
type QueryKey []string

var (
	KeyCart               = QueryKey{"cart"}
	KeyWishlist           = QueryKey{"wishlist"}
	KeyCategories         = QueryKey{"categories"}
	KeyNewProducts        = QueryKey{"new-products"}
	KeyDiscountedProducts = QueryKey{"discounted-products"}
	KeyGeneralProducts    = QueryKey{"general-products"}
	KeyPurchases          = QueryKey{"purchases"}
	KeyReviews            = QueryKey{"reviews"}
	KeyAddresses          = QueryKey{"addresses"}
	KeyProductReviewsAll  = QueryKey{"product-reviews"}
)

// ProductsKey is ["products", categorySlug, page, limit, search, sortBy, filters].
// Every parameter the backend receives is part of the key.
func ProductsKey(f ProductFilter) QueryKey {
	return QueryKey{
		"products", f.Category,
		strconv.Itoa(f.Page), strconv.Itoa(f.Limit), f.Search,
		f.SortBy, f.CacheSegment(),
	}
}

func ProductKey(id string) QueryKey {
	return QueryKey{"product", id}
}

func ProductReviewsKey(productID string) QueryKey {
	return QueryKey{"product-reviews", productID}
}

func SearchKey(name string) QueryKey {
	return QueryKey{"search", name}
}

// PagedKey appends paging parameters to a list key.
func PagedKey(base QueryKey, p ListParams) QueryKey {
	key := append(QueryKey{}, base...)
	return append(key, strconv.Itoa(p.Page), strconv.Itoa(p.Limit), p.Search)
}
