package domain

type Review struct {
	Product       EntityRef `json:"product"`
	User          string    `json:"user"`
	Title         string    `json:"title"`
	Rating        int       `json:"rating"`
	Review        string    `json:"review"`
	IsRecommended bool      `json:"isRecommended"`
	Status        string    `json:"status"`
}

type ReviewInput struct {
	Product       string `json:"product"`
	Title         string `json:"title"`
	Rating        int    `json:"rating"`
	Review        string `json:"review"`
	IsRecommended bool   `json:"isRecommended"`
}

type Address struct {
	ID        string `json:"id"`
	User      string `json:"user,omitempty"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	Country   string `json:"country,omitempty"`
	ZipCode   string `json:"zipCode"`
	IsDefault bool   `json:"isDefault"`
}

type AddressInput struct {
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	Country   string `json:"country"`
	ZipCode   string `json:"zipCode"`
	IsDefault bool   `json:"isDefault"`
}

// WishlistItem is a product with the shopper's like state.
type WishlistItem = Product
