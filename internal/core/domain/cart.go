package domain

// QuantityAction is the direction of a cart quantity change.
type QuantityAction string

const (
	QuantityInc QuantityAction = "inc"
	QuantityDec QuantityAction = "dec"
)

func (a QuantityAction) Valid() bool {
	return a == QuantityInc || a == QuantityDec
}

// CartItemDetails is the line the backend expects when creating or adding.
type CartItemDetails struct {
	Product    string  `json:"product"`
	Quantity   int     `json:"quantity"`
	TotalPrice float64 `json:"totalPrice"`
}

// NewCartLine builds a single unit line for p at its effective price.
func NewCartLine(p *Product) CartItemDetails {
	return CartItemDetails{
		Product:    p.ID,
		Quantity:   1,
		TotalPrice: p.EffectivePrice(),
	}
}

type CartItem struct {
	Product    Product `json:"product"`
	Quantity   int     `json:"quantity"`
	TotalPrice float64 `json:"totalPrice"`
	Status     string  `json:"status"`
}

// Cart is the backend's view of the session's cart.
type Cart struct {
	Products []CartItem `json:"products"`
	User     string     `json:"user"`
}

// Total sums effective unit price times quantity over every line.
func (c *Cart) Total() float64 {
	if c == nil {
		return 0
	}
	var total float64
	for _, item := range c.Products {
		qty := item.Quantity
		if qty <= 0 {
			qty = 1
		}
		total += item.Product.EffectivePrice() * float64(qty)
	}
	return total
}

// Empty reports whether the cart has no lines.
func (c *Cart) Empty() bool {
	return c == nil || len(c.Products) == 0
}

// Order is the receipt returned when checkout is initiated.
type Order struct {
	ID string `json:"id"`
}

type PurchaseItem struct {
	Product    Product `json:"product"`
	Quantity   int     `json:"quantity"`
	Status     string  `json:"status"`
	TotalPrice float64 `json:"totalPrice"`
}

// Purchase is a past order in the profile.
type Purchase struct {
	ID       string         `json:"id"`
	Created  string         `json:"created"`
	Total    float64        `json:"total"`
	Products []PurchaseItem `json:"products"`
}
