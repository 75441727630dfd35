package domain

// MerchantApplication is the "become a seller" request.
type MerchantApplication struct {
	Name        string `json:"name"`
	PhoneNumber string `json:"phoneNumber"`
	BrandName   string `json:"brandName"`
	Business    string `json:"business"`
}

// MerchantSignup completes an invited merchant account.
type MerchantSignup struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password"`
}
