package domain

// Product is a single storefront catalog entry.
type Product struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	ImageURL string  `json:"image_url"`
	Category string  `json:"category"`
}

// CartItem is a catalog entry plus the quantity held in a cart.
type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}

// Recommendation pairs a resolved catalog product with the stylist's reason
// for suggesting it.
type Recommendation struct {
	Product Product `json:"product"`
	Reason  string  `json:"reason"`
}
