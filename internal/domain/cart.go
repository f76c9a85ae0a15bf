package domain

// CartItem snapshots a product at add-time. Price is captured when the item
// is added and is not re-fetched at checkout.
type CartItem struct {
	ID        string  `json:"id"`
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Image     string  `json:"image,omitempty"`
}

type Cart struct {
	Items []CartItem `json:"items"`
	Total float64    `json:"total"`
}
