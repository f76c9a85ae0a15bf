package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// ValidOrderStatus reports whether s is one of the known statuses.
// Transitions are admin-driven and unordered, so any status may follow any other.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

type Order struct {
	ID                string      `json:"id"`
	UserID            *string     `json:"userId,omitempty"`
	PaymentIntentID   string      `json:"-"`
	Status            OrderStatus `json:"status"`
	TotalAmount       float64     `json:"totalAmount"`
	ShippingAddressID *string     `json:"shippingAddressId,omitempty"`
	ShippingCost      float64     `json:"shippingCost"`
	CreatedAt         time.Time   `json:"createdAt"`
	UpdatedAt         time.Time   `json:"updatedAt"`
	Items             []OrderItem `json:"items,omitempty"`
}

// OrderItem is immutable once written; unit_price is denormalized so historical
// orders are unaffected by later price changes.
type OrderItem struct {
	ID          string    `json:"id"`
	OrderID     string    `json:"orderId"`
	ProductID   string    `json:"productId"`
	Quantity    int       `json:"quantity"`
	UnitPrice   float64   `json:"unitPrice"`
	ProductName string    `json:"productName,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}
