package orders

import (
	"time"
)

// OrderItem represents a single line in a finalized order.
type OrderItem struct {
	Code     string
	Name     string
	Quantity int
	Price    Money // per-unit in cents, snapshotted at cart insertion
}

// Subtotal returns quantity times unit price.
func (it OrderItem) Subtotal() Money {
	return Money(it.Quantity) * it.Price
}

// Order is the immutable snapshot handed to persistence after finalization.
// The core never mutates an Order once built.
type Order struct {
	OrderID         string // ORD_<hex>, deterministic content hash of the session
	CustomerID      string // channel-level customer identifier (phone number)
	Items           []OrderItem
	TotalAmount     Money
	CustomerName    string
	DeliveryAddress string
	ContactPhone    string
	PaymentMethod   string
	CreatedAt       time.Time
}

// SetTotalAmount recomputes total from items.
func (order *Order) SetTotalAmount() {
	var sum Money
	for _, it := range order.Items {
		sum += it.Subtotal()
	}
	order.TotalAmount = sum
}
