package contracts

import "time"

// OrderItemMessage is the wire-format for a single item in an order event.
type OrderItemMessage struct {
	Code     string  `json:"code"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"` // unit price in dollars
}

// OrderCreatedMessage is published to "orders_topic" with routing key
// "order.created" after a successful finalization.
type OrderCreatedMessage struct {
	OrderID       string             `json:"order_id"`
	CustomerID    string             `json:"customer_id"`
	CustomerName  string             `json:"customer_name"`
	PaymentMethod string             `json:"payment_method"`
	Items         []OrderItemMessage `json:"items"`
	TotalAmount   float64            `json:"total_amount"` // dollars
	CreatedAt     time.Time          `json:"created_at"`
}
