package conversation

import (
	"sort"
	"time"

	"whats-my-order/internal/domain/orders"
)

// CartLine is one product code with quantity and the unit price snapshotted
// at insertion time. Catalog price changes do not retroactively alter an open cart.
type CartLine struct {
	ProductCode string       `json:"product_code"`
	DisplayName string       `json:"display_name"`
	UnitPrice   orders.Money `json:"unit_price"`
	Quantity    int          `json:"quantity"`
}

// Subtotal returns quantity times unit price.
func (l CartLine) Subtotal() orders.Money {
	return orders.Money(l.Quantity) * l.UnitPrice
}

// Customer is the structured record captured during capturing_customer_data.
// It is all-or-nothing: either all four fields are set, or the record is absent.
type Customer struct {
	Name          string    `json:"name"`
	Address       string    `json:"address"`
	Phone         string    `json:"phone"`
	PaymentMethod string    `json:"payment_method"`
	CapturedAt    time.Time `json:"captured_at"`
}

// Session is the per-customer conversational state plus in-progress cart and
// customer data. It is owned by the session store and mutated only through
// state-machine handlers.
type Session struct {
	CustomerID string              `json:"customer_id"`
	State      State               `json:"state"`
	Cart       map[string]CartLine `json:"cart,omitempty"`
	Total      orders.Money        `json:"total"` // snapshotted when entering confirming_order
	Customer   *Customer           `json:"customer,omitempty"`
	OrderID    string              `json:"order_id,omitempty"` // assigned exactly once, at finalization
}

// NewSession returns a default-constructed session in the init state.
// Absence of a stored session for a customer is equivalent to this value.
func NewSession(customerID string) *Session {
	return &Session{
		CustomerID: customerID,
		State:      StateInit,
		Cart:       make(map[string]CartLine),
	}
}

// Clone returns a deep copy. Handlers mutate a clone and the caller commits it,
// so a failed handler never leaves the stored session half-mutated.
func (s *Session) Clone() *Session {
	out := *s
	out.Cart = make(map[string]CartLine, len(s.Cart))
	for code, line := range s.Cart {
		out.Cart[code] = line
	}
	if s.Customer != nil {
		c := *s.Customer
		out.Customer = &c
	}
	return &out
}

// UpsertLine inserts or replaces the cart line for line.ProductCode.
// Re-entering the same code replaces the quantity rather than accumulating it.
func (s *Session) UpsertLine(line CartLine) {
	if s.Cart == nil {
		s.Cart = make(map[string]CartLine)
	}
	s.Cart[line.ProductCode] = line
}

// ClearCart drops all cart lines.
func (s *Session) ClearCart() {
	s.Cart = make(map[string]CartLine)
}

// CartTotal sums line subtotals.
func (s *Session) CartTotal() orders.Money {
	var sum orders.Money
	for _, line := range s.Cart {
		sum += line.Subtotal()
	}
	return sum
}

// SortedLines returns cart lines ordered by product code, for stable
// summaries, receipts, and order-id hashing.
func (s *Session) SortedLines() []CartLine {
	lines := make([]CartLine, 0, len(s.Cart))
	for _, line := range s.Cart {
		lines = append(lines, line)
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].ProductCode < lines[j].ProductCode })
	return lines
}
