package botservice

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"time"

	"whats-my-order/internal/domain/conversation"
	"whats-my-order/internal/domain/orders"
)

// buildOrderID derives the order identifier as a SHA-256 content hash over the
// canonicalized session: customer id, cart lines sorted by code, and the
// captured customer record. Every string field is length-prefixed so the
// encoding is injective: field content can never be mistaken for a separator.
// Repeated finalization of an unchanged session yields the same id; different
// customers cannot collide in practice because the customer id is part of the
// preimage. The capture timestamp is excluded so a retried capture with
// identical fields maps to the same order.
func buildOrderID(sess *conversation.Session) string {
	h := sha256.New()
	hashField(h, sess.CustomerID)
	for _, line := range sess.SortedLines() {
		hashField(h, line.ProductCode)
		fmt.Fprintf(h, ":%d:%d", line.Quantity, int64(line.UnitPrice))
	}
	if c := sess.Customer; c != nil {
		hashField(h, c.Name)
		hashField(h, c.Address)
		hashField(h, c.Phone)
		hashField(h, c.PaymentMethod)
	}
	sum := h.Sum(nil)
	return "ORD_" + strings.ToUpper(hex.EncodeToString(sum[:6]))
}

func hashField(w io.Writer, field string) {
	fmt.Fprintf(w, "|%d:%s", len(field), field)
}

// buildOrder snapshots the session into an immutable Order value.
func buildOrder(sess *conversation.Session, now time.Time) *orders.Order {
	lines := sess.SortedLines()
	items := make([]orders.OrderItem, len(lines))
	for i, line := range lines {
		items[i] = orders.OrderItem{
			Code:     line.ProductCode,
			Name:     line.DisplayName,
			Quantity: line.Quantity,
			Price:    line.UnitPrice,
		}
	}

	c := sess.Customer
	order := &orders.Order{
		OrderID:         sess.OrderID,
		CustomerID:      sess.CustomerID,
		Items:           items,
		CustomerName:    c.Name,
		DeliveryAddress: c.Address,
		ContactPhone:    c.Phone,
		PaymentMethod:   c.PaymentMethod,
		CreatedAt:       now.UTC(),
	}
	// recomputed from the snapshotted lines; equal to the total shown at submit
	order.SetTotalAmount()
	return order
}
