package ports

import (
	"context"
	"time"

	"whats-my-order/internal/domain/orders"
	"whats-my-order/internal/shared/contracts"
)

// MessageTypeText is the only inbound message type the core processes.
const MessageTypeText = "text"

// InboundMessage is the decoded message event handed over by the transport.
type InboundMessage struct {
	CustomerID string
	Text       string
	Type       string // anything but "text" is acknowledged as a no-op
}

// OutboundMessage is one reply; the core only ever addresses the triggering customer.
type OutboundMessage struct {
	CustomerID string
	Text       string
}

// BotService drives the conversation state machine for one inbound message:
// intercept global commands, dispatch on session state, commit the next
// session, then deliver replies best-effort.
type BotService interface {
	HandleInbound(ctx context.Context, msg InboundMessage) error
}

// MessageSender delivers outbound messages through the messaging transport.
// Send failures must never re-run a state transition.
type MessageSender interface {
	SendText(ctx context.Context, to, body string) error
}

// EventPublisher emits order lifecycle events to the broker, best-effort.
type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, msg contracts.OrderCreatedMessage) error
}

// TrackingService powers GET /orders/{order_id}/status.
type TrackingService interface {
	GetOrderStatus(ctx context.Context, orderID string) (*OrderStatusView, error)
}

type OrderStatusView struct {
	OrderID      string
	CustomerName string
	ItemCount    int
	TotalAmount  orders.Money
	CreatedAt    time.Time
}
