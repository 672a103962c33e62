package rabbitmq

import (
	"context"
	"encoding/json"

	"whats-my-order/internal/ports"
	"whats-my-order/internal/shared/contracts"
)

// Publisher implements ports.EventPublisher over the resilient Client.
type Publisher struct {
	Client *Client
}

var _ ports.EventPublisher = (*Publisher)(nil)

// PublishOrderCreated marshals the event and publishes it with the
// "order.created" routing key. Failures are returned, not retried: the caller
// treats publication as best-effort.
func (p *Publisher) PublishOrderCreated(_ context.Context, msg contracts.OrderCreatedMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return p.Client.PublishMessage(OrdersExchange, OrderCreatedKey, body)
}
