package notificationservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"whats-my-order/internal/shared/contracts"
	"whats-my-order/internal/shared/logger"
	"whats-my-order/internal/shared/rabbitmq"
)

// ConsumeForever continuously (re)creates a channel and consumes order-created
// events from the durable notifications queue until ctx is cancelled.
func ConsumeForever(ctx context.Context, rmq *rabbitmq.Client, log *logger.Logger) {
	const (
		prefetch       = 50               // limit unacked messages this consumer can hold
		retryBaseDelay = time.Second      // backoff base
		retryMaxDelay  = 30 * time.Second // backoff cap
		consumerName   = ""               // let the server generate a unique consumer tag
		autoAck        = false
		exclusive      = false
		noLocal        = false
		noWait         = false
	)

	backoff := retryBaseDelay
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		// acquire a fresh channel with QoS
		ch, err := rmq.NewConsumerChannel(prefetch)
		if err != nil {
			log.Error(ctx, "rabbitmq_channel_open_failed", "Failed to open consumer channel", err)
			if !sleepWithContext(ctx, backoff) {
				return
			}
			backoff = nextBackoff(backoff, retryMaxDelay)
			continue
		}

		// reset backoff on successful channel creation
		backoff = retryBaseDelay

		deliveries, err := ch.Consume(rabbitmq.NotificationsQueue, consumerName, autoAck, exclusive, noLocal, noWait, nil)
		if err != nil {
			_ = ch.Close()
			log.Error(ctx, "rabbitmq_consume_failed", "Failed to start consuming notifications", err)
			if !sleepWithContext(ctx, backoff) {
				return
			}
			backoff = nextBackoff(backoff, retryMaxDelay)
			continue
		}

		// watch for channel close to trigger a re-open
		closed := ch.NotifyClose(make(chan *amqp.Error, 1))

	consumption:
		for {
			select {
			case <-ctx.Done():
				_ = ch.Close()
				break consumption

			case amqpErr := <-closed:
				if amqpErr != nil {
					log.Error(ctx, "rabbitmq_channel_closed", "Consumer channel closed", amqpErr)
				} else {
					log.Error(ctx, "rabbitmq_channel_closed", "Consumer channel closed", errors.New("unknown channel close"))
				}
				break consumption

			case d, ok := <-deliveries:
				if !ok {
					log.Error(ctx, "rabbitmq_deliveries_closed", "Deliveries channel closed", errors.New("deliveries channel closed"))
					break consumption
				}

				handleDelivery(ctx, log, d)
			}
		}

		// small delay before attempting to recreate channel (avoid hot loop)
		if !sleepWithContext(ctx, backoff) {
			return
		}
		backoff = nextBackoff(backoff, retryMaxDelay)
	}
}

// handleDelivery parses the order-created JSON, logs it, and acknowledges.
func handleDelivery(ctx context.Context, log *logger.Logger, d amqp.Delivery) {
	var event contracts.OrderCreatedMessage
	if err := json.Unmarshal(d.Body, &event); err != nil {
		log.Error(ctx, "notification_decode_failed", "Failed to decode order event JSON", err)
		// malformed JSON cannot be recovered by redelivery - ack to drop it
		_ = d.Ack(false)
		return
	}

	fmt.Println(renderHuman(event))

	log.Debug(ctx, "notification_received", "Received order-created event", map[string]any{
		"order_id":     event.OrderID,
		"customer_id":  event.CustomerID,
		"total_amount": event.TotalAmount,
		"items":        len(event.Items),
	})

	_ = d.Ack(false)
}

// renderHuman formats a line for whoever watches the notification feed.
func renderHuman(event contracts.OrderCreatedMessage) string {
	return fmt.Sprintf(
		"New order %s from %s (%s): %d item(s), total $%.2f, payment %s",
		event.OrderID, event.CustomerName, event.CustomerID,
		len(event.Items), event.TotalAmount, event.PaymentMethod,
	)
}

// Helpers

// sleepWithContext sleeps for the given duration or returns early if ctx is done.
func sleepWithContext(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// nextBackoff calculates the next backoff duration with exponential growth capped at max.
func nextBackoff(curr, cap time.Duration) time.Duration {
	n := curr * 2
	if n > cap {
		return cap
	}
	return n
}
