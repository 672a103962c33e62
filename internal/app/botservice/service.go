package botservice

import (
	"context"
	"fmt"
	"time"

	"whats-my-order/internal/domain/conversation"
	"whats-my-order/internal/domain/orders"
	"whats-my-order/internal/ports"
	"whats-my-order/internal/shared/contracts"
	"whats-my-order/internal/shared/logger"
)

// Service implements ports.BotService: the conversation state machine plus the
// commit and side-effect discipline around it.
type Service struct {
	store     ports.SessionStore
	catalog   ports.Catalog
	uow       ports.UnitOfWork
	orders    ports.OrderRepository
	publisher ports.EventPublisher
	sender    ports.MessageSender
	logger    *logger.Logger

	locks *keyedMutex
	now   func() time.Time
}

var _ ports.BotService = (*Service)(nil)

// New creates the bot service with the required collaborators.
func New(
	store ports.SessionStore,
	catalog ports.Catalog,
	uow ports.UnitOfWork,
	ordersRepo ports.OrderRepository,
	publisher ports.EventPublisher,
	sender ports.MessageSender,
	log *logger.Logger,
) *Service {
	return &Service{
		store:     store,
		catalog:   catalog,
		uow:       uow,
		orders:    ordersRepo,
		publisher: publisher,
		sender:    sender,
		logger:    log,
		locks:     newKeyedMutex(),
		now:       time.Now,
	}
}

// HandleInbound processes one decoded message event. Per customer, the whole
// read-dispatch-commit cycle holds that customer's lock, so concurrent
// arrivals can never apply two mutations to a stale read of the same session.
//
// Ordering within one call: compute the full result from a cloned session,
// commit the session, then persist/publish/send best-effort. Downstream
// failures after commit are logged and never re-run the transition.
func (s *Service) HandleInbound(ctx context.Context, msg ports.InboundMessage) error {
	// unsupported media is a deliberate pass-through: acknowledge, no reply
	if msg.Type != ports.MessageTypeText {
		s.logger.Debug(ctx, "message_ignored", "Ignoring non-text message", map[string]any{
			"customer_id": msg.CustomerID,
			"type":        msg.Type,
		})
		return nil
	}

	unlock := s.locks.Lock(msg.CustomerID)
	defer unlock()

	sess, err := s.store.Get(ctx, msg.CustomerID)
	if err != nil {
		return fmt.Errorf("session get: %w", err)
	}

	res, err := s.dispatch(sess.Clone(), msg.Text)
	if err != nil {
		return err
	}

	// commit the session before any side effect
	if res.deleteSession {
		if err := s.store.Delete(ctx, msg.CustomerID); err != nil {
			return fmt.Errorf("session delete: %w", err)
		}
	} else {
		if err := s.store.Save(ctx, res.next); err != nil {
			return fmt.Errorf("session save: %w", err)
		}
	}

	if res.order != nil {
		s.persistOrder(ctx, res.order)
		s.publishOrder(ctx, res.order)
	}

	for _, text := range res.replies {
		if err := s.sender.SendText(ctx, msg.CustomerID, text); err != nil {
			// never retried through the state machine; the transition is already committed
			s.logger.Warn(ctx, "outbound_send_failed", "Failed to deliver reply", err)
		}
	}

	return nil
}

// dispatch runs the command interceptor, then the state handler table.
func (s *Service) dispatch(sess *conversation.Session, text string) (*result, error) {
	if res, ok := s.intercept(sess, text); ok {
		return res, nil
	}

	handler, ok := handlers[sess.State]
	if !ok {
		// the state enum is closed; reaching here is a defect, not a runtime condition
		return nil, fmt.Errorf("dispatch into undefined state %q for customer %s", sess.State, sess.CustomerID)
	}
	return handler(s, sess, text), nil
}

// persistOrder stores the order snapshot, fire-and-forget: the receipt has
// already been promised to the customer, so a storage failure is an operator
// problem, not a user-visible one.
func (s *Service) persistOrder(ctx context.Context, order *orders.Order) {
	storeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := s.uow.WithinTx(storeCtx, func(txCtx context.Context) error {
		return s.orders.CreateOrder(txCtx, order)
	})
	if err != nil {
		s.logger.Warn(ctx, "order_persist_failed", "Failed to persist order "+order.OrderID, err)
		return
	}
	s.logger.Info(ctx, "order_persisted", "Order stored", map[string]any{
		"order_id":     order.OrderID,
		"customer_id":  order.CustomerID,
		"total_amount": order.TotalAmount.ToFloat2(),
	})
}

// publishOrder emits the order-created event, also best-effort.
func (s *Service) publishOrder(ctx context.Context, order *orders.Order) {
	items := make([]contracts.OrderItemMessage, len(order.Items))
	for i, it := range order.Items {
		items[i] = contracts.OrderItemMessage{
			Code:     it.Code,
			Name:     it.Name,
			Quantity: it.Quantity,
			Price:    it.Price.ToFloat2(),
		}
	}

	msg := contracts.OrderCreatedMessage{
		OrderID:       order.OrderID,
		CustomerID:    order.CustomerID,
		CustomerName:  order.CustomerName,
		PaymentMethod: order.PaymentMethod,
		Items:         items,
		TotalAmount:   order.TotalAmount.ToFloat2(),
		CreatedAt:     order.CreatedAt,
	}

	if err := s.publisher.PublishOrderCreated(ctx, msg); err != nil {
		s.logger.Warn(ctx, "order_publish_failed", "Failed to publish order event "+order.OrderID, err)
	}
}
