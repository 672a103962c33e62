package trackingservice

import (
	"context"

	"whats-my-order/internal/ports"
	"whats-my-order/internal/shared/logger"
)

// Service implements ports.TrackingService over the persisted orders.
type Service struct {
	uow    ports.UnitOfWork
	orders ports.OrderRepository
	logger *logger.Logger
}

var _ ports.TrackingService = (*Service)(nil)

// NewService creates a new TrackingService instance with the required dependencies.
func NewService(uow ports.UnitOfWork, orders ports.OrderRepository, log *logger.Logger) *Service {
	return &Service{uow: uow, orders: orders, logger: log}
}

// GetOrderStatus returns a summary view of a finalized order.
func (service *Service) GetOrderStatus(ctx context.Context, orderID string) (*ports.OrderStatusView, error) {
	var out *ports.OrderStatusView
	err := service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		order, err := service.orders.GetByID(txCtx, orderID)
		if err != nil {
			return err
		}

		out = &ports.OrderStatusView{
			OrderID:      order.OrderID,
			CustomerName: order.CustomerName,
			ItemCount:    len(order.Items),
			TotalAmount:  order.TotalAmount,
			CreatedAt:    order.CreatedAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
