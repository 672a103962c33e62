package postgres

import (
	"context"

	"whats-my-order/internal/domain/orders"
	"whats-my-order/internal/ports"
)

// OrdersRepo implements persistence for finalized order snapshots using pgx and SQL.
type OrdersRepo struct{}

// NewOrdersRepo constructs a new OrdersRepo.
func NewOrdersRepo() ports.OrderRepository {
	return &OrdersRepo{}
}

// CreateOrder inserts the order header and its lines. The order id is a
// deterministic content hash, so a retried finalization of an unchanged
// session hits ON CONFLICT DO NOTHING and the insert stays idempotent.
func (r *OrdersRepo) CreateOrder(ctx context.Context, order *orders.Order) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	// note: total_amount is NUMERIC(10,2) in DB; we send integer cents and divide by 100 in SQL.
	tag, err := tx.Exec(ctx, `
		INSERT INTO orders (order_id, customer_id, customer_name, delivery_address, contact_phone, payment_method, total_amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7::numeric/100, $8)
		ON CONFLICT (order_id) DO NOTHING`,
		order.OrderID,
		order.CustomerID,
		order.CustomerName,
		order.DeliveryAddress,
		order.ContactPhone,
		order.PaymentMethod,
		int64(order.TotalAmount),
		order.CreatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		// already persisted by an earlier finalization of the same session
		return nil
	}

	for i := range order.Items {
		it := &order.Items[i]
		_, err = tx.Exec(ctx, `
			INSERT INTO order_items (order_id, code, name, quantity, price)
			VALUES ($1, $2, $3, $4, $5::numeric/100)
		`,
			order.OrderID,
			it.Code,
			it.Name,
			it.Quantity,
			int64(it.Price),
		)
		if err != nil {
			return err
		}
	}

	return nil
}

// GetByID retrieves an order snapshot by its order id, including its lines.
func (r *OrdersRepo) GetByID(ctx context.Context, orderID string) (*orders.Order, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var order orders.Order
	err = tx.QueryRow(ctx, `
		SELECT order_id, customer_id, customer_name, delivery_address, contact_phone, payment_method, total_amount::numeric*100, created_at
		FROM orders
		WHERE order_id = $1
	`, orderID).Scan(
		&order.OrderID, &order.CustomerID, &order.CustomerName, &order.DeliveryAddress,
		&order.ContactPhone, &order.PaymentMethod, &order.TotalAmount, &order.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
		SELECT code, name, quantity, price::numeric*100
		FROM order_items
		WHERE order_id = $1
		ORDER BY code
	`, order.OrderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item orders.OrderItem
		if err := rows.Scan(&item.Code, &item.Name, &item.Quantity, &item.Price); err != nil {
			return nil, err
		}
		order.Items = append(order.Items, item)
	}

	return &order, rows.Err()
}
