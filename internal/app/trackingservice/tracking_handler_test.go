package trackingservice

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whats-my-order/internal/domain/orders"
	"whats-my-order/internal/shared/logger"
)

type passthroughUow struct{}

func (passthroughUow) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type mapOrdersRepo struct {
	orders map[string]*orders.Order
	err    error
}

func (m *mapOrdersRepo) CreateOrder(_ context.Context, o *orders.Order) error {
	m.orders[o.OrderID] = o
	return nil
}

func (m *mapOrdersRepo) GetByID(_ context.Context, orderID string) (*orders.Order, error) {
	if m.err != nil {
		return nil, m.err
	}
	o, ok := m.orders[orderID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return o, nil
}

func newTrackingMux(repo *mapOrdersRepo) *http.ServeMux {
	log := logger.NewLogger("tracking-service-test")
	svc := NewService(passthroughUow{}, repo, log)
	mux := http.NewServeMux()
	NewHandler(log, svc).Register(mux)
	return mux
}

func TestGetOrderStatus(t *testing.T) {
	created := time.Date(2025, 6, 1, 12, 0, 5, 0, time.UTC)
	repo := &mapOrdersRepo{orders: map[string]*orders.Order{
		"ORD_AB12CD34EF56": {
			OrderID:      "ORD_AB12CD34EF56",
			CustomerID:   "521555",
			CustomerName: "Ana Pérez",
			Items: []orders.OrderItem{
				{Code: "A12", Name: "Arroz", Quantity: 2, Price: 1500},
				{Code: "B05", Name: "Aceite", Quantity: 1, Price: 1800},
			},
			TotalAmount: 4800,
			CreatedAt:   created,
		},
	}}
	mux := newTrackingMux(repo)

	req := httptest.NewRequest(http.MethodGet, "/orders/ORD_AB12CD34EF56/status", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		OrderID      string    `json:"order_id"`
		CustomerName string    `json:"customer_name"`
		ItemCount    int       `json:"item_count"`
		TotalAmount  float64   `json:"total_amount"`
		CreatedAt    time.Time `json:"created_at"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ORD_AB12CD34EF56", body.OrderID)
	assert.Equal(t, "Ana Pérez", body.CustomerName)
	assert.Equal(t, 2, body.ItemCount)
	assert.InDelta(t, 48.00, body.TotalAmount, 0.001)
	assert.True(t, body.CreatedAt.Equal(created))
}

func TestGetOrderStatusNotFound(t *testing.T) {
	mux := newTrackingMux(&mapOrdersRepo{orders: map[string]*orders.Order{}})

	req := httptest.NewRequest(http.MethodGet, "/orders/ORD_MISSING00000/status", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error": "not found"}`, rec.Body.String())
}

func TestGetOrderStatusRepoFailure(t *testing.T) {
	mux := newTrackingMux(&mapOrdersRepo{
		orders: map[string]*orders.Order{},
		err:    fmt.Errorf("connection reset"),
	})

	req := httptest.NewRequest(http.MethodGet, "/orders/ORD_AB12CD34EF56/status", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
