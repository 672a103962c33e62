package trackingservice

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"whats-my-order/internal/ports"
	"whats-my-order/internal/shared/logger"
)

// TrackingHTTPHandler adapts HTTP requests to the TrackingService.
type TrackingHTTPHandler struct {
	logger *logger.Logger
	svc    ports.TrackingService
}

// NewHandler wires an HTTP handler around the TrackingService.
func NewHandler(log *logger.Logger, svc ports.TrackingService) *TrackingHTTPHandler {
	return &TrackingHTTPHandler{logger: log, svc: svc}
}

// Register mounts the order lookup route on the provided mux.
func (handler *TrackingHTTPHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /orders/{order_id}/status", handler.getOrderStatus)
}

// getOrderStatus handles GET /orders/{order_id}/status.
func (handler *TrackingHTTPHandler) getOrderStatus(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)
	orderID := r.PathValue("order_id")
	handler.logger.Debug(ctx, "request_received", "GET /orders/{order_id}/status", map[string]any{"order_id": orderID})

	view, err := handler.svc.GetOrderStatus(ctx, orderID)
	if err != nil {
		handler.maybeNotFound(ctx, w, err)
		return
	}

	resp := map[string]any{
		"order_id":      view.OrderID,
		"customer_name": view.CustomerName,
		"item_count":    view.ItemCount,
		"total_amount":  view.TotalAmount.ToFloat2(),
		"created_at":    view.CreatedAt,
	}
	handler.writeJSON(w, http.StatusOK, resp)
}

// --- Helpers ---

// maybeNotFound maps pgx.ErrNoRows to 404, anything else to a logged 500.
func (handler *TrackingHTTPHandler) maybeNotFound(ctx context.Context, w http.ResponseWriter, err error) {
	if errors.Is(err, pgx.ErrNoRows) {
		handler.writeErr(w, http.StatusNotFound, "not found")
		return
	}

	handler.logger.Error(ctx, "db_query_failed", "Database query failed", err)
	handler.writeErr(w, http.StatusInternalServerError, "internal server error")
}

// writeJSON writes the provided value as a JSON response with the given status code.
func (handler *TrackingHTTPHandler) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeErr writes a JSON error response with a message.
func (handler *TrackingHTTPHandler) writeErr(w http.ResponseWriter, code int, msg string) {
	handler.writeJSON(w, code, map[string]any{"error": msg})
}

// withReqID extracts or generates a request ID and adds it to the context.
func (handler *TrackingHTTPHandler) withReqID(ctx context.Context, r *http.Request) context.Context {
	reqID := r.Header.Get("X-Request-ID")
	if reqID == "" {
		reqID = uuid.NewString()
	}
	return handler.logger.WithRequestID(ctx, reqID)
}
