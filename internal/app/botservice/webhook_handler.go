package botservice

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"whats-my-order/internal/adapter/whatsapp"
	"whats-my-order/internal/ports"
	"whats-my-order/internal/shared/logger"
)

// WebhookHandler adapts the messaging platform's webhook to the BotService.
type WebhookHandler struct {
	svc         ports.BotService
	verifyToken string
	logger      *logger.Logger
}

// NewWebhookHandler wires the webhook handler around the bot service.
func NewWebhookHandler(svc ports.BotService, verifyToken string, log *logger.Logger) *WebhookHandler {
	return &WebhookHandler{svc: svc, verifyToken: verifyToken, logger: log}
}

// Register mounts the webhook routes on the provided mux.
func (handler *WebhookHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /webhook", handler.handleVerify)
	mux.HandleFunc("POST /webhook", handler.handleMessages)
}

// handleVerify answers the platform's subscription handshake: echo the
// challenge when the mode is "subscribe" and the token matches, reject otherwise.
func (handler *WebhookHandler) handleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := handler.logger.WithRequestID(r.Context(), uuid.NewString())

	q := r.URL.Query()
	mode := q.Get("hub.mode")
	token := q.Get("hub.verify_token")
	challenge := q.Get("hub.challenge")

	if mode == "subscribe" && handler.verifyToken != "" && token == handler.verifyToken {
		handler.logger.Info(ctx, "webhook_verified", "Webhook subscription verified", nil)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(challenge))
		return
	}

	handler.logger.Warn(ctx, "webhook_verify_rejected", "Webhook verification failed", nil)
	http.Error(w, "verification failed", http.StatusForbidden)
}

// handleMessages decodes the webhook payload and hands each message to the
// core. The response is always 200 for well-formed payloads: the platform
// retries non-2xx deliveries, and a retried delivery must not re-run a state
// transition that already committed.
func (handler *WebhookHandler) handleMessages(w http.ResponseWriter, r *http.Request) {
	ctx := handler.logger.WithRequestID(r.Context(), uuid.NewString())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MiB
	defer r.Body.Close()

	var payload whatsapp.Notification
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		// malformed payloads are rejected at this boundary; the core is never invoked
		handler.logger.Warn(ctx, "webhook_decode_failed", "Rejected malformed webhook payload", err)
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	if payload.Object != whatsapp.BusinessAccountObject {
		// subscriptions for other objects are acknowledged and ignored
		handler.ack(w)
		return
	}

	for _, m := range payload.FlattenMessages() {
		inbound := ports.InboundMessage{
			CustomerID: m.From,
			Text:       m.Body(),
			Type:       m.Type,
		}
		if err := handler.svc.HandleInbound(ctx, inbound); err != nil {
			// store failures and invariant defects; the customer gets no raw error
			handler.logger.Error(ctx, "message_processing_failed", "Failed to process inbound message", err)
		}
	}

	handler.ack(w)
}

func (handler *WebhookHandler) ack(w http.ResponseWriter) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("EVENT_RECEIVED"))
}
