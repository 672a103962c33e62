package botservice

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whats-my-order/internal/ports"
	"whats-my-order/internal/shared/logger"
)

type capturingBot struct {
	inbound []ports.InboundMessage
	err     error
}

func (b *capturingBot) HandleInbound(_ context.Context, msg ports.InboundMessage) error {
	b.inbound = append(b.inbound, msg)
	return b.err
}

func newWebhookMux(bot ports.BotService, verifyToken string) *http.ServeMux {
	h := NewWebhookHandler(bot, verifyToken, logger.NewLogger("bot-service-test"))
	mux := http.NewServeMux()
	h.Register(mux)
	return mux
}

func TestVerifyEchoesChallenge(t *testing.T) {
	mux := newWebhookMux(&capturingBot{}, "secreto")

	req := httptest.NewRequest(http.MethodGet,
		"/webhook?hub.mode=subscribe&hub.verify_token=secreto&hub.challenge=12345", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "12345", rec.Body.String())
}

func TestVerifyRejectsBadToken(t *testing.T) {
	mux := newWebhookMux(&capturingBot{}, "secreto")

	req := httptest.NewRequest(http.MethodGet,
		"/webhook?hub.mode=subscribe&hub.verify_token=otro&hub.challenge=12345", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestVerifyRejectsWrongMode(t *testing.T) {
	mux := newWebhookMux(&capturingBot{}, "secreto")

	req := httptest.NewRequest(http.MethodGet,
		"/webhook?hub.mode=unsubscribe&hub.verify_token=secreto&hub.challenge=12345", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestVerifyRejectsEmptyConfiguredToken(t *testing.T) {
	// an unset secret must never verify, even against an empty provided token
	mux := newWebhookMux(&capturingBot{}, "")

	req := httptest.NewRequest(http.MethodGet,
		"/webhook?hub.mode=subscribe&hub.verify_token=&hub.challenge=12345", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

const samplePayload = `{
  "object": "whatsapp_business_account",
  "entry": [{
    "id": "1001",
    "changes": [{
      "field": "messages",
      "value": {
        "messaging_product": "whatsapp",
        "messages": [
          {"id": "wamid.1", "from": "521555", "type": "text", "text": {"body": "hola"}},
          {"id": "wamid.2", "from": "521555", "type": "image"}
        ]
      }
    }]
  }]
}`

func TestMessagesDispatchToBotService(t *testing.T) {
	bot := &capturingBot{}
	mux := newWebhookMux(bot, "secreto")

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(samplePayload))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "EVENT_RECEIVED", rec.Body.String())

	require.Len(t, bot.inbound, 2)
	assert.Equal(t, ports.InboundMessage{CustomerID: "521555", Text: "hola", Type: "text"}, bot.inbound[0])
	assert.Equal(t, "image", bot.inbound[1].Type)
	assert.Empty(t, bot.inbound[1].Text)
}

func TestMessagesRejectMalformedPayload(t *testing.T) {
	bot := &capturingBot{}
	mux := newWebhookMux(bot, "secreto")

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, bot.inbound, "the core is never invoked for malformed payloads")
}

func TestMessagesIgnoreOtherObjects(t *testing.T) {
	bot := &capturingBot{}
	mux := newWebhookMux(bot, "secreto")

	req := httptest.NewRequest(http.MethodPost, "/webhook",
		strings.NewReader(`{"object": "page", "entry": []}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "EVENT_RECEIVED", rec.Body.String())
	assert.Empty(t, bot.inbound)
}

func TestMessagesAckEvenWhenProcessingFails(t *testing.T) {
	// the platform retries non-2xx deliveries; a retried delivery must not
	// re-run a transition that already committed
	bot := &capturingBot{err: assert.AnError}
	mux := newWebhookMux(bot, "secreto")

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(samplePayload))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
