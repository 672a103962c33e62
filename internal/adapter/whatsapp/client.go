package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"whats-my-order/internal/ports"
	"whats-my-order/internal/shared/config"
	"whats-my-order/internal/shared/logger"
)

// Client sends text messages through the WhatsApp Cloud API.
type Client struct {
	httpClient *http.Client
	apiURL     string
	token      string
	logger     *logger.Logger
}

var _ ports.MessageSender = (*Client)(nil)

// NewClient builds a sender for the configured phone number id.
func NewClient(cfg *config.Config, log *logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		apiURL: fmt.Sprintf("https://graph.facebook.com/%s/%s/messages",
			cfg.WhatsApp.APIVersion, cfg.WhatsApp.PhoneNumberID),
		token:  cfg.WhatsApp.Token,
		logger: log,
	}
}

type sendTextRequest struct {
	MessagingProduct string   `json:"messaging_product"`
	To               string   `json:"to"`
	Type             string   `json:"type"`
	Text             sendText `json:"text"`
}

type sendText struct {
	Body string `json:"body"`
}

// SendText delivers one text message to the customer. The call is bounded by
// the client timeout and by ctx; a failure is returned for logging, never retried here.
func (c *Client) SendText(ctx context.Context, to, body string) error {
	payload, err := json.Marshal(sendTextRequest{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "text",
		Text:             sendText{Body: body},
	})
	if err != nil {
		return fmt.Errorf("marshal send request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build send request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("whatsapp send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// keep a short tail of the API error for the operator log
		tail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("whatsapp send: status %d: %s", resp.StatusCode, tail)
	}

	c.logger.Debug(ctx, "message_sent", "Outbound message delivered", map[string]any{"to": to})
	return nil
}
