package alert

import (
	"context"
	"net/http"
	"time"

	"solana-trade-sentry/internal/domain"
)

// WebhookChannel posts the trade as a flat JSON object to a generic
// webhook endpoint.
type WebhookChannel struct {
	url    string
	client *http.Client
}

// NewWebhookChannel creates a generic webhook channel.
func NewWebhookChannel(url string, client *http.Client) *WebhookChannel {
	if client == nil {
		client = &http.Client{}
	}
	return &WebhookChannel{url: url, client: client}
}

// Name implements Channel.
func (w *WebhookChannel) Name() string { return "webhook" }

// webhookPayload is the wire shape of the generic webhook alert.
type webhookPayload struct {
	Type      string    `json:"type"`
	Amount    float64   `json:"amount"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Signature string    `json:"signature"`
	Timestamp time.Time `json:"timestamp"`
	Fee       float64   `json:"fee"`
}

// Send implements Channel.
func (w *WebhookChannel) Send(ctx context.Context, trade domain.Trade) error {
	return postJSON(ctx, w.client, w.url, webhookPayload{
		Type:      string(trade.Type),
		Amount:    trade.Amount,
		From:      trade.From.String(),
		To:        trade.To.String(),
		Signature: trade.Signature,
		Timestamp: trade.Timestamp,
		Fee:       trade.Fee,
	})
}
