package alert

import (
	"context"
	"fmt"
	"net/http"

	"solana-trade-sentry/internal/domain"
)

// TelegramChannel sends the plain summary through the Telegram bot API.
type TelegramChannel struct {
	botToken string
	chatID   string
	symbol   string
	baseURL  string
	client   *http.Client
}

// NewTelegramChannel creates a Telegram bot API channel.
func NewTelegramChannel(botToken, chatID, symbol string, client *http.Client) *TelegramChannel {
	if client == nil {
		client = &http.Client{}
	}
	return &TelegramChannel{
		botToken: botToken,
		chatID:   chatID,
		symbol:   symbol,
		baseURL:  "https://api.telegram.org",
		client:   client,
	}
}

// WithBaseURL overrides the API host. Used in tests.
func (t *TelegramChannel) WithBaseURL(url string) *TelegramChannel {
	t.baseURL = url
	return t
}

// Name implements Channel.
func (t *TelegramChannel) Name() string { return "telegram" }

// Send implements Channel.
func (t *TelegramChannel) Send(ctx context.Context, trade domain.Trade) error {
	url := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.botToken)
	return postJSON(ctx, t.client, url, map[string]string{
		"chat_id":    t.chatID,
		"text":       Summary(trade, t.symbol),
		"parse_mode": "Markdown",
	})
}
