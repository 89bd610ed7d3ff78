package config

import (
	"fmt"
	"net/url"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

// Validate checks the loaded configuration for internal consistency.
func (c Config) Validate() error {
	if c.MintAddress == "" {
		return fmt.Errorf("mint address is required")
	}
	if err := validateAddress(c.MintAddress); err != nil {
		return fmt.Errorf("mint address %q: %w", c.MintAddress, err)
	}

	if err := validateHTTPURL("rpc-url", c.RPCURL, true); err != nil {
		return err
	}
	if err := validateHTTPURL("price-api-url", c.PriceAPIURL, true); err != nil {
		return err
	}
	if err := validateHTTPURL("discord-webhook-url", c.DiscordWebhookURL, false); err != nil {
		return err
	}
	if err := validateHTTPURL("webhook-url", c.WebhookURL, false); err != nil {
		return err
	}

	if c.WSURL != "" {
		u, err := url.Parse(c.WSURL)
		if err != nil {
			return fmt.Errorf("ws-url: %w", err)
		}
		if u.Scheme != "ws" && u.Scheme != "wss" {
			return fmt.Errorf("ws-url: scheme must be ws or wss, got %q", u.Scheme)
		}
	}

	if (c.TelegramBotToken == "") != (c.TelegramChatID == "") {
		return fmt.Errorf("telegram-bot-token and telegram-chat-id must be set together")
	}

	switch c.TransactionTypeFilter {
	case FilterAll, FilterBuyOnly, FilterSellOnly:
	default:
		return fmt.Errorf("type-filter: must be one of %s, %s, %s", FilterAll, FilterBuyOnly, FilterSellOnly)
	}

	if c.MinTransactionAmount < 0 {
		return fmt.Errorf("min-amount: must not be negative")
	}
	if c.MinTransactionValueUSD < 0 {
		return fmt.Errorf("min-value-usd: must not be negative")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll-interval: must be positive")
	}

	return nil
}

// validateAddress checks that s decodes to a 32-byte ed25519 point.
func validateAddress(s string) error {
	raw, err := base58.Decode(s)
	if err != nil {
		return fmt.Errorf("invalid base58: %w", err)
	}
	if len(raw) != 32 {
		return fmt.Errorf("decoded length %d, want 32", len(raw))
	}
	if _, err := new(edwards25519.Point).SetBytes(raw); err != nil {
		return fmt.Errorf("not an ed25519 point: %w", err)
	}
	return nil
}

func validateHTTPURL(name, s string, required bool) error {
	if s == "" {
		if required {
			return fmt.Errorf("%s is required", name)
		}
		return nil
	}
	u, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s: scheme must be http or https, got %q", name, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%s: missing host", name)
	}
	return nil
}
