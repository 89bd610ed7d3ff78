// Package config loads and validates sentry configuration from flags,
// environment and an optional config file.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds configuration values loaded from flags, env, or config file.
type Config struct {
	// Chain access
	RPCURL string
	WSURL  string // optional; enables push-based signature discovery

	// Watched token
	MintAddress string
	TokenSymbol string

	// Trade filters
	MinTransactionAmount   float64
	MinTransactionValueUSD float64
	TransactionTypeFilter  string // ALL, BUY_ONLY, SELL_ONLY

	// Polling
	PollInterval time.Duration

	// Price API
	PriceAPIURL string

	// Alert destinations; each channel is enabled iff configured
	DiscordWebhookURL    string
	WebhookURL           string
	TelegramBotToken     string
	TelegramChatID       string
	DesktopNotifications bool

	// Operations
	MetricsAddr string // optional /metrics listen address
	LogLevel    string
}

// Transaction type filter values.
const (
	FilterAll      = "ALL"
	FilterBuyOnly  = "BUY_ONLY"
	FilterSellOnly = "SELL_ONLY"
)

// Load merges config file, environment variables (SENTRY_*), and flags.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SENTRY")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("rpc-url", "https://api.mainnet-beta.solana.com")
	v.SetDefault("token-symbol", "NYLA")
	v.SetDefault("min-amount", 100.0)
	v.SetDefault("min-value-usd", 0.0)
	v.SetDefault("type-filter", FilterAll)
	v.SetDefault("poll-interval", 15*time.Second)
	v.SetDefault("price-api-url", "https://api.dexscreener.com/latest/dex/tokens")
	v.SetDefault("desktop-notifications", true)
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := Config{
		RPCURL:                 v.GetString("rpc-url"),
		WSURL:                  v.GetString("ws-url"),
		MintAddress:            v.GetString("mint"),
		TokenSymbol:            v.GetString("token-symbol"),
		MinTransactionAmount:   v.GetFloat64("min-amount"),
		MinTransactionValueUSD: v.GetFloat64("min-value-usd"),
		TransactionTypeFilter:  v.GetString("type-filter"),
		PollInterval:           v.GetDuration("poll-interval"),
		PriceAPIURL:            v.GetString("price-api-url"),
		DiscordWebhookURL:      v.GetString("discord-webhook-url"),
		WebhookURL:             v.GetString("webhook-url"),
		TelegramBotToken:       v.GetString("telegram-bot-token"),
		TelegramChatID:         v.GetString("telegram-chat-id"),
		DesktopNotifications:   v.GetBool("desktop-notifications"),
		MetricsAddr:            v.GetString("metrics-addr"),
		LogLevel:               v.GetString("log-level"),
	}

	return cfg, nil
}
