// Package main runs the trade sentry: it watches a Solana token mint for DEX
// trades and fans alerts out to the configured channels.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"solana-trade-sentry/internal/alert"
	"solana-trade-sentry/internal/classify"
	"solana-trade-sentry/internal/config"
	"solana-trade-sentry/internal/monitor"
	"solana-trade-sentry/internal/observability"
	"solana-trade-sentry/internal/price"
	"solana-trade-sentry/internal/solana"
)

var cfgFile string

func main() {
	rootCmd := &cobra.Command{
		Use:   "sentry",
		Short: "Watch a Solana token mint for DEX trades and send alerts",
		RunE:  run,
	}

	flags := rootCmd.Flags()
	flags.StringVar(&cfgFile, "config", "", "config file path")
	flags.String("rpc-url", "https://api.mainnet-beta.solana.com", "Solana JSON-RPC endpoint")
	flags.String("ws-url", "", "Solana WebSocket endpoint (optional, lowers alert latency)")
	flags.String("mint", "", "token mint address to watch")
	flags.String("token-symbol", "NYLA", "token symbol used in alert text")
	flags.Float64("min-amount", 100, "minimum token amount per trade")
	flags.Float64("min-value-usd", 0, "minimum trade value in USD (0 disables)")
	flags.String("type-filter", config.FilterAll, "trade types to alert on: ALL, BUY_ONLY, SELL_ONLY")
	flags.Duration("poll-interval", 15*time.Second, "signature poll interval")
	flags.String("price-api-url", "https://api.dexscreener.com/latest/dex/tokens", "price API base URL")
	flags.String("discord-webhook-url", "", "Discord webhook URL")
	flags.String("webhook-url", "", "generic webhook URL")
	flags.String("telegram-bot-token", "", "Telegram bot token")
	flags.String("telegram-chat-id", "", "Telegram chat ID")
	flags.Bool("desktop-notifications", true, "send desktop notifications via notify-send")
	flags.String("metrics-addr", "", "Prometheus /metrics listen address (empty disables)")
	flags.String("log-level", "info", "log level: debug, info, warn, error")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	logger.Info("trade sentry starting",
		zap.String("mint", cfg.MintAddress),
		zap.String("symbol", cfg.TokenSymbol),
		zap.String("rpc", cfg.RPCURL))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rpc := solana.NewHTTPClient(cfg.RPCURL)

	prices := price.NewService(price.ServiceOptions{
		BaseURL: cfg.PriceAPIURL,
		Mint:    cfg.MintAddress,
		Logger:  logger.Named("price"),
	})
	history := price.NewHistory(price.HistoryOptions{
		Logger: logger.Named("history"),
	})

	if snapshot := prices.CurrentPrice(ctx); snapshot != nil {
		logger.Info("startup price snapshot",
			zap.Float64("price_usd", snapshot.PriceUSD),
			zap.Float64("liquidity_usd", snapshot.Liquidity),
			zap.String("dex", snapshot.DexID))
	}

	channels := buildChannels(cfg, prices, history, logger)
	if len(channels) == 0 {
		logger.Warn("no alert channels configured, trades will only be logged")
	}
	for _, ch := range channels {
		logger.Info("alert channel enabled", zap.String("channel", ch.Name()))
	}

	dispatcher := alert.NewDispatcher(channels, alert.NewDeduplicator(alert.DefaultCooldown), logger.Named("alert"))
	classifier := classify.NewClassifier(cfg.MintAddress, logger.Named("classify"))

	var signatures <-chan string
	if cfg.WSURL != "" {
		ws, err := solana.NewWSClient(ctx, cfg.WSURL, nil)
		if err != nil {
			logger.Warn("websocket connect failed, polling only", zap.Error(err))
		} else {
			defer ws.Close()
			source := monitor.NewWSSignatureSource(ws, cfg.MintAddress, logger.Named("ws"))
			signatures, err = source.Subscribe(ctx)
			if err != nil {
				logger.Warn("logs subscription failed, polling only", zap.Error(err))
				signatures = nil
			}
		}
	}

	if cfg.MetricsAddr != "" {
		go serveMetrics(ctx, cfg.MetricsAddr, logger)
	}

	runner := monitor.NewRunner(monitor.RunnerOptions{
		RPC:          rpc,
		Classifier:   classifier,
		Dispatcher:   dispatcher,
		Prices:       prices,
		History:      history,
		Signatures:   signatures,
		Mint:         cfg.MintAddress,
		PollInterval: cfg.PollInterval,
		TypeFilter:   cfg.TransactionTypeFilter,
		MinAmount:    cfg.MinTransactionAmount,
		MinValueUSD:  cfg.MinTransactionValueUSD,
		Logger:       logger.Named("monitor"),
	})

	if err := runner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("trade sentry stopped")
	return nil
}

// buildChannels assembles the alert channel list from configuration. A
// channel is enabled iff its destination is configured.
func buildChannels(cfg config.Config, prices *price.Service, history *price.History, logger *zap.Logger) []alert.Channel {
	var channels []alert.Channel

	if cfg.DiscordWebhookURL != "" {
		channels = append(channels, alert.NewDiscordChannel(alert.DiscordOptions{
			WebhookURL: cfg.DiscordWebhookURL,
			Symbol:     cfg.TokenSymbol,
			Prices:     prices,
			History:    history,
			Logger:     logger.Named("discord"),
		}))
	}
	if cfg.WebhookURL != "" {
		channels = append(channels, alert.NewWebhookChannel(cfg.WebhookURL, nil))
	}
	if cfg.TelegramBotToken != "" {
		channels = append(channels, alert.NewTelegramChannel(cfg.TelegramBotToken, cfg.TelegramChatID, cfg.TokenSymbol, nil))
	}
	if cfg.DesktopNotifications {
		channels = append(channels, alert.NewDesktopChannel(cfg.TokenSymbol))
	}

	return channels
}

func serveMetrics(ctx context.Context, addr string, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", observability.Handler())
	server := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	logger.Info("metrics listening", zap.String("addr", addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Warn("metrics server failed", zap.Error(err))
	}
}

func newLogger(level string) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("log-level: %w", err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}
