package alert

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"solana-trade-sentry/internal/domain"
	"solana-trade-sentry/internal/observability"
	"solana-trade-sentry/internal/price"
)

// Discord embed colors.
const (
	colorBuy  = 0x22c55e
	colorSell = 0xef4444
)

// Discord limiter defaults: 5 sends per 5 second window.
const (
	DiscordRateLimit  = 5
	DiscordRateWindow = 5 * time.Second
)

// discordLimitKey keys the webhook's window in the limiter.
const discordLimitKey = "discord"

// DiscordChannel is the richest channel: an embed enriched with the current
// price snapshot, the rolling history chart and a market-impact estimate.
// Sends are gated by a token window; a denial is waited out, never dropped.
type DiscordChannel struct {
	url     string
	symbol  string
	prices  *price.Service
	history *price.History
	limiter *RateLimiter
	client  *http.Client
	logger  *zap.Logger
	sleep   func(ctx context.Context, d time.Duration) error
}

// DiscordOptions contains configuration for creating a DiscordChannel.
type DiscordOptions struct {
	WebhookURL string
	Symbol     string
	Prices     *price.Service
	History    *price.History
	Limiter    *RateLimiter // Default: DiscordRateLimit per DiscordRateWindow
	Client     *http.Client
	Logger     *zap.Logger
}

// NewDiscordChannel creates the Discord webhook channel.
func NewDiscordChannel(opts DiscordOptions) *DiscordChannel {
	limiter := opts.Limiter
	if limiter == nil {
		limiter = NewRateLimiter(DiscordRateLimit, DiscordRateWindow)
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &DiscordChannel{
		url:     opts.WebhookURL,
		symbol:  opts.Symbol,
		prices:  opts.Prices,
		history: opts.History,
		limiter: limiter,
		client:  client,
		logger:  logger,
		sleep:   sleepCtx,
	}
}

// Name implements Channel.
func (d *DiscordChannel) Name() string { return "discord" }

// Send implements Channel.
func (d *DiscordChannel) Send(ctx context.Context, trade domain.Trade) error {
	for {
		decision := d.limiter.Check(discordLimitKey)
		if decision.Allowed {
			break
		}
		// The freed slot may be taken by a concurrent send, so re-check
		// after each wait instead of assuming it is ours.
		d.logger.Warn("discord rate limit exceeded, waiting",
			zap.Duration("reset_in", decision.ResetIn))
		observability.RecordRateLimitWait()
		if err := d.sleep(ctx, decision.ResetIn); err != nil {
			return err
		}
	}

	return postJSON(ctx, d.client, d.url, d.buildPayload(ctx, trade))
}

// discord wire shapes.
type discordPayload struct {
	Embeds []discordEmbed `json:"embeds"`
}

type discordEmbed struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Color       int            `json:"color"`
	Fields      []discordField `json:"fields"`
	Timestamp   string         `json:"timestamp"`
	Footer      discordFooter  `json:"footer"`
}

type discordField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

type discordFooter struct {
	Text string `json:"text"`
}

// buildPayload assembles the embed. Every enrichment degrades to "N/A" when
// the snapshot is unavailable; the alert itself always goes out.
func (d *DiscordChannel) buildPayload(ctx context.Context, trade domain.Trade) discordPayload {
	snapshot := d.prices.CurrentPrice(ctx)
	if snapshot != nil {
		d.history.Add(snapshot.PriceUSD, trade.Timestamp)
	}

	var currentPrice float64
	if snapshot != nil {
		currentPrice = snapshot.PriceUSD
	}
	trend := d.history.Trend()
	sessionChange := d.history.SessionChange(currentPrice)

	color := colorSell
	if trade.Type == domain.TradeBuy {
		color = colorBuy
	}

	currentValue := "N/A"
	tradeValue := "N/A"
	volume := "N/A"
	liquidity := "N/A"
	marketCap := "N/A"
	impact := "Unknown"
	if snapshot != nil {
		tradeValueUSD := trade.Amount * snapshot.PriceUSD
		currentValue = fmt.Sprintf("%s (%s)",
			price.FormatPrice(snapshot.PriceUSD),
			price.FormatPercentage(snapshot.PriceChange24h))
		tradeValue = fmt.Sprintf("$%.2f", tradeValueUSD)
		volume = price.FormatVolume(snapshot.Volume24h)
		liquidity = price.FormatVolume(snapshot.Liquidity)
		marketCap = price.FormatVolume(snapshot.MarketCap)
		impact = price.ImpactLabel(tradeValueUSD, snapshot.Liquidity)
	}

	fields := []discordField{
		{Name: "💰 Current Price", Value: currentValue, Inline: true},
		{Name: "💵 Transaction Value", Value: tradeValue, Inline: true},
		{Name: "📊 24h Volume", Value: volume, Inline: true},
		{Name: "📈 Price Trend", Value: price.TrendLabel(trend), Inline: true},
		{Name: "💥 Market Impact", Value: impact, Inline: true},
		{Name: "📊 Session Change", Value: price.FormatPercentage(sessionChange), Inline: true},
		{Name: "From", Value: fmt.Sprintf("`%s`", trade.From.Short(20)), Inline: true},
		{Name: "To", Value: fmt.Sprintf("`%s`", trade.To.Short(20)), Inline: true},
		{Name: "Fee", Value: fmt.Sprintf("%g SOL", trade.Fee), Inline: true},
		{Name: "🌊 Liquidity", Value: liquidity, Inline: true},
		{Name: "💎 Market Cap", Value: marketCap, Inline: true},
		{Name: "​", Value: "​", Inline: true},
		{
			Name:  "Transaction",
			Value: fmt.Sprintf("[View on Solscan](https://solscan.io/tx/%s)", trade.Signature),
		},
		{
			Name:  "📊 Price Chart",
			Value: price.ChartBlock(d.history.Points(), currentPrice, trend),
		},
	}

	footer := fmt.Sprintf("%s Alert Bot", d.symbol)
	if snapshot != nil && snapshot.DexID != "" {
		footer += " • " + snapshot.DexID
	}

	title := fmt.Sprintf("%s %s %s Alert%s",
		typeEmoji(trade.Type), d.symbol, trade.Type, sentimentSuffix(trade.Type, trend))

	return discordPayload{Embeds: []discordEmbed{{
		Title: title,
		Description: fmt.Sprintf("**%s %.2f %s**\n%s",
			typeAction(trade.Type), trade.Amount, d.symbol,
			price.TrendIndicator(trend, sessionChange)),
		Color:     color,
		Fields:    fields,
		Timestamp: trade.Timestamp.UTC().Format(time.RFC3339),
		Footer:    discordFooter{Text: footer},
	}}}
}

// sentimentSuffix marks trades that ride or fight the trend.
func sentimentSuffix(t domain.TradeType, trend domain.Trend) string {
	switch {
	case trend == domain.TrendUp && t == domain.TradeBuy:
		return " 🐂💚"
	case trend == domain.TrendDown && t == domain.TradeSell:
		return " 🐻❤️"
	case trend == domain.TrendUp && t == domain.TradeSell:
		return " ⚠️"
	case trend == domain.TrendDown && t == domain.TradeBuy:
		return " 🔥"
	default:
		return ""
	}
}

// sleepCtx sleeps for d or until ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
