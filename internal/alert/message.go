package alert

import (
	"fmt"

	"solana-trade-sentry/internal/domain"
)

// Summary renders the plain-text alert body shared by the desktop and
// bot-API channels.
func Summary(trade domain.Trade, symbol string) string {
	return fmt.Sprintf("%s %s %.2f %s\nFrom: %s\nTo: %s\nTime: %s\nTX: %s",
		typeEmoji(trade.Type),
		typeAction(trade.Type),
		trade.Amount,
		symbol,
		trade.From.Short(8),
		trade.To.Short(8),
		trade.Timestamp.Format("2006-01-02 15:04:05"),
		truncate(trade.Signature, 16),
	)
}

func typeEmoji(t domain.TradeType) string {
	if t == domain.TradeBuy {
		return "🟢"
	}
	return "🔴"
}

func typeAction(t domain.TradeType) string {
	if t == domain.TradeBuy {
		return "BOUGHT"
	}
	return "SOLD"
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
