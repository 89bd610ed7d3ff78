package alert

import (
	"context"
	"fmt"
	"os/exec"

	"solana-trade-sentry/internal/domain"
)

// DesktopChannel raises a desktop notification via notify-send.
// Fire-and-forget: a missing binary or a failed spawn is not a delivery
// error worth surfacing.
type DesktopChannel struct {
	symbol string
}

// NewDesktopChannel creates a desktop notification channel.
func NewDesktopChannel(symbol string) *DesktopChannel {
	return &DesktopChannel{symbol: symbol}
}

// Name implements Channel.
func (d *DesktopChannel) Name() string { return "desktop" }

// Send implements Channel.
func (d *DesktopChannel) Send(ctx context.Context, trade domain.Trade) error {
	title := fmt.Sprintf("%s %s Alert", d.symbol, trade.Type)
	cmd := exec.CommandContext(ctx, "notify-send", title, Summary(trade, d.symbol))
	if err := cmd.Start(); err != nil {
		// No notify-send on this host; desktop alerts silently degrade.
		return nil
	}
	go cmd.Wait()
	return nil
}
