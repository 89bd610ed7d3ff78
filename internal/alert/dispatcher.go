package alert

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"solana-trade-sentry/internal/domain"
	"solana-trade-sentry/internal/observability"
)

// Dispatcher fans a trade out to every configured channel. Channels send
// concurrently and are joined at the end, so one slow or failing channel
// never delays or fails the others.
type Dispatcher struct {
	channels []Channel
	dedup    *Deduplicator
	logger   *zap.Logger
}

// NewDispatcher creates a dispatcher over the given channels.
func NewDispatcher(channels []Channel, dedup *Deduplicator, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		channels: channels,
		dedup:    dedup,
		logger:   logger,
	}
}

// Dispatch gates the trade through deduplication and delivers it to every
// channel. Once fan-out completes the trade counts as alerted regardless of
// per-channel outcomes, and the dedup timestamp is refreshed.
func (d *Dispatcher) Dispatch(ctx context.Context, trade domain.Trade) {
	key := trade.DedupKey()
	if !d.dedup.ShouldSend(key) {
		d.logger.Debug("skipping alert due to cooldown period",
			zap.String("signature", trade.Signature))
		observability.RecordAlertSuppressed()
		return
	}

	var wg sync.WaitGroup
	for _, ch := range d.channels {
		wg.Add(1)
		go func(ch Channel) {
			defer wg.Done()
			if err := ch.Send(ctx, trade); err != nil {
				d.logger.Error("alert delivery failed",
					zap.String("channel", ch.Name()),
					zap.String("signature", trade.Signature),
					zap.Error(err))
				observability.RecordAlertFailed(ch.Name())
				return
			}
			observability.RecordAlertSent(ch.Name())
		}(ch)
	}
	wg.Wait()

	d.dedup.Touch(key)
	d.logger.Info("alert dispatched",
		zap.String("type", string(trade.Type)),
		zap.Float64("amount", trade.Amount),
		zap.String("signature", trade.Signature))
}
