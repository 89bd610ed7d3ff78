package monitor

import (
	"context"

	"go.uber.org/zap"

	"solana-trade-sentry/internal/solana"
)

// WSSignatureSource turns a logs subscription on the watched mint into a
// stream of signatures for the runner. Polling remains the source of truth;
// the stream only tightens alert latency between poll ticks.
type WSSignatureSource struct {
	ws     solana.WSClient
	mint   string
	logger *zap.Logger
}

// NewWSSignatureSource creates a push signature source for mint.
func NewWSSignatureSource(ws solana.WSClient, mint string, logger *zap.Logger) *WSSignatureSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WSSignatureSource{ws: ws, mint: mint, logger: logger}
}

// Subscribe opens the logs subscription and returns the signature stream.
// The returned channel closes when the subscription ends.
func (s *WSSignatureSource) Subscribe(ctx context.Context) (<-chan string, error) {
	notifications, err := s.ws.SubscribeLogs(ctx, solana.LogsFilter{Mentions: []string{s.mint}})
	if err != nil {
		return nil, err
	}

	out := make(chan string, 64)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case n, ok := <-notifications:
				if !ok {
					s.logger.Warn("logs subscription ended")
					return
				}
				if n.Err != nil {
					continue
				}
				select {
				case out <- n.Signature:
				default:
					s.logger.Debug("signature stream full, dropping",
						zap.String("signature", n.Signature))
				}
			}
		}
	}()
	return out, nil
}
