// Package monitor drives the watch loop: it discovers new signatures for the
// watched mint, fetches and classifies each transaction, applies the
// configured trade filters, and hands qualifying trades to the dispatcher.
package monitor

import (
	"context"
	"time"

	"go.uber.org/zap"

	"solana-trade-sentry/internal/alert"
	"solana-trade-sentry/internal/classify"
	"solana-trade-sentry/internal/config"
	"solana-trade-sentry/internal/domain"
	"solana-trade-sentry/internal/observability"
	"solana-trade-sentry/internal/price"
	"solana-trade-sentry/internal/solana"
)

const (
	// DefaultPollInterval between signature polls.
	DefaultPollInterval = 15 * time.Second

	// DefaultSignatureLimit per getSignaturesForAddress call.
	DefaultSignatureLimit = 10

	// DefaultProcessedTTL bounds the processed-signature set.
	DefaultProcessedTTL = 5 * time.Minute

	// interTxDelay spaces consecutive transaction fetches to stay under
	// public RPC rate limits.
	interTxDelay = 200 * time.Millisecond

	// preClassifyDelay gives the node time to finalize metadata before the
	// transaction is inspected.
	preClassifyDelay = 500 * time.Millisecond

	// priceRefreshInterval drives the background history sampler.
	priceRefreshInterval = 60 * time.Second
)

// Runner polls for new transactions on the watched mint and pushes
// classified trades through the alert pipeline.
type Runner struct {
	rpc        solana.RPCClient
	classifier *classify.Classifier
	dispatcher *alert.Dispatcher
	prices     *price.Service
	history    *price.History
	signatures <-chan string

	mint          string
	pollInterval  time.Duration
	sigLimit      int
	processedTTL  time.Duration
	typeFilter    string
	minAmount     float64
	minValueUSD   float64
	logger        *zap.Logger
	now           func() time.Time
	sleep         func(ctx context.Context, d time.Duration) error
	lastSignature string

	// processed tracks recently handled signatures; entries older than
	// processedTTL are evicted on every access.
	processed map[string]time.Time
}

// RunnerOptions contains configuration for creating a Runner.
type RunnerOptions struct {
	RPC        solana.RPCClient
	Classifier *classify.Classifier
	Dispatcher *alert.Dispatcher
	Prices     *price.Service  // optional; enables the value filter and history sampling
	History    *price.History  // optional; sampled every priceRefreshInterval
	Signatures <-chan string   // optional push source; merged with polling

	Mint           string
	PollInterval   time.Duration // default DefaultPollInterval
	SignatureLimit int           // default DefaultSignatureLimit
	ProcessedTTL   time.Duration // default DefaultProcessedTTL
	TypeFilter     string        // default config.FilterAll
	MinAmount      float64
	MinValueUSD    float64
	Logger         *zap.Logger
	Now            func() time.Time
}

// NewRunner creates a monitor runner.
func NewRunner(opts RunnerOptions) *Runner {
	pollInterval := opts.PollInterval
	if pollInterval == 0 {
		pollInterval = DefaultPollInterval
	}

	sigLimit := opts.SignatureLimit
	if sigLimit == 0 {
		sigLimit = DefaultSignatureLimit
	}

	processedTTL := opts.ProcessedTTL
	if processedTTL == 0 {
		processedTTL = DefaultProcessedTTL
	}

	typeFilter := opts.TypeFilter
	if typeFilter == "" {
		typeFilter = config.FilterAll
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Runner{
		rpc:          opts.RPC,
		classifier:   opts.Classifier,
		dispatcher:   opts.Dispatcher,
		prices:       opts.Prices,
		history:      opts.History,
		signatures:   opts.Signatures,
		mint:         opts.Mint,
		pollInterval: pollInterval,
		sigLimit:     sigLimit,
		processedTTL: processedTTL,
		typeFilter:   typeFilter,
		minAmount:    opts.MinAmount,
		minValueUSD:  opts.MinValueUSD,
		logger:       logger,
		now:          now,
		sleep:        sleepCtx,
		processed:    make(map[string]time.Time),
	}
}

// Run starts the watch loop. It blocks until ctx is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.Info("monitor started",
		zap.String("mint", r.mint),
		zap.Duration("poll_interval", r.pollInterval),
		zap.String("type_filter", r.typeFilter))

	// Initial poll so a fresh start does not wait a full interval.
	r.pollOnce(ctx)

	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	priceTicker := time.NewTicker(priceRefreshInterval)
	defer priceTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("monitor stopping")
			return ctx.Err()

		case <-ticker.C:
			r.pollOnce(ctx)

		case <-priceTicker.C:
			r.samplePrice(ctx)

		case sig, ok := <-r.signatures:
			if !ok {
				r.signatures = nil
				r.logger.Warn("signature stream closed, polling only")
				continue
			}
			observability.RecordSignatureSeen()
			r.handleSignature(ctx, sig)
		}
	}
}

// pollOnce fetches the newest signatures and processes the unseen ones
// oldest first so alerts retain chain order.
func (r *Runner) pollOnce(ctx context.Context) {
	infos, err := r.rpc.GetSignaturesForAddress(ctx, r.mint, &solana.SignaturesOpts{
		Limit: r.sigLimit,
		Until: r.lastSignature,
	})
	if err != nil {
		r.logger.Warn("signature poll failed", zap.Error(err))
		return
	}
	if len(infos) == 0 {
		return
	}

	// Newest first from the node; remember the head as the next cursor.
	r.lastSignature = infos[0].Signature

	for i := len(infos) - 1; i >= 0; i-- {
		info := infos[i]
		observability.RecordSignatureSeen()
		if info.Err != nil {
			r.logger.Debug("skipping failed transaction", zap.String("signature", info.Signature))
			continue
		}
		r.handleSignature(ctx, info.Signature)
		if i > 0 {
			if err := r.sleep(ctx, interTxDelay); err != nil {
				return
			}
		}
	}
}

// handleSignature fetches, classifies, filters and dispatches one transaction.
func (r *Runner) handleSignature(ctx context.Context, signature string) {
	if !r.markProcessed(signature) {
		return
	}

	if err := r.sleep(ctx, preClassifyDelay); err != nil {
		return
	}

	tx, err := r.rpc.GetTransaction(ctx, signature)
	if err != nil {
		observability.RecordTransactionError()
		r.logger.Warn("transaction fetch failed",
			zap.String("signature", signature), zap.Error(err))
		return
	}
	if tx == nil {
		r.logger.Debug("transaction not found", zap.String("signature", signature))
		return
	}
	observability.RecordTransactionFetched()

	for _, trade := range r.classifier.Classify(tx) {
		observability.RecordTradeClassified(string(trade.Type))
		if !r.passesFilters(ctx, trade) {
			continue
		}
		r.dispatcher.Dispatch(ctx, trade)
	}
}

// markProcessed records the signature, returning false when it was already
// seen within the TTL window. Expired entries are evicted on every call.
func (r *Runner) markProcessed(signature string) bool {
	now := r.now()
	cutoff := now.Add(-r.processedTTL)
	for sig, seen := range r.processed {
		if seen.Before(cutoff) {
			delete(r.processed, sig)
		}
	}
	if _, seen := r.processed[signature]; seen {
		return false
	}
	r.processed[signature] = now
	return true
}

// passesFilters applies the configured type, amount and USD value filters.
func (r *Runner) passesFilters(ctx context.Context, trade domain.Trade) bool {
	switch r.typeFilter {
	case config.FilterBuyOnly:
		if trade.Type != domain.TradeBuy {
			observability.RecordTradeFiltered("type")
			return false
		}
	case config.FilterSellOnly:
		if trade.Type != domain.TradeSell {
			observability.RecordTradeFiltered("type")
			return false
		}
	}

	if trade.Amount < r.minAmount {
		observability.RecordTradeFiltered("min_amount")
		r.logger.Debug("trade below amount threshold",
			zap.Float64("amount", trade.Amount),
			zap.Float64("threshold", r.minAmount))
		return false
	}

	if r.minValueUSD > 0 && r.prices != nil {
		snapshot := r.prices.CurrentPrice(ctx)
		// When no price is available the trade passes; the value filter
		// never silences alerts just because the price API is down.
		if snapshot != nil {
			value := trade.Amount * snapshot.PriceUSD
			if value < r.minValueUSD {
				observability.RecordTradeFiltered("min_value")
				r.logger.Debug("trade below value threshold",
					zap.Float64("value_usd", value),
					zap.Float64("threshold", r.minValueUSD))
				return false
			}
		}
	}

	return true
}

// samplePrice appends the current price to the history ring so trend and
// session change stay meaningful between alerts.
func (r *Runner) samplePrice(ctx context.Context) {
	if r.prices == nil || r.history == nil {
		return
	}
	snapshot := r.prices.CurrentPrice(ctx)
	if snapshot == nil {
		return
	}
	r.history.Add(snapshot.PriceUSD, r.now())
}

// sleepCtx sleeps for d or until ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
