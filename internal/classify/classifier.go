package classify

import (
	"time"

	"go.uber.org/zap"

	"solana-trade-sentry/internal/domain"
	"solana-trade-sentry/internal/solana"
)

// lamportsPerSOL converts fee lamports to SOL.
const lamportsPerSOL = 1e9

// Classifier produces zero or one Trade per transaction of the watched mint.
type Classifier struct {
	mint   string
	logger *zap.Logger
	now    func() time.Time
}

// NewClassifier creates a classifier for the watched mint.
func NewClassifier(mint string, logger *zap.Logger) *Classifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Classifier{
		mint:   mint,
		logger: logger,
		now:    time.Now,
	}
}

// WithClock overrides the fallback timestamp source. Used in tests.
func (c *Classifier) WithClock(now func() time.Time) *Classifier {
	c.now = now
	return c
}

// Classify analyzes one parsed transaction and returns its classified
// trades. The slice holds at most one entry under the current policy of a
// single representative trade per transaction. A malformed or non-qualifying
// transaction yields nil, never an error: nothing here may abort ingestion.
func (c *Classifier) Classify(tx *solana.Transaction) []domain.Trade {
	if tx == nil || tx.Meta == nil {
		return nil
	}

	deltas := ExtractTransferDeltas(tx.Meta, c.mint)
	if len(deltas) == 0 {
		return nil
	}

	if !IsDexTransaction(tx.Message) {
		c.logger.Debug("transaction is not a DEX trade, skipping",
			zap.String("signature", tx.Signature))
		return nil
	}

	// Largest delta is the representative trade size.
	largest := deltas[0]
	for _, delta := range deltas[1:] {
		if delta.Amount > largest.Amount {
			largest = delta
		}
	}

	var accounts []solana.AccountKey
	if tx.Message != nil {
		accounts = tx.Message.AccountKeys
	}
	effect, ok := resolveNetEffect(accounts, deltas)
	if !ok {
		c.logger.Debug("no signer located, skipping",
			zap.String("signature", tx.Signature))
		return nil
	}

	timestamp := c.now()
	if tx.BlockTime != nil {
		timestamp = time.Unix(*tx.BlockTime, 0)
	}

	return []domain.Trade{{
		Type:      effect.Type,
		Amount:    largest.Amount,
		From:      effect.From,
		To:        effect.To,
		Signature: tx.Signature,
		Timestamp: timestamp,
		Fee:       float64(tx.Meta.Fee) / lamportsPerSOL,
	}}
}
