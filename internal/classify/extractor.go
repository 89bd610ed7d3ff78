// Package classify turns raw parsed transactions into classified trades of
// the watched token.
package classify

import (
	"strconv"

	"solana-trade-sentry/internal/domain"
	"solana-trade-sentry/internal/solana"
)

// ExtractTransferDeltas diffs pre/post token balances into per-account
// deltas of the watched mint. An account with no pre-balance entry is
// treated as starting from zero. Accounts whose balance did not change are
// skipped. Pure function of its inputs.
func ExtractTransferDeltas(meta *solana.TransactionMeta, mint string) []domain.TransferDelta {
	if meta == nil || len(meta.PostTokenBalances) == 0 {
		return nil
	}

	preByIndex := make(map[int]solana.TokenBalance, len(meta.PreTokenBalances))
	for _, pre := range meta.PreTokenBalances {
		preByIndex[pre.AccountIndex] = pre
	}

	var deltas []domain.TransferDelta
	for _, post := range meta.PostTokenBalances {
		if post.Mint != mint {
			continue
		}

		var preAmount float64
		if pre, ok := preByIndex[post.AccountIndex]; ok {
			preAmount = parseUIAmount(pre.UIAmount)
		}
		postAmount := parseUIAmount(post.UIAmount)

		difference := postAmount - preAmount
		if difference == 0 {
			continue
		}

		direction := domain.TransferReceived
		amount := difference
		if difference < 0 {
			direction = domain.TransferSent
			amount = -difference
		}

		deltas = append(deltas, domain.TransferDelta{
			Owner:     post.Owner,
			Amount:    amount,
			Direction: direction,
		})
	}

	return deltas
}

// parseUIAmount parses a uiAmountString; malformed or empty text counts as
// zero balance rather than poisoning the diff.
func parseUIAmount(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
