package classify

import (
	"solana-trade-sentry/internal/domain"
	"solana-trade-sentry/internal/solana"
)

// netEffect is the resolved direction and counterparties of a trade.
type netEffect struct {
	Type domain.TradeType
	From domain.Party
	To   domain.Party
}

// resolveNetEffect classifies trade direction from the signer's net
// watched-token delta. A positive net means the signer bought from the
// market; negative means they sold into it. A zero net (signer not directly
// party to any delta, e.g. routed multi-hop swaps) falls back to the first
// delta's direction with Unknown for the side the delta cannot name.
// Returns false when no signer can be located.
func resolveNetEffect(accounts []solana.AccountKey, deltas []domain.TransferDelta) (netEffect, bool) {
	var signer string
	found := false
	for _, account := range accounts {
		if account.Signer {
			signer = account.Pubkey
			found = true
			break
		}
	}
	if !found {
		return netEffect{}, false
	}

	var received, sent float64
	for _, delta := range deltas {
		if delta.Owner != signer {
			continue
		}
		if delta.Received() {
			received += delta.Amount
		} else {
			sent += delta.Amount
		}
	}

	switch net := received - sent; {
	case net > 0:
		return netEffect{
			Type: domain.TradeBuy,
			From: domain.MarketParty(),
			To:   domain.AccountParty(signer),
		}, true
	case net < 0:
		return netEffect{
			Type: domain.TradeSell,
			From: domain.AccountParty(signer),
			To:   domain.MarketParty(),
		}, true
	}

	if len(deltas) == 0 {
		return netEffect{}, false
	}

	first := deltas[0]
	if first.Received() {
		return netEffect{
			Type: domain.TradeBuy,
			From: domain.UnknownParty(),
			To:   domain.AccountParty(first.Owner),
		}, true
	}
	return netEffect{
		Type: domain.TradeSell,
		From: domain.AccountParty(first.Owner),
		To:   domain.UnknownParty(),
	}, true
}
