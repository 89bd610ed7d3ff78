package domain

// PartyKind discriminates the counterparty variant of a trade.
type PartyKind int

// Party kinds.
const (
	PartyUnknown PartyKind = iota
	PartyMarket
	PartyAccount
)

// Party identifies one side of a trade: a concrete on-chain account, the
// anonymous market side of a swap, or an undeterminable counterparty.
// The zero value is Unknown.
type Party struct {
	Kind    PartyKind
	Address string // set only for PartyAccount
}

// AccountParty returns a Party for a known account address.
func AccountParty(address string) Party {
	return Party{Kind: PartyAccount, Address: address}
}

// MarketParty returns the market-side Party.
func MarketParty() Party {
	return Party{Kind: PartyMarket}
}

// UnknownParty returns the unknown Party.
func UnknownParty() Party {
	return Party{}
}

// String renders the party for keys, payloads and logs. Accounts render as
// their full address; the sentinel variants keep the legacy spellings so
// downstream consumers of the webhook payload see unchanged values.
func (p Party) String() string {
	switch p.Kind {
	case PartyAccount:
		return p.Address
	case PartyMarket:
		return "Market"
	default:
		return "Unknown"
	}
}

// Short returns the party truncated to n leading characters with an
// ellipsis, as used in alert text. Sentinel variants are never truncated.
func (p Party) Short(n int) string {
	if p.Kind != PartyAccount {
		return p.String()
	}
	if len(p.Address) <= n {
		return p.Address
	}
	return p.Address[:n] + "..."
}
