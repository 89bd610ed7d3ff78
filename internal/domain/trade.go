package domain

import "time"

// TradeType is the resolved direction of a classified trade.
type TradeType string

// Trade types.
const (
	TradeBuy  TradeType = "BUY"
	TradeSell TradeType = "SELL"
)

// Trade is a classified DEX trade of the watched token. It is produced once
// per qualifying transaction and consumed immediately by dispatch; nothing
// retains it afterwards.
type Trade struct {
	Type      TradeType
	Amount    float64 // watched-token amount of the representative transfer
	From      Party
	To        Party
	Signature string
	Timestamp time.Time
	Fee       float64 // transaction fee in SOL
}

// DedupKey derives the cooldown key for this trade. The key is the ordered
// counterparty pair only: amount and signature are deliberately ignored, so
// repeated same-direction trades between one pair inside the cooldown window
// collapse into a single alert.
func (t Trade) DedupKey() string {
	return t.From.String() + "-" + t.To.String()
}

// TransferDirection tags which way a balance delta moved.
type TransferDirection int

// Transfer directions.
const (
	TransferSent TransferDirection = iota
	TransferReceived
)

// TransferDelta is the per-account watched-token balance change within one
// transaction. Amount is always non-negative; Direction carries the sign.
type TransferDelta struct {
	Owner     string
	Amount    float64
	Direction TransferDirection
}

// Received reports whether the delta is an inflow to Owner.
func (d TransferDelta) Received() bool {
	return d.Direction == TransferReceived
}
