package domain

import "time"

// PricePoint is one sample of the rolling price history.
type PricePoint struct {
	Price     float64
	Timestamp time.Time
}

// PriceSnapshot is the most recent market view of the watched token as
// reported by the price API. All monetary values are USD.
type PriceSnapshot struct {
	PriceUSD       float64
	PriceChange24h float64 // percent
	Volume24h      float64
	Liquidity      float64
	MarketCap      float64
	FDV            float64
	PairAddress    string
	DexID          string
}

// Trend is the coarse direction of recent price history.
type Trend string

// Trend values.
const (
	TrendUp      Trend = "uptrend"
	TrendDown    Trend = "downtrend"
	TrendNeutral Trend = "neutral"
)
