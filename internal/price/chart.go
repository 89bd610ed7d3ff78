package price

import (
	"fmt"
	"strings"

	"solana-trade-sentry/internal/domain"
)

// sparkChars are the eight block heights of the sparkline.
var sparkChars = []rune("▁▂▃▄▅▆▇█")

// chartPoints caps how many history points the sparkline renders.
const chartPoints = 20

// ChartBlock renders the rolling history as a sparkline block for the rich
// alert channel. Returns a fenced "insufficient data" block below two
// points.
func ChartBlock(points []domain.PricePoint, current float64, trend domain.Trend) string {
	if len(points) < 2 {
		return "```\nInsufficient data for chart\n```"
	}

	if len(points) > chartPoints {
		points = points[len(points)-chartPoints:]
	}

	minPrice, maxPrice := points[0].Price, points[0].Price
	for _, p := range points {
		if p.Price < minPrice {
			minPrice = p.Price
		}
		if p.Price > maxPrice {
			maxPrice = p.Price
		}
	}
	if current > 0 {
		if current < minPrice {
			minPrice = current
		}
		if current > maxPrice {
			maxPrice = current
		}
	}
	// 2% padding keeps the extremes off the block edges.
	minPrice *= 0.98
	maxPrice *= 1.02
	priceRange := maxPrice - minPrice

	var sparkline strings.Builder
	var prevPrice float64
	for i, p := range points {
		// Direction marker every third bar.
		if i%3 == 0 && i > 0 {
			sparkline.WriteString(directionMarker(p.Price, prevPrice))
		}
		idx := 0
		if priceRange > 0 {
			idx = int((p.Price - minPrice) / priceRange * float64(len(sparkChars)-1))
		}
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		sparkline.WriteRune(sparkChars[idx])
		prevPrice = p.Price
	}

	if current > 0 && prevPrice > 0 {
		switch {
		case current > prevPrice*1.001:
			sparkline.WriteString("🟢📈")
		case current < prevPrice*0.999:
			sparkline.WriteString("🔴📉")
		default:
			sparkline.WriteString("⚪➡️")
		}
	}

	lines := []string{
		fmt.Sprintf("**Price Chart** %s", trendArrows(trend)),
		"```",
		fmt.Sprintf("High: %s", FormatPrice(maxPrice)),
		sparkline.String(),
		fmt.Sprintf("Low:  %s", FormatPrice(minPrice)),
		"```",
		"`🟢 Up` `🔴 Down` `⚪ Flat`",
		fmt.Sprintf("`%s → %s`",
			points[0].Timestamp.Format("15:04"),
			points[len(points)-1].Timestamp.Format("15:04")),
	}
	return strings.Join(lines, "\n")
}

func directionMarker(price, prev float64) string {
	switch {
	case price > prev*1.001:
		return "🟢"
	case price < prev*0.999:
		return "🔴"
	default:
		return "⚪"
	}
}

func trendArrows(trend domain.Trend) string {
	switch trend {
	case domain.TrendUp:
		return "📈🟢"
	case domain.TrendDown:
		return "📉🔴"
	default:
		return "➡️⚪"
	}
}

// TrendLabel is the qualitative trend text shown in the alert fields.
func TrendLabel(trend domain.Trend) string {
	switch trend {
	case domain.TrendUp:
		return "🐂📈 Bullish Uptrend"
	case domain.TrendDown:
		return "🐻📉 Bearish Downtrend"
	default:
		return "🦀➡️ Crabbing (Neutral)"
	}
}

// TrendIndicator grades trend strength by the session change magnitude.
func TrendIndicator(trend domain.Trend, sessionChange float64) string {
	change := sessionChange
	if change < 0 {
		change = -change
	}

	switch trend {
	case domain.TrendUp:
		switch {
		case change > 20:
			return "🐂🟢🟢🟢 STRONG BULL RUN"
		case change > 10:
			return "🐂🟢🟢 Bullish"
		default:
			return "🐂🟢 Slightly Bullish"
		}
	case domain.TrendDown:
		switch {
		case change > 20:
			return "🐻🔴🔴🔴 HEAVY BEAR MARKET"
		case change > 10:
			return "🐻🔴🔴 Bearish"
		default:
			return "🐻🔴 Slightly Bearish"
		}
	default:
		return "🦀➡️ Sideways Movement"
	}
}

// ImpactLabel buckets the trade's USD value as a fraction of available
// liquidity into the five qualitative bands.
func ImpactLabel(tradeValueUSD, liquidity float64) string {
	if liquidity == 0 {
		return "Unknown"
	}

	impactPct := tradeValueUSD / liquidity * 100
	switch {
	case impactPct < 0.1:
		return "🟢 Minimal"
	case impactPct < 0.5:
		return "🟡 Low"
	case impactPct < 1:
		return "🟠 Medium"
	case impactPct < 5:
		return "🔴 High"
	default:
		return "💥 Very High"
	}
}
