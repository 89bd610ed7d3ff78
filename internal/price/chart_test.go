package price

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"solana-trade-sentry/internal/domain"
)

func TestChartBlock_InsufficientData(t *testing.T) {
	block := ChartBlock(nil, 1.0, domain.TrendNeutral)
	assert.Contains(t, block, "Insufficient data")

	one := []domain.PricePoint{{Price: 1, Timestamp: time.Unix(1700000000, 0)}}
	assert.Contains(t, ChartBlock(one, 1.0, domain.TrendNeutral), "Insufficient data")
}

func TestChartBlock_RendersSparklineAndBounds(t *testing.T) {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	points := []domain.PricePoint{
		{Price: 1.0, Timestamp: base},
		{Price: 1.5, Timestamp: base.Add(time.Minute)},
		{Price: 2.0, Timestamp: base.Add(2 * time.Minute)},
	}

	block := ChartBlock(points, 2.0, domain.TrendUp)

	assert.Contains(t, block, "High:")
	assert.Contains(t, block, "Low:")
	assert.Contains(t, block, "📈🟢")
	assert.Contains(t, block, "12:00 → 12:02")
	// Lowest and highest points map to the extreme spark characters.
	assert.Contains(t, block, "▁")
	assert.True(t, strings.ContainsAny(block, "▇█"))
}

func TestTrendLabel(t *testing.T) {
	assert.Contains(t, TrendLabel(domain.TrendUp), "Bullish")
	assert.Contains(t, TrendLabel(domain.TrendDown), "Bearish")
	assert.Contains(t, TrendLabel(domain.TrendNeutral), "Neutral")
}

func TestTrendIndicator_Bands(t *testing.T) {
	assert.Contains(t, TrendIndicator(domain.TrendUp, 25), "STRONG BULL RUN")
	assert.Contains(t, TrendIndicator(domain.TrendUp, 15), "Bullish")
	assert.Contains(t, TrendIndicator(domain.TrendUp, 5), "Slightly Bullish")
	assert.Contains(t, TrendIndicator(domain.TrendDown, -25), "HEAVY BEAR MARKET")
	assert.Contains(t, TrendIndicator(domain.TrendNeutral, 50), "Sideways")
}

func TestImpactLabel_Bands(t *testing.T) {
	liquidity := 100000.0

	assert.Contains(t, ImpactLabel(50, liquidity), "Minimal")     // 0.05%
	assert.Contains(t, ImpactLabel(200, liquidity), "Low")        // 0.2%
	assert.Contains(t, ImpactLabel(700, liquidity), "Medium")     // 0.7%
	assert.Contains(t, ImpactLabel(2000, liquidity), "High")      // 2%
	assert.Contains(t, ImpactLabel(10000, liquidity), "Very High") // 10%
	assert.Equal(t, "Unknown", ImpactLabel(100, 0))
}

func TestFormatPrice_MagnitudeTiers(t *testing.T) {
	assert.Equal(t, "N/A", FormatPrice(0))
	assert.Equal(t, "$1.20e-06", FormatPrice(0.0000012))
	assert.Equal(t, "$0.004215", FormatPrice(0.004215))
	assert.Equal(t, "$0.4210", FormatPrice(0.421))
	assert.Equal(t, "$12.35", FormatPrice(12.345))
}

func TestFormatPercentage(t *testing.T) {
	assert.Equal(t, "0%", FormatPercentage(0))
	assert.Equal(t, "+5.25%", FormatPercentage(5.25))
	assert.Equal(t, "-3.10%", FormatPercentage(-3.1))
}

func TestFormatVolume_Tiers(t *testing.T) {
	assert.Equal(t, "$0", FormatVolume(0))
	assert.Equal(t, "$125.00", FormatVolume(125))
	assert.Equal(t, "$12.50K", FormatVolume(12500))
	assert.Equal(t, "$3.40M", FormatVolume(3400000))
}
