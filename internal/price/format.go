package price

import "fmt"

// FormatPrice renders a USD price with precision scaled to its magnitude,
// so sub-cent meme-token prices stay readable.
func FormatPrice(price float64) string {
	switch {
	case price == 0:
		return "N/A"
	case price < 0.00001:
		return fmt.Sprintf("$%.2e", price)
	case price < 0.01:
		return fmt.Sprintf("$%.6f", price)
	case price < 1:
		return fmt.Sprintf("$%.4f", price)
	default:
		return fmt.Sprintf("$%.2f", price)
	}
}

// FormatPercentage renders a percent change with an explicit sign.
func FormatPercentage(pct float64) string {
	if pct == 0 {
		return "0%"
	}
	sign := ""
	if pct >= 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.2f%%", sign, pct)
}

// FormatVolume renders a USD amount in K/M tiers.
func FormatVolume(volume float64) string {
	switch {
	case volume == 0:
		return "$0"
	case volume >= 1_000_000:
		return fmt.Sprintf("$%.2fM", volume/1_000_000)
	case volume >= 1_000:
		return fmt.Sprintf("$%.2fK", volume/1_000)
	default:
		return fmt.Sprintf("$%.2f", volume)
	}
}
