package engine

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ============================================================================
// FORMATTING — whole-dollar USD and one-decimal percentages
// ============================================================================

var usPrinter = message.NewPrinter(language.AmericanEnglish)

// FormatUSD renders v as whole US dollars with thousands separators:
// 1234.5 → "$1,235", -980 → "-$980".
func FormatUSD(v float64) string {
	n := int64(math.Floor(math.Abs(v) + 0.5))
	s := "$" + usPrinter.Sprintf("%d", n)
	if v < 0 && n != 0 {
		return "-" + s
	}
	return s
}

// FormatSignedUSD is FormatUSD with an explicit "+" for non-negative values.
func FormatSignedUSD(v float64) string {
	if v >= 0 {
		return "+" + FormatUSD(v)
	}
	return FormatUSD(v)
}

// FormatPct renders a fractional ratio as a percentage, or "n/a" when nil.
func FormatPct(ratio *float64) string {
	if ratio == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", *ratio*100)
}

// FormatInt formats an integer with US thousands separators.
func FormatInt(n int) string {
	return usPrinter.Sprintf("%d", n)
}

// FormatCost renders a cost at cent precision for tables: "1,234.50".
func FormatCost(v float64) string {
	return usPrinter.Sprintf("%.2f", v)
}
