// Package utils provides formatting and time helpers shared by the widget
// renderers, the loaders and the CLI.
package utils

import (
	"fmt"
	"math"
	"strings"
)

// FormatCompact formats a number with a K/M/B suffix for card labels.
// e.g., 1500 → "1.5K", 2340000 → "2.34M"
func FormatCompact(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "–"
	}
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}

	switch {
	case v >= 1e9:
		return sign + formatWithDecimals(v/1e9) + "B"
	case v >= 1e6:
		return sign + formatWithDecimals(v/1e6) + "M"
	case v >= 1e3:
		return sign + formatWithDecimals(v/1e3) + "K"
	default:
		return sign + formatWithDecimals(v)
	}
}

// FormatPct formats a percentage change with sign and suffix.
// e.g., 2.45 → "+2.45%", -1.23 → "-1.23%"
func FormatPct(pct float64) string {
	if pct >= 0 {
		return fmt.Sprintf("+%.2f%%", pct)
	}
	return fmt.Sprintf("%.2f%%", pct)
}

// FormatWithUnit appends a unit to a compact number, placing "%" and "$"
// the way card labels expect.
func FormatWithUnit(v float64, unit string) string {
	switch unit {
	case "":
		return FormatCompact(v)
	case "%":
		return formatWithDecimals(v) + "%"
	case "$":
		if v < 0 {
			return "-$" + FormatCompact(-v)
		}
		return "$" + FormatCompact(v)
	default:
		return FormatCompact(v) + " " + unit
	}
}

// FormatThousands formats an integer with comma grouping.
// e.g., 1234567 → "1,234,567"
func FormatThousands(n int64) string {
	negative := n < 0
	if negative {
		n = -n
	}
	s := fmt.Sprintf("%d", n)

	var groups []string
	for len(s) > 3 {
		groups = append([]string{s[len(s)-3:]}, groups...)
		s = s[:len(s)-3]
	}
	groups = append([]string{s}, groups...)

	out := strings.Join(groups, ",")
	if negative {
		return "-" + out
	}
	return out
}

// formatWithDecimals formats a number with up to 2 decimal places,
// removing trailing zeros.
func formatWithDecimals(n float64) string {
	s := fmt.Sprintf("%.2f", n)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}
