// Package utils provides display helpers for zakatd.
package utils

import (
	"fmt"
	"math"
	"strings"
)

// FormatINR formats an amount in Indian Rupee notation (₹12,34,567.89):
// the last three integer digits, then groups of two.
func FormatINR(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	s := fmt.Sprintf("%.2f", amount)
	parts := strings.SplitN(s, ".", 2)
	return sign + "₹" + groupIndian(parts[0]) + "." + parts[1]
}

// FormatINRCompact formats an amount in compact Indian notation,
// e.g. 1927345 → "₹19.27 L", 52500000 → "₹5.25 Cr".
func FormatINRCompact(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	switch {
	case amount >= 1e7:
		return fmt.Sprintf("%s₹%.2f Cr", sign, amount/1e7)
	case amount >= 1e5:
		return fmt.Sprintf("%s₹%.2f L", sign, amount/1e5)
	case amount >= 1e3:
		return fmt.Sprintf("%s₹%.2f K", sign, amount/1e3)
	default:
		return fmt.Sprintf("%s₹%.2f", sign, amount)
	}
}

// groupIndian inserts Indian-system digit grouping into an integer
// string: "1234567" → "12,34,567".
func groupIndian(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}

	head := digits[:n-3]
	tail := digits[n-3:]

	var sb strings.Builder
	// Leading group of one or two digits, then pairs.
	lead := len(head) % 2
	if lead == 0 {
		lead = 2
	}
	sb.WriteString(head[:lead])
	for i := lead; i < len(head); i += 2 {
		sb.WriteByte(',')
		sb.WriteString(head[i : i+2])
	}
	sb.WriteByte(',')
	sb.WriteString(tail)
	return sb.String()
}

// ToLakhs converts a raw amount to lakhs.
func ToLakhs(amount float64) float64 {
	return amount / 1e5
}

// ToCrores converts a raw amount to crores.
func ToCrores(amount float64) float64 {
	return amount / 1e7
}

// Round2 rounds to two decimal places, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
