// Package zakat implements the Nisab threshold derivation and the Zakat
// calculation itself. Both are pure functions of a rate quote and a
// declaration; all arithmetic uses decimals so intermediate sums carry
// no rounding error, and results are rounded half-up to two decimals
// exactly once at the end.
package zakat

import (
	"github.com/shopspring/decimal"

	"github.com/zakathq/zakatd/pkg/models"
)

// Standard Hanafi weight constants: 7.5 tola of gold and 52.5 tola of
// silver, at ~11.664 g per tola.
var (
	nisabGoldGrams   = decimal.RequireFromString("87.48")
	nisabSilverGrams = decimal.RequireFromString("612.36")
)

// Basis values for the Nisab threshold choice.
const (
	BasisGold   = "gold"
	BasisSilver = "silver"
)

// NormalizeBasis maps the caller's basis choice onto a known value.
// Silver is the lower, more inclusive threshold and is the documented
// recommendation, so anything unrecognized defaults to it.
func NormalizeBasis(basis string) string {
	if basis == BasisGold {
		return BasisGold
	}
	return BasisSilver
}

// Thresholds derives both Nisab values from the given quote. It holds
// no state of its own so a threshold can never go stale relative to the
// quote it was derived from.
func Thresholds(q models.RateQuote) models.NisabThresholds {
	gold, silver := thresholdDecimals(q)
	return models.NisabThresholds{
		GoldGrams:   nisabGoldGrams.InexactFloat64(),
		SilverGrams: nisabSilverGrams.InexactFloat64(),
		GoldValue:   round2(gold),
		SilverValue: round2(silver),
		Currency:    q.Currency,
	}
}

// thresholdDecimals returns the exact (unrounded) threshold values used
// both for presentation and for the eligibility comparison, so the two
// can never drift apart.
func thresholdDecimals(q models.RateQuote) (gold, silver decimal.Decimal) {
	gold = nisabGoldGrams.Mul(decimal.NewFromFloat(q.Gold24KPerGram))
	silver = nisabSilverGrams.Mul(decimal.NewFromFloat(q.SilverPerGram))
	return gold, silver
}

// round2 rounds half away from zero to two decimal places.
func round2(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
