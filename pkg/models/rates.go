// Package models defines the shared data types for zakatd: metal rate
// quotes, Nisab thresholds, and Zakat declarations/results.
package models

import "time"

// Quote source values. A quote is either the product of a successful
// live fetch or the hardcoded fallback shipped with the binary.
const (
	SourceLive     = "live"
	SourceFallback = "fallback"
)

// RateQuote is an immutable snapshot of per-gram metal prices.
// All four price fields are positive whenever a RateQuote exists;
// a failed fetch yields no quote rather than a partially filled one.
type RateQuote struct {
	Gold24KPerGram float64   `json:"gold_24k_per_gram"`
	Gold22KPerGram float64   `json:"gold_22k_per_gram"`
	Gold18KPerGram float64   `json:"gold_18k_per_gram"`
	SilverPerGram  float64   `json:"silver_per_gram"`
	Currency       string    `json:"currency"`
	FetchedAt      time.Time `json:"fetched_at"`
	Source         string    `json:"source"`             // "live" or "fallback"
	Provider       string    `json:"provider,omitempty"` // which upstream produced a live quote
}

// Valid reports whether every price field is present and positive.
// Derived purities may still be zero before normalization.
func (q RateQuote) Valid() bool {
	return q.Gold24KPerGram > 0 &&
		q.Gold22KPerGram > 0 &&
		q.Gold18KPerGram > 0 &&
		q.SilverPerGram > 0
}

// NisabThresholds holds the two canonical eligibility thresholds,
// derived from a RateQuote and the standard Hanafi weight constants.
// Recomputed on every read; never stored.
type NisabThresholds struct {
	GoldGrams   float64 `json:"gold_grams"`   // 87.48 (7.5 tola)
	SilverGrams float64 `json:"silver_grams"` // 612.36 (52.5 tola)
	GoldValue   float64 `json:"gold_value"`
	SilverValue float64 `json:"silver_value"`
	Currency    string  `json:"currency"`
}
