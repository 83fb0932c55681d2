package rates

import (
	"math"

	"github.com/zakathq/zakatd/pkg/models"
)

// GramsPerTroyOunce converts provider spot prices, which are quoted per
// troy ounce, into per-gram prices.
const GramsPerTroyOunce = 31.1034768

// Purity ratios relative to 24K gold.
const (
	purity22K = 22.0 / 24.0
	purity18K = 18.0 / 24.0
)

// PerGram converts a per-troy-ounce price to a per-gram price.
func PerGram(perOunce float64) float64 {
	return perOunce / GramsPerTroyOunce
}

// Normalize fills in derived gold purities when a source supplied only
// the 24K price, and rounds every per-gram rate to two decimals. Both
// the current-rates read path and the Nisab derivation consume
// normalized quotes, so the purity arithmetic lives here and nowhere
// else.
func Normalize(q models.RateQuote) models.RateQuote {
	if q.Gold22KPerGram == 0 {
		q.Gold22KPerGram = q.Gold24KPerGram * purity22K
	}
	if q.Gold18KPerGram == 0 {
		q.Gold18KPerGram = q.Gold24KPerGram * purity18K
	}
	q.Gold24KPerGram = roundRate(q.Gold24KPerGram)
	q.Gold22KPerGram = roundRate(q.Gold22KPerGram)
	q.Gold18KPerGram = roundRate(q.Gold18KPerGram)
	q.SilverPerGram = roundRate(q.SilverPerGram)
	return q
}

func roundRate(v float64) float64 {
	return math.Round(v*100) / 100
}
