package models

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Amount is a non-negative monetary or weight quantity declared by the
// user. The calculation flow is permissive: malformed, non-numeric, or
// negative inputs decode to zero instead of failing the request.
type Amount float64

// UnmarshalJSON coerces bad inputs to zero. Numbers and numeric strings
// are accepted; everything else (null, booleans, objects) becomes 0.
func (a *Amount) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		var s string
		if err := json.Unmarshal(data, &s); err == nil {
			if v, perr := strconv.ParseFloat(strings.TrimSpace(s), 64); perr == nil {
				f = v
			}
		}
	}
	if f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		f = 0
	}
	*a = Amount(f)
	return nil
}

// Decimal converts the amount to a decimal for exact arithmetic.
func (a Amount) Decimal() decimal.Decimal {
	return decimal.NewFromFloat(float64(a))
}

// AssetDeclaration maps asset categories to declared quantities.
// Weight-based fields are in grams; the rest are currency amounts.
type AssetDeclaration struct {
	Gold24KGrams      Amount `json:"gold_24k_grams"`
	Gold22KGrams      Amount `json:"gold_22k_grams"`
	Gold18KGrams      Amount `json:"gold_18k_grams"`
	SilverGrams       Amount `json:"silver_grams"`
	CashInHand        Amount `json:"cash_in_hand"`
	BankSavings       Amount `json:"bank_savings"`
	BusinessInventory Amount `json:"business_inventory"`
	Investments       Amount `json:"investments"`
	Receivables       Amount `json:"receivables"`
	OtherAssets       Amount `json:"other_assets"`
}

// LiabilityDeclaration maps liability categories to currency amounts.
type LiabilityDeclaration struct {
	ShortTermDebts    Amount `json:"short_term_debts"`
	ImmediateExpenses Amount `json:"immediate_expenses"`
	OtherLiabilities  Amount `json:"other_liabilities"`
}

// ZakatResult is the outcome of a single calculation. Computed fresh
// per request; never mutated afterwards.
type ZakatResult struct {
	TotalAssets       float64            `json:"total_assets"`
	TotalLiabilities  float64            `json:"total_liabilities"`
	NetWealth         float64            `json:"net_wealth"`
	NisabBasis        string             `json:"nisab_basis"`
	NisabThreshold    float64            `json:"nisab_threshold"`
	IsZakatApplicable bool               `json:"is_zakat_applicable"`
	ZakatAmount       float64            `json:"zakat_amount"`
	ZakatPercentage   float64            `json:"zakat_percentage"`
	CalculationDate   time.Time          `json:"calculation_date"`
	RatesUsed         RateQuote          `json:"rates_used"`
	AssetBreakdown    map[string]float64 `json:"asset_breakdown"`
}
