package zakat

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/zakathq/zakatd/pkg/models"
)

// zakatRate is the obligatory levy on qualifying net wealth: 2.5%.
var zakatRate = decimal.RequireFromString("0.025")

// Calculate applies the Hanafi general-wealth rules to a declaration
// using the given rate quote. It never fails: invalid inputs have
// already been coerced to zero at decode time.
//
// Weight-based assets are converted to currency at the quote's per-gram
// rates, summed with the currency-based assets, and liabilities are
// deducted. Net wealth keeps its sign; eligibility is the inclusive
// comparison net_wealth >= threshold for the chosen basis.
func Calculate(assets models.AssetDeclaration, liabilities models.LiabilityDeclaration, basis string, q models.RateQuote) models.ZakatResult {
	g24 := decimal.NewFromFloat(q.Gold24KPerGram)
	g22 := decimal.NewFromFloat(q.Gold22KPerGram)
	g18 := decimal.NewFromFloat(q.Gold18KPerGram)
	sil := decimal.NewFromFloat(q.SilverPerGram)

	goldValue := assets.Gold24KGrams.Decimal().Mul(g24).
		Add(assets.Gold22KGrams.Decimal().Mul(g22)).
		Add(assets.Gold18KGrams.Decimal().Mul(g18))
	silverValue := assets.SilverGrams.Decimal().Mul(sil)

	totalAssets := goldValue.
		Add(silverValue).
		Add(assets.CashInHand.Decimal()).
		Add(assets.BankSavings.Decimal()).
		Add(assets.BusinessInventory.Decimal()).
		Add(assets.Investments.Decimal()).
		Add(assets.Receivables.Decimal()).
		Add(assets.OtherAssets.Decimal())

	totalLiabilities := liabilities.ShortTermDebts.Decimal().
		Add(liabilities.ImmediateExpenses.Decimal()).
		Add(liabilities.OtherLiabilities.Decimal())

	netWealth := totalAssets.Sub(totalLiabilities)

	basis = NormalizeBasis(basis)
	goldThreshold, silverThreshold := thresholdDecimals(q)
	threshold := silverThreshold
	if basis == BasisGold {
		threshold = goldThreshold
	}

	applicable := netWealth.GreaterThanOrEqual(threshold)
	amount := decimal.Zero
	if applicable {
		amount = netWealth.Mul(zakatRate)
	}

	return models.ZakatResult{
		TotalAssets:       round2(totalAssets),
		TotalLiabilities:  round2(totalLiabilities),
		NetWealth:         round2(netWealth),
		NisabBasis:        basis,
		NisabThreshold:    round2(threshold),
		IsZakatApplicable: applicable,
		ZakatAmount:       round2(amount),
		ZakatPercentage:   2.5,
		CalculationDate:   time.Now().UTC(),
		RatesUsed:         q,
		AssetBreakdown: map[string]float64{
			"gold":               round2(goldValue),
			"silver":             round2(silverValue),
			"cash_in_hand":       round2(assets.CashInHand.Decimal()),
			"bank_savings":       round2(assets.BankSavings.Decimal()),
			"business_inventory": round2(assets.BusinessInventory.Decimal()),
			"investments":        round2(assets.Investments.Decimal()),
			"receivables":        round2(assets.Receivables.Decimal()),
			"other_assets":       round2(assets.OtherAssets.Decimal()),
		},
	}
}
