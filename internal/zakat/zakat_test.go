package zakat

import (
	"testing"

	"github.com/zakathq/zakatd/pkg/models"
)

func testQuote() models.RateQuote {
	return models.RateQuote{
		Gold24KPerGram: 6000,
		Gold22KPerGram: 5500,
		Gold18KPerGram: 4500,
		SilverPerGram:  80,
		Currency:       "INR",
		Source:         models.SourceLive,
	}
}

func TestThresholds(t *testing.T) {
	th := Thresholds(testQuote())

	if th.GoldGrams != 87.48 {
		t.Errorf("GoldGrams: got %v, want 87.48", th.GoldGrams)
	}
	if th.SilverGrams != 612.36 {
		t.Errorf("SilverGrams: got %v, want 612.36", th.SilverGrams)
	}
	if th.GoldValue != 524880 {
		t.Errorf("GoldValue: got %v, want 524880", th.GoldValue)
	}
	if th.SilverValue != 48988.80 {
		t.Errorf("SilverValue: got %v, want 48988.80", th.SilverValue)
	}
	if th.Currency != "INR" {
		t.Errorf("Currency: got %q, want INR", th.Currency)
	}
}

func TestThresholdsScaleLinearly(t *testing.T) {
	q := testQuote()
	base := Thresholds(q)

	q.Gold24KPerGram *= 2
	q.SilverPerGram *= 2
	doubled := Thresholds(q)

	if doubled.GoldValue != 2*base.GoldValue {
		t.Errorf("GoldValue did not double: %v vs %v", doubled.GoldValue, base.GoldValue)
	}
	if doubled.SilverValue != 2*base.SilverValue {
		t.Errorf("SilverValue did not double: %v vs %v", doubled.SilverValue, base.SilverValue)
	}
}

func TestNormalizeBasis(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"gold", BasisGold},
		{"silver", BasisSilver},
		{"", BasisSilver},
		{"platinum", BasisSilver},
		{"GOLD", BasisSilver}, // case-sensitive by contract
	}
	for _, tt := range tests {
		if got := NormalizeBasis(tt.in); got != tt.want {
			t.Errorf("NormalizeBasis(%q): got %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCalculateSilverBasis(t *testing.T) {
	assets := models.AssetDeclaration{
		Gold24KGrams: 10,
		CashInHand:   40000,
	}
	liabilities := models.LiabilityDeclaration{
		ShortTermDebts: 5000,
	}

	res := Calculate(assets, liabilities, BasisSilver, testQuote())

	if res.TotalAssets != 100000 {
		t.Errorf("TotalAssets: got %v, want 100000", res.TotalAssets)
	}
	if res.TotalLiabilities != 5000 {
		t.Errorf("TotalLiabilities: got %v, want 5000", res.TotalLiabilities)
	}
	if res.NetWealth != 95000 {
		t.Errorf("NetWealth: got %v, want 95000", res.NetWealth)
	}
	if res.NisabThreshold != 48988.80 {
		t.Errorf("NisabThreshold: got %v, want 48988.80", res.NisabThreshold)
	}
	if !res.IsZakatApplicable {
		t.Error("expected zakat to be applicable")
	}
	if res.ZakatAmount != 2375 {
		t.Errorf("ZakatAmount: got %v, want 2375", res.ZakatAmount)
	}
	if res.ZakatPercentage != 2.5 {
		t.Errorf("ZakatPercentage: got %v, want 2.5", res.ZakatPercentage)
	}
	if res.NisabBasis != BasisSilver {
		t.Errorf("NisabBasis: got %q, want silver", res.NisabBasis)
	}
}

func TestCalculateGoldBasisNotApplicable(t *testing.T) {
	assets := models.AssetDeclaration{
		Gold24KGrams: 10,
		CashInHand:   40000,
	}
	liabilities := models.LiabilityDeclaration{
		ShortTermDebts: 5000,
	}

	res := Calculate(assets, liabilities, BasisGold, testQuote())

	if res.NetWealth != 95000 {
		t.Errorf("NetWealth: got %v, want 95000", res.NetWealth)
	}
	if res.NisabThreshold != 524880 {
		t.Errorf("NisabThreshold: got %v, want 524880", res.NisabThreshold)
	}
	if res.IsZakatApplicable {
		t.Error("expected zakat not applicable below gold nisab")
	}
	if res.ZakatAmount != 0 {
		t.Errorf("ZakatAmount: got %v, want 0", res.ZakatAmount)
	}
}

func TestCalculateBoundaryInclusive(t *testing.T) {
	// Net wealth exactly at the threshold owes Zakat.
	assets := models.AssetDeclaration{CashInHand: 48988.80}

	res := Calculate(assets, models.LiabilityDeclaration{}, BasisSilver, testQuote())

	if !res.IsZakatApplicable {
		t.Fatal("net wealth equal to the threshold must be applicable")
	}
	if res.ZakatAmount != 1224.72 {
		t.Errorf("ZakatAmount: got %v, want 1224.72", res.ZakatAmount)
	}
}

func TestCalculateJustBelowThreshold(t *testing.T) {
	assets := models.AssetDeclaration{CashInHand: 48988.79}

	res := Calculate(assets, models.LiabilityDeclaration{}, BasisSilver, testQuote())

	if res.IsZakatApplicable {
		t.Error("net wealth below the threshold must not be applicable")
	}
	if res.ZakatAmount != 0 {
		t.Errorf("ZakatAmount: got %v, want 0", res.ZakatAmount)
	}
}

func TestCalculateNegativeNetWealthPreserved(t *testing.T) {
	assets := models.AssetDeclaration{CashInHand: 1000}
	liabilities := models.LiabilityDeclaration{ShortTermDebts: 5000}

	res := Calculate(assets, liabilities, BasisSilver, testQuote())

	if res.NetWealth != -4000 {
		t.Errorf("NetWealth: got %v, want -4000 (sign preserved)", res.NetWealth)
	}
	if res.IsZakatApplicable {
		t.Error("negative net wealth cannot be applicable")
	}
	if res.ZakatAmount != 0 {
		t.Errorf("ZakatAmount: got %v, want 0", res.ZakatAmount)
	}
}

func TestCalculateDefaultsToSilverBasis(t *testing.T) {
	assets := models.AssetDeclaration{CashInHand: 50000}

	for _, basis := range []string{"", "bogus"} {
		res := Calculate(assets, models.LiabilityDeclaration{}, basis, testQuote())
		if res.NisabBasis != BasisSilver {
			t.Errorf("basis %q: got %q, want silver", basis, res.NisabBasis)
		}
		if res.NisabThreshold != 48988.80 {
			t.Errorf("basis %q: threshold %v, want silver threshold", basis, res.NisabThreshold)
		}
	}
}

func TestCalculateAllCategories(t *testing.T) {
	assets := models.AssetDeclaration{
		Gold24KGrams:      1,
		Gold22KGrams:      2,
		Gold18KGrams:      4,
		SilverGrams:       100,
		CashInHand:        1000,
		BankSavings:       2000,
		BusinessInventory: 3000,
		Investments:       4000,
		Receivables:       5000,
		OtherAssets:       6000,
	}
	liabilities := models.LiabilityDeclaration{
		ShortTermDebts:    1000,
		ImmediateExpenses: 500,
		OtherLiabilities:  250,
	}

	res := Calculate(assets, liabilities, BasisSilver, testQuote())

	// gold: 6000 + 11000 + 18000 = 35000; silver: 8000; cash-like: 21000
	if res.TotalAssets != 64000 {
		t.Errorf("TotalAssets: got %v, want 64000", res.TotalAssets)
	}
	if res.TotalLiabilities != 1750 {
		t.Errorf("TotalLiabilities: got %v, want 1750", res.TotalLiabilities)
	}
	if res.NetWealth != 62250 {
		t.Errorf("NetWealth: got %v, want 62250", res.NetWealth)
	}

	if got := res.AssetBreakdown["gold"]; got != 35000 {
		t.Errorf("breakdown gold: got %v, want 35000", got)
	}
	if got := res.AssetBreakdown["silver"]; got != 8000 {
		t.Errorf("breakdown silver: got %v, want 8000", got)
	}
	if got := res.AssetBreakdown["other_assets"]; got != 6000 {
		t.Errorf("breakdown other_assets: got %v, want 6000", got)
	}
}

func TestCalculateNoIntermediateRounding(t *testing.T) {
	// Many small fractional inputs must sum exactly; rounding happens
	// only once at the end.
	assets := models.AssetDeclaration{
		CashInHand:        0.105,
		BankSavings:       0.105,
		BusinessInventory: 0.105,
		Investments:       0.105,
		Receivables:       0.105,
		OtherAssets:       0.105,
	}

	res := Calculate(assets, models.LiabilityDeclaration{}, BasisSilver, testQuote())

	// 6 × 0.105 = 0.63 exactly; per-field rounding first would give 0.66.
	if res.TotalAssets != 0.63 {
		t.Errorf("TotalAssets: got %v, want 0.63", res.TotalAssets)
	}
}
