package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestAmountUnmarshalCoercion(t *testing.T) {
	tests := []struct {
		name string
		json string
		want float64
	}{
		{"number", `{"v": 123.45}`, 123.45},
		{"zero", `{"v": 0}`, 0},
		{"negative clamped", `{"v": -50}`, 0},
		{"numeric string", `{"v": "99.5"}`, 99.5},
		{"padded numeric string", `{"v": " 12 "}`, 12},
		{"negative string clamped", `{"v": "-3"}`, 0},
		{"garbage string", `{"v": "abc"}`, 0},
		{"null", `{"v": null}`, 0},
		{"bool", `{"v": true}`, 0},
		{"object", `{"v": {"x": 1}}`, 0},
		{"absent", `{}`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var dst struct {
				V Amount `json:"v"`
			}
			if err := json.Unmarshal([]byte(tt.json), &dst); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if float64(dst.V) != tt.want {
				t.Errorf("got %v, want %v", float64(dst.V), tt.want)
			}
		})
	}
}

func TestAssetDeclarationDecode(t *testing.T) {
	body := `{
		"gold_24k_grams": 10,
		"silver_grams": "25.5",
		"cash_in_hand": -40000,
		"bank_savings": "junk"
	}`
	var assets AssetDeclaration
	if err := json.Unmarshal([]byte(body), &assets); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if assets.Gold24KGrams != 10 {
		t.Errorf("Gold24KGrams: got %v", assets.Gold24KGrams)
	}
	if assets.SilverGrams != 25.5 {
		t.Errorf("SilverGrams: got %v", assets.SilverGrams)
	}
	if assets.CashInHand != 0 {
		t.Errorf("CashInHand: got %v, want 0 (negative clamped)", assets.CashInHand)
	}
	if assets.BankSavings != 0 {
		t.Errorf("BankSavings: got %v, want 0 (garbage coerced)", assets.BankSavings)
	}
}

func TestRateQuoteValid(t *testing.T) {
	q := RateQuote{
		Gold24KPerGram: 6000,
		Gold22KPerGram: 5500,
		Gold18KPerGram: 4500,
		SilverPerGram:  80,
		Currency:       "INR",
		FetchedAt:      time.Now(),
		Source:         SourceLive,
	}
	if !q.Valid() {
		t.Error("complete quote should be valid")
	}

	partial := q
	partial.Gold18KPerGram = 0
	if partial.Valid() {
		t.Error("quote with missing purity should be invalid")
	}

	negative := q
	negative.SilverPerGram = -1
	if negative.Valid() {
		t.Error("quote with negative price should be invalid")
	}
}
