package goodreturns

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/zakathq/zakatd/pkg/models"
)

const goldPage = `<html><body>
<table class="gold-rates">
<tbody>
<tr><td>1 gram</td><td>&#8377; 6,512.50</td><td>&#8377; 6,490.00</td></tr>
<tr><td>8 grams</td><td>&#8377; 52,100</td><td>&#8377; 51,920</td></tr>
</tbody>
</table>
</body></html>`

const silverPage = `<html><body>
<table class="silver-rates">
<tbody>
<tr><td>1 gram</td><td>&#8377; 82.40</td><td>&#8377; 82.10</td></tr>
<tr><td>1 kg</td><td>&#8377; 82,400</td><td>&#8377; 82,100</td></tr>
</tbody>
</table>
</body></html>`

func testSource(t *testing.T, handler http.Handler) *Source {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	s := New(zap.NewNop())
	s.baseURL = ts.URL
	return s
}

func TestFetchQuote(t *testing.T) {
	s := testSource(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/gold-rates/":
			fmt.Fprint(w, goldPage)
		case "/silver-rates/":
			fmt.Fprint(w, silverPage)
		default:
			http.NotFound(w, r)
		}
	}))

	q, err := s.FetchQuote(context.Background())
	if err != nil {
		t.Fatalf("FetchQuote: %v", err)
	}

	if q.Gold24KPerGram != 6512.50 {
		t.Errorf("Gold24KPerGram: got %v, want 6512.50", q.Gold24KPerGram)
	}
	if q.SilverPerGram != 82.40 {
		t.Errorf("SilverPerGram: got %v, want 82.40", q.SilverPerGram)
	}
	// Derived purities come from normalization.
	if q.Gold22KPerGram == 0 || q.Gold18KPerGram == 0 {
		t.Errorf("purities not derived: %+v", q)
	}
	if q.Currency != "INR" {
		t.Errorf("Currency: got %q, want INR", q.Currency)
	}
	if q.Source != models.SourceLive || q.Provider != "goodreturns" {
		t.Errorf("attribution: source=%q provider=%q", q.Source, q.Provider)
	}
}

func TestFetchQuoteMissingRow(t *testing.T) {
	s := testSource(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><table><tbody><tr><td>10 grams</td><td>x</td></tr></tbody></table></body></html>`)
	}))

	if _, err := s.FetchQuote(context.Background()); err == nil {
		t.Fatal("expected error when the per-gram row is absent")
	}
}

func TestFetchQuoteUpstreamError(t *testing.T) {
	s := testSource(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	}))

	if _, err := s.FetchQuote(context.Background()); err == nil {
		t.Fatal("expected error on non-2xx response")
	}
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"₹ 6,512.50", 6512.50, false},
		{"₹82.40", 82.40, false},
		{" 1,00,000 ", 100000, false},
		{"6500", 6500, false},
		{"N/A", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := parsePrice(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parsePrice(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("parsePrice(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parsePrice(%q): got %v, want %v", tt.in, got, tt.want)
		}
	}
}
