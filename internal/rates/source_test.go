package rates

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestChainPrefersFirstSource(t *testing.T) {
	primary := &fakeSource{quote: liveQuote()}
	backup := &fakeSource{quote: liveQuote()}
	chain := NewChain(zap.NewNop(), primary, backup)

	q, err := chain.FetchQuote(context.Background())
	if err != nil {
		t.Fatalf("FetchQuote: %v", err)
	}
	if q.Provider != "fake" {
		t.Errorf("Provider: got %q", q.Provider)
	}
	if backup.callCount() != 0 {
		t.Error("backup source should not be consulted when primary succeeds")
	}
}

func TestChainFallsThroughOnFailure(t *testing.T) {
	primary := &fakeSource{err: errors.New("rate limited")}
	backupQuote := liveQuote()
	backupQuote.Provider = "backup"
	backup := &fakeSource{quote: backupQuote}
	chain := NewChain(zap.NewNop(), primary, backup)

	q, err := chain.FetchQuote(context.Background())
	if err != nil {
		t.Fatalf("FetchQuote: %v", err)
	}
	if q.Provider != "backup" {
		t.Errorf("Provider: got %q, want backup", q.Provider)
	}
	if primary.callCount() != 1 {
		t.Errorf("primary calls: got %d, want 1", primary.callCount())
	}
}

func TestChainAllSourcesFail(t *testing.T) {
	chain := NewChain(zap.NewNop(),
		&fakeSource{err: errors.New("down")},
		&fakeSource{err: errors.New("also down")},
	)

	_, err := chain.FetchQuote(context.Background())
	if err == nil {
		t.Fatal("expected error when every source fails")
	}
	if !strings.Contains(err.Error(), "all rate sources failed") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestChainNoSources(t *testing.T) {
	chain := NewChain(zap.NewNop())

	_, err := chain.FetchQuote(context.Background())
	var unavailable *ErrSourceUnavailable
	if !errors.As(err, &unavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
}

func TestErrBadQuoteMessage(t *testing.T) {
	err := &ErrBadQuote{Source: "goldapi", Detail: "non-positive price"}
	if !strings.Contains(err.Error(), "goldapi") || !strings.Contains(err.Error(), "non-positive price") {
		t.Errorf("unexpected message: %v", err)
	}
}
