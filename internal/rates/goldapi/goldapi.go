// Package goldapi implements the goldapi.io rate source. GoldAPI
// serves spot prices per troy ounce for gold (XAU) and silver (XAG)
// with API-key authentication.
//
// Docs: https://www.goldapi.io/documentation
package goldapi

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/zakathq/zakatd/internal/infra"
	"github.com/zakathq/zakatd/internal/rates"
	"github.com/zakathq/zakatd/pkg/models"
)

const (
	sourceName  = "goldapi"
	baseURL     = "https://www.goldapi.io/api"
	headerToken = "x-access-token"

	symbolGold   = "XAU"
	symbolSilver = "XAG"
)

// Source fetches quotes from goldapi.io.
type Source struct {
	apiKey   string
	currency string
	baseURL  string
	limiter  *infra.RateLimiter
	logger   *zap.Logger
}

// New creates a goldapi source. The API key is required at fetch time;
// constructing without one is allowed so the source can sit in a chain
// behind configuration.
func New(apiKey, currency string, requestsPerSec int, logger *zap.Logger) *Source {
	if requestsPerSec <= 0 {
		requestsPerSec = 5
	}
	return &Source{
		apiKey:   apiKey,
		currency: currency,
		baseURL:  baseURL,
		limiter:  infra.NewRateLimiter(requestsPerSec, time.Second),
		logger:   logger,
	}
}

func (s *Source) Name() string { return sourceName }

// FetchQuote fetches the gold and silver spot prices concurrently and
// converts them to per-gram rates with derived purities.
func (s *Source) FetchQuote(ctx context.Context) (*models.RateQuote, error) {
	if s.apiKey == "" {
		return nil, &rates.ErrSourceUnavailable{Source: sourceName, Err: fmt.Errorf("no API key configured")}
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var goldPerOunce, silverPerOunce float64
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.spotPrice(gctx, symbolGold)
		goldPerOunce = p
		return err
	})
	g.Go(func() error {
		p, err := s.spotPrice(gctx, symbolSilver)
		silverPerOunce = p
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, &rates.ErrSourceUnavailable{Source: sourceName, Err: err}
	}

	q := rates.Normalize(models.RateQuote{
		Gold24KPerGram: rates.PerGram(goldPerOunce),
		SilverPerGram:  rates.PerGram(silverPerOunce),
		Currency:       s.currency,
		FetchedAt:      time.Now().UTC(),
		Source:         models.SourceLive,
		Provider:       sourceName,
	})
	if !q.Valid() {
		return nil, &rates.ErrBadQuote{Source: sourceName, Detail: "non-positive price in payload"}
	}
	return &q, nil
}

// spotResponse is the subset of the GoldAPI payload we consume.
type spotResponse struct {
	Price float64 `json:"price"`
}

func (s *Source) spotPrice(ctx context.Context, symbol string) (float64, error) {
	url := fmt.Sprintf("%s/%s/%s", s.baseURL, symbol, s.currency)
	body, _, err := infra.DoGet(ctx, url, map[string]string{
		"Accept":    "application/json",
		headerToken: s.apiKey,
	})
	if err != nil {
		return 0, err
	}
	defer body.Close()

	var resp spotResponse
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		return 0, fmt.Errorf("parse %s payload: %w", symbol, err)
	}
	if resp.Price <= 0 {
		return 0, fmt.Errorf("%s price missing or non-positive", symbol)
	}
	return resp.Price, nil
}
