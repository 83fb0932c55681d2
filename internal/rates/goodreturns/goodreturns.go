// Package goodreturns implements a keyless rate source that scrapes
// per-gram gold and silver prices from the GoodReturns bullion pages.
// It exists so the service still has a live source when no GoldAPI key
// is configured; prices there are already quoted per gram in INR.
package goodreturns

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/zakathq/zakatd/internal/infra"
	"github.com/zakathq/zakatd/internal/rates"
	"github.com/zakathq/zakatd/pkg/models"
)

const (
	sourceName     = "goodreturns"
	defaultBaseURL = "https://www.goodreturns.in"

	goldPath   = "/gold-rates/"
	silverPath = "/silver-rates/"
)

// Source scrapes GoodReturns.
type Source struct {
	baseURL  string
	currency string
	limiter  *infra.RateLimiter
	logger   *zap.Logger
}

// New creates a GoodReturns source. The site only quotes INR.
func New(logger *zap.Logger) *Source {
	return &Source{
		baseURL:  defaultBaseURL,
		currency: "INR",
		limiter:  infra.NewRateLimiter(2, time.Second),
		logger:   logger,
	}
}

func (s *Source) Name() string { return sourceName }

// FetchQuote scrapes the 24K gold and silver per-gram prices and fills
// the remaining purities via normalization.
func (s *Source) FetchQuote(ctx context.Context) (*models.RateQuote, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	gold, err := s.perGramPrice(ctx, goldPath)
	if err != nil {
		return nil, &rates.ErrSourceUnavailable{Source: sourceName, Err: fmt.Errorf("gold page: %w", err)}
	}
	silver, err := s.perGramPrice(ctx, silverPath)
	if err != nil {
		return nil, &rates.ErrSourceUnavailable{Source: sourceName, Err: fmt.Errorf("silver page: %w", err)}
	}

	q := rates.Normalize(models.RateQuote{
		Gold24KPerGram: gold,
		SilverPerGram:  silver,
		Currency:       s.currency,
		FetchedAt:      time.Now().UTC(),
		Source:         models.SourceLive,
		Provider:       sourceName,
	})
	if !q.Valid() {
		return nil, &rates.ErrBadQuote{Source: sourceName, Detail: "non-positive scraped price"}
	}
	return &q, nil
}

// perGramPrice finds the "1 gram" row in the rates table and returns
// the price from its second column.
func (s *Source) perGramPrice(ctx context.Context, path string) (float64, error) {
	body, _, err := infra.DoGet(ctx, s.baseURL+path, map[string]string{
		"Accept":     "text/html",
		"User-Agent": "zakatd/1.0",
	})
	if err != nil {
		return 0, err
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return 0, fmt.Errorf("parse html: %w", err)
	}

	var price float64
	var parseErr error
	doc.Find("table tbody tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return true
		}
		weight := strings.ToLower(strings.TrimSpace(cells.Eq(0).Text()))
		if weight != "1 gram" && weight != "1 gm" {
			return true
		}
		price, parseErr = parsePrice(cells.Eq(1).Text())
		return false
	})
	if parseErr != nil {
		return 0, parseErr
	}
	if price <= 0 {
		return 0, fmt.Errorf("no per-gram row found")
	}
	return price, nil
}

// parsePrice strips the currency sign and Indian digit grouping from a
// scraped cell, e.g. "₹ 6,512.50" → 6512.50.
func parsePrice(raw string) (float64, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r == '.':
			return r
		default:
			return -1
		}
	}, raw)
	if cleaned == "" {
		return 0, fmt.Errorf("no numeric price in %q", strings.TrimSpace(raw))
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("parse price %q: %w", strings.TrimSpace(raw), err)
	}
	return v, nil
}
