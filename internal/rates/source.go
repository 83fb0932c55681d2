// Package rates acquires precious-metal market quotes. It defines the
// Source abstraction over external providers, a fallback chain across
// sources, and a TTL cache that serves the freshest usable quote
// without ever surfacing an upstream failure to its callers.
package rates

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/zakathq/zakatd/pkg/models"
)

// Source fetches a live metal quote from one external provider. It is
// a pure I/O boundary: any network error, timeout, non-2xx response, or
// malformed payload is an error return, never a partial quote.
type Source interface {
	Name() string
	FetchQuote(ctx context.Context) (*models.RateQuote, error)
}

// ErrSourceUnavailable wraps an upstream failure with the source name.
type ErrSourceUnavailable struct {
	Source string
	Err    error
}

func (e *ErrSourceUnavailable) Error() string {
	return fmt.Sprintf("rate source %q unavailable: %v", e.Source, e.Err)
}

func (e *ErrSourceUnavailable) Unwrap() error { return e.Err }

// ErrBadQuote is returned when a provider responds but the payload does
// not yield a usable quote (missing or non-positive prices).
type ErrBadQuote struct {
	Source string
	Detail string
}

func (e *ErrBadQuote) Error() string {
	return fmt.Sprintf("rate source %q returned bad quote: %s", e.Source, e.Detail)
}

// Chain tries sources in priority order and returns the first quote.
// It implements Source itself so the cache does not care whether it is
// talking to one provider or several.
type Chain struct {
	sources []Source
	logger  *zap.Logger
}

// NewChain creates a source chain. Order matters: earlier sources are
// preferred.
func NewChain(logger *zap.Logger, sources ...Source) *Chain {
	return &Chain{sources: sources, logger: logger}
}

func (c *Chain) Name() string { return "chain" }

// FetchQuote tries each source in order, logging failures as it goes.
func (c *Chain) FetchQuote(ctx context.Context) (*models.RateQuote, error) {
	if len(c.sources) == 0 {
		return nil, &ErrSourceUnavailable{Source: c.Name(), Err: fmt.Errorf("no sources configured")}
	}

	var lastErr error
	for _, src := range c.sources {
		q, err := src.FetchQuote(ctx)
		if err == nil {
			return q, nil
		}
		lastErr = err
		c.logger.Warn("rate source failed, trying next",
			zap.String("source", src.Name()),
			zap.Error(err))
	}
	return nil, fmt.Errorf("all rate sources failed: %w", lastErr)
}
