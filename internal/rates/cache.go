package rates

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/zakathq/zakatd/pkg/models"
)

const quoteKey = "rates:current"

// CacheOpts configures the quote cache.
type CacheOpts struct {
	// TTL is how long a fetched quote counts as fresh.
	TTL time.Duration
	// FetchTimeout bounds a single refresh attempt.
	FetchTimeout time.Duration
}

// DefaultCacheOpts mirror the shipped configuration defaults.
func DefaultCacheOpts() CacheOpts {
	return CacheOpts{
		TTL:          5 * time.Minute,
		FetchTimeout: 5 * time.Second,
	}
}

// Cache serves the best available RateQuote. Within the TTL window it
// returns the cached quote unchanged; once stale it refreshes through a
// single-flight group so concurrent callers collapse onto one upstream
// fetch. A failed refresh degrades to the stale quote, and if no live
// fetch has ever succeeded, to the hardcoded fallback. Current never
// returns an error: degraded-but-available data beats no data for an
// advisory rate.
type Cache struct {
	source   Source
	fallback models.RateQuote
	opts     CacheOpts
	logger   *zap.Logger

	fresh *gocache.Cache // freshness window for the latest live quote
	group singleflight.Group

	mu       sync.RWMutex
	lastGood *models.RateQuote
	onUpdate func(models.RateQuote)
}

// NewCache creates a quote cache. The fallback quote is normalized and
// stamped at construction so it is always complete and positive.
func NewCache(source Source, fallback models.RateQuote, opts CacheOpts, logger *zap.Logger) *Cache {
	if opts.TTL <= 0 {
		opts.TTL = DefaultCacheOpts().TTL
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = DefaultCacheOpts().FetchTimeout
	}

	fallback = Normalize(fallback)
	fallback.Source = models.SourceFallback
	fallback.Provider = ""
	if fallback.FetchedAt.IsZero() {
		fallback.FetchedAt = time.Now().UTC()
	}

	return &Cache{
		source:   source,
		fallback: fallback,
		opts:     opts,
		logger:   logger,
		fresh:    gocache.New(opts.TTL, 2*opts.TTL),
	}
}

// OnUpdate registers a hook invoked whenever a refresh stores a new
// live quote. Must be set before the cache is shared across goroutines.
func (c *Cache) OnUpdate(fn func(models.RateQuote)) {
	c.onUpdate = fn
}

// Current returns the freshest usable quote. Callers that arrive while
// a refresh is in flight either join it or, if their context expires
// first, leave with the degraded quote.
func (c *Cache) Current(ctx context.Context) models.RateQuote {
	if v, ok := c.fresh.Get(quoteKey); ok {
		return v.(models.RateQuote)
	}

	ch := c.group.DoChan(quoteKey, c.refresh)
	select {
	case res := <-ch:
		if res.Err == nil {
			return res.Val.(models.RateQuote)
		}
		c.logger.Warn("rate refresh failed, serving degraded quote", zap.Error(res.Err))
	case <-ctx.Done():
		c.logger.Debug("caller gave up on refresh, serving degraded quote", zap.Error(ctx.Err()))
	}
	return c.degraded()
}

// refresh performs one upstream fetch. It runs detached from any single
// caller's context so a cancelled request cannot poison the result the
// other collapsed callers are waiting on.
func (c *Cache) refresh() (any, error) {
	// A concurrent caller may have completed a refresh between our
	// freshness miss and the group admitting us.
	if v, ok := c.fresh.Get(quoteKey); ok {
		return v.(models.RateQuote), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.opts.FetchTimeout)
	defer cancel()

	q, err := c.source.FetchQuote(ctx)
	if err != nil {
		return models.RateQuote{}, err
	}

	quote := *q
	quote.Source = models.SourceLive
	c.fresh.Set(quoteKey, quote, gocache.DefaultExpiration)

	c.mu.Lock()
	c.lastGood = &quote
	c.mu.Unlock()

	c.logger.Info("stored fresh rate quote",
		zap.String("provider", quote.Provider),
		zap.Float64("gold_24k_per_gram", quote.Gold24KPerGram),
		zap.Float64("silver_per_gram", quote.SilverPerGram))

	if c.onUpdate != nil {
		c.onUpdate(quote)
	}
	return quote, nil
}

// degraded returns the stale last-good quote if one exists, else the
// fallback. Stale data is the designed degraded mode, not an error;
// the source and fetched_at fields keep it observable.
func (c *Cache) degraded() models.RateQuote {
	c.mu.RLock()
	last := c.lastGood
	c.mu.RUnlock()
	if last != nil {
		return *last
	}
	return c.fallback
}

// Fallback returns the shipped fallback quote.
func (c *Cache) Fallback() models.RateQuote {
	return c.fallback
}
