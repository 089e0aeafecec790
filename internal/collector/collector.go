package collector

import (
	"context"
	"fmt"
	"time"

	"PriceForecaster/internal/logger"
	"PriceForecaster/internal/model"
	"PriceForecaster/internal/pricecache"
)

// Collector fetches a trailing window of closes and validates it for calibration.
type Collector struct {
	Fetcher Fetcher
	Cache   pricecache.Cache
	Now     func() time.Time
}

// NewCollector creates a new Collector. A nil cache disables caching.
func NewCollector(fetcher Fetcher, cache pricecache.Cache) *Collector {
	if cache == nil {
		cache = pricecache.NewNoopCache()
	}
	return &Collector{Fetcher: fetcher, Cache: cache, Now: time.Now}
}

// Collect returns the last window daily closes of symbol, oldest first.
// Cache failures are logged and fall through to the fetcher.
func (c *Collector) Collect(ctx context.Context, symbol string, window int) (*model.HistoricalSeries, error) {
	log := logger.FromContext(ctx)
	now := c.Now()
	key := pricecache.KeyFor(symbol, window, now)

	points, ok, err := c.Cache.Get(ctx, key)
	if err != nil {
		log.Warnw("price cache read failed", "symbol", symbol, "error", err)
	}
	source := c.Fetcher.Name() + " (cached)"

	if !ok {
		bars, err := c.Fetcher.FetchDailyBars(ctx, symbol, window)
		if err != nil {
			return nil, fmt.Errorf("fetch daily bars: %w", err)
		}
		points = model.PointsFromBars(bars)
		source = c.Fetcher.Name()

		if err := validatePoints(points); err != nil {
			return nil, fmt.Errorf("%s %s: %w", source, symbol, err)
		}
		if err := c.Cache.Put(ctx, key, points); err != nil {
			log.Warnw("price cache write failed", "symbol", symbol, "error", err)
		}
	} else if err := validatePoints(points); err != nil {
		return nil, fmt.Errorf("%s %s: %w", source, symbol, err)
	}

	log.Infow("historical series collected", "symbol", symbol, "window", window, "points", len(points), "source", source)
	return &model.HistoricalSeries{
		Symbol:    symbol,
		Window:    window,
		Points:    points,
		Source:    source,
		FetchedAt: now,
	}, nil
}

// validatePoints enforces what calibration assumes of its input: positive
// closes in chronological order.
func validatePoints(points []model.PricePoint) error {
	if len(points) == 0 {
		return ErrNoData
	}
	for i, p := range points {
		if !(p.Close > 0) {
			return fmt.Errorf("%w at %s: %v", ErrNonPositivePrice, p.Date.Format(time.DateOnly), p.Close)
		}
		if i > 0 && p.Date.Before(points[i-1].Date) {
			return fmt.Errorf("points out of order at index %d", i)
		}
	}
	return nil
}
