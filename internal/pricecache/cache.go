package pricecache

import (
	"context"
	"time"

	"PriceForecaster/internal/model"
)

// Key identifies one cached fetch. Day is the UTC calendar day of the fetch,
// so a cached series is reused until the next day.
type Key struct {
	Symbol string
	Window int
	Day    string
}

// KeyFor builds the cache key for a fetch made at now.
func KeyFor(symbol string, window int, now time.Time) Key {
	return Key{Symbol: symbol, Window: window, Day: now.UTC().Format(time.DateOnly)}
}

// Cache stores historical closes between runs. It caches inputs only;
// forecasts are never persisted.
type Cache interface {
	Get(ctx context.Context, key Key) ([]model.PricePoint, bool, error)
	Put(ctx context.Context, key Key, points []model.PricePoint) error
	Close() error
}
