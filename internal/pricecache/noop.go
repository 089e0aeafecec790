package pricecache

import (
	"context"

	"PriceForecaster/internal/model"
)

// NoopCache is used when SQLite is not configured.
type NoopCache struct{}

func NewNoopCache() *NoopCache { return &NoopCache{} }

func (n *NoopCache) Get(_ context.Context, _ Key) ([]model.PricePoint, bool, error) {
	return nil, false, nil
}
func (n *NoopCache) Put(_ context.Context, _ Key, _ []model.PricePoint) error { return nil }
func (n *NoopCache) Close() error                                             { return nil }
