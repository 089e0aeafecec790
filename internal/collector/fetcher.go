package collector

import (
	"context"
	"errors"

	"PriceForecaster/internal/model"
)

var (
	ErrNoData           = errors.New("no price data returned")
	ErrNonPositivePrice = errors.New("non-positive closing price")
)

//go:generate mockgen -source=fetcher.go -destination=mocks/mock_fetcher.go

// Fetcher defines the interface for fetching daily market data.
type Fetcher interface {
	// FetchDailyBars returns up to days most recent daily bars, oldest first.
	FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.DailyBar, error)
	Name() string
}
