package collector

import (
	"context"
	"time"

	"PriceForecaster/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price     float64
	DailyData []model.DailyBar
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(_ context.Context, _ string, days int) ([]model.DailyBar, error) {
	if m.DailyData != nil {
		bars := m.DailyData
		if len(bars) > days {
			bars = bars[len(bars)-days:]
		}
		return bars, nil
	}
	return generateMockBars(m.Price, days), nil
}

// generateMockBars produces a gently zig-zagging series around basePrice.
func generateMockBars(basePrice float64, count int) []model.DailyBar {
	bars := make([]model.DailyBar, count)
	end := time.Now().UTC().Truncate(24 * time.Hour)
	for i := 0; i < count; i++ {
		wiggle := 0.004
		if i%2 == 1 {
			wiggle = -0.003
		}
		p := basePrice * (1 + float64(i-count/2)*0.001 + wiggle)
		bars[i] = model.DailyBar{Time: end.AddDate(0, 0, -(count - i)), Close: p}
	}
	return bars
}
