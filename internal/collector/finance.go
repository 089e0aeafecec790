package collector

import (
	"context"
	"fmt"
	"time"

	"PriceForecaster/internal/model"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
)

// FinanceFetcher implements Fetcher with the finance-go Yahoo client. Closes
// are split and dividend adjusted.
type FinanceFetcher struct {
	Now func() time.Time
}

func NewFinanceFetcher() *FinanceFetcher {
	return &FinanceFetcher{Now: time.Now}
}

func (f *FinanceFetcher) Name() string { return "finance-go" }

// calendarSpan converts trading days to a calendar lookback with slack for holidays.
func calendarSpan(days int) int {
	return days*7/5 + 10
}

func (f *FinanceFetcher) FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.DailyBar, error) {
	now := f.Now()
	start := now.AddDate(0, 0, -calendarSpan(days))
	params := &chart.Params{
		Start:    datetime.New(&start),
		End:      datetime.New(&now),
		Symbol:   symbol,
		Interval: datetime.OneDay,
	}
	iter := chart.Get(params)

	bars := []model.DailyBar{}
	for iter.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		b := iter.Bar()
		bars = append(bars, model.DailyBar{
			Time:  time.Unix(int64(b.Timestamp), 0).UTC(),
			Close: b.AdjClose.InexactFloat64(),
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to get prices for %s: %w", symbol, err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("finance-go %s: %w", symbol, ErrNoData)
	}
	if len(bars) > days {
		bars = bars[len(bars)-days:]
	}
	return bars, nil
}
