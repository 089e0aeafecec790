package collector

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"PriceForecaster/internal/model"

	"github.com/gocarina/gocsv"
)

// csvRow is one line of a price file: date,close[,symbol].
type csvRow struct {
	Date   string  `csv:"date"`
	Close  float64 `csv:"close"`
	Symbol string  `csv:"symbol,omitempty"`
}

// CSVFetcher reads daily closes from a local CSV file with a header row
// "date,close" and an optional "symbol" column. Dates use YYYY-MM-DD.
type CSVFetcher struct {
	Path string
}

func NewCSVFetcher(path string) *CSVFetcher {
	return &CSVFetcher{Path: path}
}

func (f *CSVFetcher) Name() string { return "csv" }

func (f *CSVFetcher) FetchDailyBars(_ context.Context, symbol string, days int) ([]model.DailyBar, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("open price file: %w", err)
	}
	defer file.Close()

	var rows []csvRow
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return nil, fmt.Errorf("parse price file %s: %w", f.Path, err)
	}

	bars := make([]model.DailyBar, 0, len(rows))
	for i, r := range rows {
		if r.Symbol != "" && !strings.EqualFold(r.Symbol, symbol) {
			continue
		}
		d, err := time.Parse(time.DateOnly, strings.TrimSpace(r.Date))
		if err != nil {
			return nil, fmt.Errorf("price file %s row %d: %w", f.Path, i+2, err)
		}
		bars = append(bars, model.DailyBar{Time: d, Close: r.Close})
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("price file %s has no rows for %s: %w", f.Path, symbol, ErrNoData)
	}

	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	if len(bars) > days {
		bars = bars[len(bars)-days:]
	}
	return bars, nil
}
