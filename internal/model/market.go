package model

import "time"

// DailyBar is one trading day's close as returned by a price feed.
type DailyBar struct {
	Time  time.Time
	Close float64
}

// PricePoint is one (date, close) observation of a HistoricalSeries.
type PricePoint struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// HistoricalSeries holds the trailing closes a forecast is calibrated from.
// Points are chronological with no gaps assumed.
type HistoricalSeries struct {
	Symbol    string       `json:"symbol"`
	Window    int          `json:"window"` // requested trailing days, used for x-axis alignment
	Points    []PricePoint `json:"points"`
	Source    string       `json:"source"`
	FetchedAt time.Time    `json:"fetched_at"`
}

// Closes returns the closing prices in chronological order.
func (s *HistoricalSeries) Closes() []float64 {
	closes := make([]float64, len(s.Points))
	for i, p := range s.Points {
		closes[i] = p.Close
	}
	return closes
}

// Last returns the most recent point. ok is false for an empty series.
func (s *HistoricalSeries) Last() (p PricePoint, ok bool) {
	if len(s.Points) == 0 {
		return PricePoint{}, false
	}
	return s.Points[len(s.Points)-1], true
}

// PointsFromBars keeps the close of each bar.
func PointsFromBars(bars []DailyBar) []PricePoint {
	points := make([]PricePoint, len(bars))
	for i, b := range bars {
		points[i] = PricePoint{Date: b.Time, Close: b.Close}
	}
	return points
}
