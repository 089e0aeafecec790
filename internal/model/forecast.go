package model

import (
	"time"

	"github.com/google/uuid"
)

// TradingDaysPerYear annualizes daily return statistics.
const TradingDaysPerYear = 252

// CalibratedParameters are the annualized drift and volatility of a series.
type CalibratedParameters struct {
	Mu    float64 `json:"mu"`
	Sigma float64 `json:"sigma"`
}

// BrownianPath is the running sum of scaled standard normal draws.
// Entry 0 is the first scaled increment, not zero.
type BrownianPath []float64

// ForecastSeries holds N+1 prices; index 0 is the initial price.
type ForecastSeries []float64

// TimeAxis holds N+1 equally spaced fractions of the horizon in [0, 1].
type TimeAxis []float64

// Forecast is the complete output of one simulation run.
type Forecast struct {
	RunID        uuid.UUID            `json:"run_id"`
	Symbol       string               `json:"symbol"`
	Seed         int64                `json:"seed"`
	Horizon      int                  `json:"horizon"`
	InitialPrice float64              `json:"initial_price"`
	Params       CalibratedParameters `json:"params"`
	Path         BrownianPath         `json:"path"`
	TimeAxis     TimeAxis             `json:"time_axis"`
	XAxis        []float64            `json:"x_axis"`
	Prices       ForecastSeries       `json:"prices"`
	History      *HistoricalSeries    `json:"history,omitempty"`
	GeneratedAt  time.Time            `json:"generated_at"`
}

// Terminal returns the last forecast price.
func (f *Forecast) Terminal() float64 {
	if len(f.Prices) == 0 {
		return f.InitialPrice
	}
	return f.Prices[len(f.Prices)-1]
}
