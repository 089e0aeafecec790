package forecast

import (
	"fmt"
	"strings"

	"PriceForecaster/internal/gbm"
)

// Defaults for a run nobody configured.
const (
	DefaultHistoryWindow = 100
	DefaultHorizon       = 252
	DefaultSeed          = 20
)

// Upper bounds on a single run, roughly forty years of trading days.
const (
	MaxHistoryWindow = 10000
	MaxHorizon       = 10000
)

// Request is everything a caller may configure for one run.
type Request struct {
	Symbol        string `json:"symbol"`
	HistoryWindow int    `json:"history_window"`
	Horizon       int    `json:"horizon"`
	Seed          int64  `json:"seed"`
}

// Validate rejects requests that cannot produce a forecast or exceed the run bounds.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Symbol) == "" {
		return &gbm.InvalidParameterError{Name: "symbol", Value: r.Symbol, Reason: "must not be empty"}
	}
	if r.HistoryWindow <= 0 {
		return &gbm.InvalidParameterError{Name: "historyWindow", Value: r.HistoryWindow, Reason: "must be positive"}
	}
	if r.HistoryWindow > MaxHistoryWindow {
		return &gbm.InvalidParameterError{Name: "historyWindow", Value: r.HistoryWindow, Reason: fmt.Sprintf("must be at most %d", MaxHistoryWindow)}
	}
	if r.Horizon <= 0 {
		return &gbm.InvalidParameterError{Name: "forecastHorizon", Value: r.Horizon, Reason: "must be positive"}
	}
	if r.Horizon > MaxHorizon {
		return &gbm.InvalidParameterError{Name: "forecastHorizon", Value: r.Horizon, Reason: fmt.Sprintf("must be at most %d", MaxHorizon)}
	}
	return nil
}
