package gbm

import (
	"math"

	"PriceForecaster/internal/calculator"
	"PriceForecaster/internal/model"

	"github.com/montanaflynn/stats"
)

// MinCalibrationPoints is the shortest series that yields a return series.
const MinCalibrationPoints = 2

// Calibrate derives annualized drift and volatility from chronological
// closing prices.
//
//	mu    = mean(daily returns) * 252
//	sigma = sample stddev(daily returns) * sqrt(252)
//
// The sample (n-1) standard deviation is used. With fewer than two prices
// both parameters are NaN and an *InsufficientDataError is returned; with
// exactly two, sigma is NaN (one return has no sample variance). Non-finite
// returns caused by zero or negative prices are propagated, not clamped.
func Calibrate(prices []float64) (model.CalibratedParameters, error) {
	nan := model.CalibratedParameters{Mu: math.NaN(), Sigma: math.NaN()}
	if len(prices) < MinCalibrationPoints {
		return nan, &InsufficientDataError{Got: len(prices), Need: MinCalibrationPoints}
	}

	returns := stats.Float64Data(calculator.DailyReturns(prices))

	mean, err := stats.Mean(returns)
	if err != nil {
		return nan, err
	}
	stdev, err := stats.StandardDeviationSample(returns)
	if err != nil {
		return nan, err
	}

	return model.CalibratedParameters{
		Mu:    mean * model.TradingDaysPerYear,
		Sigma: stdev * math.Sqrt(model.TradingDaysPerYear),
	}, nil
}
