package gbm

import (
	"math"

	"PriceForecaster/internal/model"
)

// TimeAxisFor returns steps+1 equally spaced fractions i/steps in [0, 1].
func TimeAxisFor(steps int) model.TimeAxis {
	if steps <= 0 {
		return model.TimeAxis{0}
	}
	axis := make(model.TimeAxis, steps+1)
	for i := range axis {
		axis[i] = float64(i) / float64(steps)
	}
	return axis
}

// Simulate composes the GBM closed form over a Brownian path:
//
//	S[0] = initialPrice
//	S[i] = initialPrice * exp((mu - sigma^2/2)*t[i] + sigma*path[i-1]),  t[i] = i/steps
//
// NaN parameters yield NaN for every entry after the first. No randomness is
// introduced here.
func Simulate(initialPrice float64, params model.CalibratedParameters, path model.BrownianPath, steps int) (model.ForecastSeries, error) {
	if !(initialPrice > 0) {
		return nil, &InvalidParameterError{Name: "initialPrice", Value: initialPrice, Reason: "must be positive"}
	}
	if steps <= 0 {
		return nil, &InvalidParameterError{Name: "steps", Value: steps, Reason: "must be positive"}
	}
	if len(path) != steps {
		return nil, &DimensionMismatchError{PathLen: len(path), Steps: steps}
	}

	t := TimeAxisFor(steps)
	driftRate := params.Mu - 0.5*params.Sigma*params.Sigma

	prices := make(model.ForecastSeries, steps+1)
	prices[0] = initialPrice
	for i := 1; i <= steps; i++ {
		drift := driftRate * t[i]
		diffusion := params.Sigma * path[i-1]
		prices[i] = initialPrice * math.Exp(drift+diffusion)
	}
	return prices, nil
}
