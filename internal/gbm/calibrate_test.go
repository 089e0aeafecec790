package gbm

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

// referenceParams recomputes mu and sigma with plain loops.
func referenceParams(prices []float64) (mu, sigma float64) {
	n := len(prices) - 1
	returns := make([]float64, n)
	sum := 0.0
	for i := 1; i < len(prices); i++ {
		returns[i-1] = prices[i]/prices[i-1] - 1
		sum += returns[i-1]
	}
	mean := sum / float64(n)
	ss := 0.0
	for _, r := range returns {
		ss += (r - mean) * (r - mean)
	}
	return mean * 252, math.Sqrt(ss/float64(n-1)) * math.Sqrt(252)
}

func TestCalibrate_MatchesFormula(t *testing.T) {
	prices := []float64{100, 101, 99, 102, 103}
	params, err := Calibrate(prices)
	require.NoError(t, err)

	wantMu, wantSigma := referenceParams(prices)
	require.InDelta(t, wantMu, params.Mu, 1e-12)
	require.InDelta(t, wantSigma, params.Sigma, 1e-12)
	require.Greater(t, params.Sigma, 0.0)
}

func TestCalibrate_ScaleInvariance(t *testing.T) {
	prices := []float64{50.5, 51.2, 49.8, 52.3, 53.1, 52.7, 54.0}
	base, err := Calibrate(prices)
	require.NoError(t, err)

	for _, k := range []float64{0.01, 3, 1234.5} {
		scaled := make([]float64, len(prices))
		for i, p := range prices {
			scaled[i] = p * k
		}
		got, err := Calibrate(scaled)
		require.NoError(t, err)
		require.InDelta(t, base.Mu, got.Mu, 1e-9, "k=%v", k)
		require.InDelta(t, base.Sigma, got.Sigma, 1e-9, "k=%v", k)
	}
}

func TestCalibrate_InsufficientData(t *testing.T) {
	for _, prices := range [][]float64{nil, {}, {100}} {
		params, err := Calibrate(prices)
		var insufficient *InsufficientDataError
		require.True(t, errors.As(err, &insufficient), "len=%d", len(prices))
		require.Equal(t, len(prices), insufficient.Got)
		require.True(t, math.IsNaN(params.Mu))
		require.True(t, math.IsNaN(params.Sigma))
	}
}

func TestCalibrate_TwoPointsHasNaNSigma(t *testing.T) {
	params, err := Calibrate([]float64{100, 110})
	require.NoError(t, err)
	require.InDelta(t, 0.1*252, params.Mu, 1e-9)
	require.True(t, math.IsNaN(params.Sigma))
}

func TestCalibrate_ConstantPricesHaveZeroSigma(t *testing.T) {
	params, err := Calibrate([]float64{10, 10, 10, 10})
	require.NoError(t, err)
	require.Equal(t, 0.0, params.Mu)
	require.Equal(t, 0.0, params.Sigma)
}

func TestCalibrate_NonPositivePricePropagates(t *testing.T) {
	params, err := Calibrate([]float64{100, 0, 100, 101})
	require.NoError(t, err)
	require.False(t, isFinite(params.Mu) && isFinite(params.Sigma))
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
