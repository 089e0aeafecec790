package calculator

import (
	"errors"
	"math"
)

// SeriesRange scans the values and returns the high and low, skipping NaN.
func SeriesRange(values []float64) (high, low float64, err error) {
	if len(values) == 0 {
		return 0, 0, errors.New("no values provided")
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if v > high {
			high = v
		}
		if v < low {
			low = v
		}
	}
	if math.IsInf(high, -1) {
		return math.NaN(), math.NaN(), errors.New("all values are NaN")
	}
	return high, low, nil
}

// PercentChange returns (to-from)/from*100.
func PercentChange(from, to float64) float64 {
	if from == 0 {
		return math.NaN()
	}
	return (to - from) / from * 100
}

// RangePosition returns where current sits within [low, high] (0.0~1.0).
func RangePosition(current, high, low float64) (float64, error) {
	if high == low {
		return 0.5, nil
	}
	if high < low {
		return 0, errors.New("high must be >= low")
	}
	pos := (current - low) / (high - low)
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}
	return pos, nil
}
