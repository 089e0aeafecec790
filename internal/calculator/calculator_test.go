package calculator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDailyReturns(t *testing.T) {
	tests := []struct {
		name   string
		prices []float64
		want   []float64
	}{
		{"empty", nil, nil},
		{"single", []float64{100}, nil},
		{"two", []float64{100, 110}, []float64{0.1}},
		{"flat", []float64{5, 5, 5}, []float64{0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DailyReturns(tt.prices)
			require.Len(t, got, len(tt.want))
			for i := range tt.want {
				require.InDelta(t, tt.want[i], got[i], 1e-12)
			}
		})
	}
}

func TestDailyReturns_ZeroPricePropagatesInf(t *testing.T) {
	got := DailyReturns([]float64{0, 10, 0})
	require.True(t, math.IsInf(got[0], 1))
	require.Equal(t, -1.0, got[1])
}

func TestSeriesRange(t *testing.T) {
	high, low, err := SeriesRange([]float64{3, math.NaN(), 1, 7, 2})
	require.NoError(t, err)
	require.Equal(t, 7.0, high)
	require.Equal(t, 1.0, low)

	_, _, err = SeriesRange(nil)
	require.Error(t, err)

	_, _, err = SeriesRange([]float64{math.NaN(), math.NaN()})
	require.Error(t, err)
}

func TestRangePosition(t *testing.T) {
	pos, err := RangePosition(5, 10, 0)
	require.NoError(t, err)
	require.Equal(t, 0.5, pos)

	pos, err = RangePosition(20, 10, 0)
	require.NoError(t, err)
	require.Equal(t, 1.0, pos)

	pos, err = RangePosition(4, 4, 4)
	require.NoError(t, err)
	require.Equal(t, 0.5, pos)

	_, err = RangePosition(1, 0, 10)
	require.Error(t, err)
}

func TestPercentChange(t *testing.T) {
	require.InDelta(t, 3.0, PercentChange(100, 103), 1e-12)
	require.True(t, math.IsNaN(PercentChange(0, 1)))
}
