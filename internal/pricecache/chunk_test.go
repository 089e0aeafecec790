package pricecache

import (
	"errors"
	"testing"
	"time"

	"PriceForecaster/internal/model"

	"github.com/stretchr/testify/require"
)

func samplePoints() []model.PricePoint {
	start := time.Date(2024, 1, 2, 21, 0, 0, 0, time.UTC)
	closes := []float64{100, 101.25, 99.5, 102.75, 103}
	points := make([]model.PricePoint, len(closes))
	for i, c := range closes {
		points[i] = model.PricePoint{Date: start.AddDate(0, 0, i), Close: c}
	}
	return points
}

func TestEncodeDecodePoints(t *testing.T) {
	points := samplePoints()
	blob, err := EncodePoints(points)
	require.NoError(t, err)

	got, err := DecodePoints(blob)
	require.NoError(t, err)
	require.Len(t, got, len(points))
	for i := range points {
		require.True(t, points[i].Date.Equal(got[i].Date), "index %d", i)
		require.Equal(t, points[i].Close, got[i].Close)
	}
}

func TestDecodePoints_DetectsCorruption(t *testing.T) {
	blob, err := EncodePoints(samplePoints())
	require.NoError(t, err)

	blob[3] ^= 0xFF
	_, err = DecodePoints(blob)
	require.True(t, errors.Is(err, ErrChecksum))

	_, err = DecodePoints([]byte{1, 2})
	require.True(t, errors.Is(err, ErrTooSmall))
}
