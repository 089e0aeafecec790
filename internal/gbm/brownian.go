package gbm

import (
	"math"

	"PriceForecaster/internal/model"
)

// GeneratePath draws steps standard normals from src, scales each by
// sqrt(1/steps) and returns their running sum. steps == 0 yields an empty
// path.
func GeneratePath(src *Source, steps int) (model.BrownianPath, error) {
	if steps < 0 {
		return nil, &InvalidParameterError{Name: "steps", Value: steps, Reason: "must not be negative"}
	}
	if src == nil {
		return nil, &InvalidParameterError{Name: "source", Value: nil, Reason: "must not be nil"}
	}
	path := make(model.BrownianPath, steps)
	if steps == 0 {
		return path, nil
	}

	scale := math.Sqrt(1 / float64(steps))
	w := 0.0
	for i := range path {
		w += src.Normal() * scale
		path[i] = w
	}
	return path, nil
}

// GenerateBrownianPath is GeneratePath with a fresh Source for seed.
func GenerateBrownianPath(seed int64, steps int) (model.BrownianPath, error) {
	return GeneratePath(NewSource(seed), steps)
}
