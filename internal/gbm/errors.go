package gbm

import "fmt"

// InsufficientDataError is returned when a price series is too short to
// produce a daily return series.
type InsufficientDataError struct {
	Got  int
	Need int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: got %d prices, need at least %d", e.Got, e.Need)
}

// DimensionMismatchError is returned when a Brownian path does not have one
// entry per simulation step.
type DimensionMismatchError struct {
	PathLen int
	Steps   int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("dimension mismatch: path has %d entries, steps is %d", e.PathLen, e.Steps)
}

// InvalidParameterError reports a caller-supplied value outside its domain.
type InvalidParameterError struct {
	Name   string
	Value  any
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s=%v: %s", e.Name, e.Value, e.Reason)
}
