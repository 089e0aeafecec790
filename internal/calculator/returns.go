package calculator

// DailyReturns computes the simple percentage change between consecutive
// prices: r[i-1] = p[i]/p[i-1] - 1. The result has len(prices)-1 entries.
// Zero or negative prices are not special-cased; Inf and NaN pass through.
func DailyReturns(prices []float64) []float64 {
	if len(prices) < 2 {
		return nil
	}
	returns := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		returns[i-1] = prices[i]/prices[i-1] - 1
	}
	return returns
}
