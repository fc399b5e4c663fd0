package indicators

import "math"

// CalculateATR computes the Wilder-smoothed Average True Range.
func CalculateATR(highs, lows, closes []float64, period int) (atr []float64, validFrom int) {
	n := len(closes)
	atr = make([]float64, n)
	if n < period+1 || len(highs) != n || len(lows) != n {
		return atr, n
	}

	tr := make([]float64, n)
	tr[0] = highs[0] - lows[0]
	for i := 1; i < n; i++ {
		hl := highs[i] - lows[i]
		hc := math.Abs(highs[i] - closes[i-1])
		lc := math.Abs(lows[i] - closes[i-1])
		tr[i] = math.Max(hl, math.Max(hc, lc))
	}

	sum := 0.0
	for i := 1; i <= period; i++ {
		sum += tr[i]
	}
	atr[period] = sum / float64(period)

	for i := period + 1; i < n; i++ {
		atr[i] = (atr[i-1]*float64(period-1) + tr[i]) / float64(period)
	}

	return atr, period
}

// ATRPercent returns the latest ATR as a fraction of the latest close, the
// volatility input for volatility-based sizing. ok is false while the series
// is still warming up.
func ATRPercent(highs, lows, closes []float64, period int) (pct float64, ok bool) {
	atr, validFrom := CalculateATR(highs, lows, closes, period)
	last := len(closes) - 1
	if last < validFrom || closes[last] <= 0 {
		return 0, false
	}
	return atr[last] / closes[last], true
}
