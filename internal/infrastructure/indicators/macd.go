package indicators

// MACDResult holds the MACD line, its signal line and the histogram.
// Entries before ValidFrom are warm-up padding.
type MACDResult struct {
	MACD      []float64
	Signal    []float64
	Histogram []float64
	ValidFrom int
}

// CalculateMACD computes MACD (fast EMA - slow EMA) with a signal-line EMA
// over the MACD series. Standard parameters are 12/26/9.
func CalculateMACD(closes []float64, fast, slow, signal int) MACDResult {
	n := len(closes)
	result := MACDResult{
		MACD:      make([]float64, n),
		Signal:    make([]float64, n),
		Histogram: make([]float64, n),
		ValidFrom: n,
	}
	if n < slow+signal {
		return result
	}

	emaFast, _ := CalculateEMA(closes, fast)
	emaSlow, slowFrom := CalculateEMA(closes, slow)

	for i := slowFrom; i < n; i++ {
		result.MACD[i] = emaFast[i] - emaSlow[i]
	}

	// Signal line: EMA of the MACD series, seeded from its first valid run.
	sigEMA, sigFrom := CalculateEMA(result.MACD[slowFrom:], signal)
	for i, v := range sigEMA {
		result.Signal[slowFrom+i] = v
	}
	result.ValidFrom = slowFrom + sigFrom

	for i := result.ValidFrom; i < n; i++ {
		result.Histogram[i] = result.MACD[i] - result.Signal[i]
	}

	return result
}
