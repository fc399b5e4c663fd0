// Package indicators computes the technical series consumed by the signal
// consensus. Every function returns a series the same length as its input
// together with validFrom, the first index holding a real value; entries
// before validFrom are warm-up padding and must be treated as "not yet
// available", never as zero readings.
package indicators

// CalculateRSI computes Wilder-smoothed RSI over the close series.
func CalculateRSI(closes []float64, period int) (rsi []float64, validFrom int) {
	rsi = make([]float64, len(closes))
	if len(closes) < period+1 {
		return rsi, len(closes)
	}

	gains := make([]float64, len(closes)-1)
	losses := make([]float64, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains[i-1] = change
		} else {
			losses[i-1] = -change
		}
	}

	sumGain, sumLoss := 0.0, 0.0
	for i := 0; i < period; i++ {
		sumGain += gains[i]
		sumLoss += losses[i]
	}
	avgGain := sumGain / float64(period)
	avgLoss := sumLoss / float64(period)

	rsi[period] = rsiValue(avgGain, avgLoss)

	for i := period + 1; i < len(closes); i++ {
		avgGain = (avgGain*float64(period-1) + gains[i-1]) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + losses[i-1]) / float64(period)
		rsi[i] = rsiValue(avgGain, avgLoss)
	}

	return rsi, period
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - (100 / (1 + rs))
}
