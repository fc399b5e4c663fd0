package indicators

// CalculateEMA computes an exponential moving average seeded with the SMA of
// the first period values.
func CalculateEMA(values []float64, period int) (ema []float64, validFrom int) {
	ema = make([]float64, len(values))
	if len(values) < period || period <= 0 {
		return ema, len(values)
	}

	sum := 0.0
	for i := 0; i < period; i++ {
		sum += values[i]
	}
	ema[period-1] = sum / float64(period)

	multiplier := 2.0 / float64(period+1)
	for i := period; i < len(values); i++ {
		ema[i] = (values[i]-ema[i-1])*multiplier + ema[i-1]
	}

	return ema, period - 1
}

// CalculateSMA computes a simple moving average.
func CalculateSMA(values []float64, period int) (sma []float64, validFrom int) {
	sma = make([]float64, len(values))
	if len(values) < period || period <= 0 {
		return sma, len(values)
	}

	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}
		if i >= period-1 {
			sma[i] = sum / float64(period)
		}
	}

	return sma, period - 1
}
