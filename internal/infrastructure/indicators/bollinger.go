package indicators

import "math"

// BollingerBands holds the three band series. Entries before ValidFrom are
// warm-up padding.
type BollingerBands struct {
	Upper     []float64
	Middle    []float64
	Lower     []float64
	ValidFrom int
}

// CalculateBollingerBands computes an SMA middle band with stdDev bands at
// the given multiplier. Standard parameters are 20 and 2.0.
func CalculateBollingerBands(closes []float64, period int, multiplier float64) BollingerBands {
	n := len(closes)
	bb := BollingerBands{
		Upper:     make([]float64, n),
		Middle:    make([]float64, n),
		Lower:     make([]float64, n),
		ValidFrom: n,
	}
	if n < period || period <= 0 {
		return bb
	}

	for i := period - 1; i < n; i++ {
		sum := 0.0
		for j := 0; j < period; j++ {
			sum += closes[i-j]
		}
		ma := sum / float64(period)

		sumSqDiff := 0.0
		for j := 0; j < period; j++ {
			diff := closes[i-j] - ma
			sumSqDiff += diff * diff
		}
		stdDev := math.Sqrt(sumSqDiff / float64(period))

		bb.Middle[i] = ma
		bb.Upper[i] = ma + multiplier*stdDev
		bb.Lower[i] = ma - multiplier*stdDev
	}
	bb.ValidFrom = period - 1

	return bb
}
