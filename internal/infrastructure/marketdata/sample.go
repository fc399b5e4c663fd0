// Package marketdata generates synthetic candle series for backtests,
// replacing live market data when none is supplied.
package marketdata

import (
	"math/rand"
	"time"

	"papertrader-backend/internal/domain"
)

const (
	sampleStartPrice = 50000.0
	sampleDailyVol   = 0.02
)

// GenerateSampleSeries builds a seeded random-walk daily candle series per
// symbol. The same seed always produces the same series, so backtests over
// sample data are reproducible.
func GenerateSampleSeries(symbols []string, days int, seed int64) map[string][]domain.Candle {
	rng := rand.New(rand.NewSource(seed))
	start := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, -days)

	series := make(map[string][]domain.Candle, len(symbols))
	for _, symbol := range symbols {
		candles := make([]domain.Candle, 0, days)
		price := sampleStartPrice

		for day := 0; day < days; day++ {
			ret := rng.NormFloat64() * sampleDailyVol
			price *= 1 + ret
			if price <= 0 {
				price = sampleStartPrice
			}

			candles = append(candles, domain.Candle{
				Symbol:    symbol,
				Timeframe: domain.Timeframe1h,
				OpenTime:  start.AddDate(0, 0, day),
				Open:      price,
				High:      price * 1.01,
				Low:       price * 0.99,
				Close:     price,
				Volume:    100 + rng.Float64()*900,
			})
		}
		series[symbol] = candles
	}
	return series
}
