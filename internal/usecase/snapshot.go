package usecase

import (
	"papertrader-backend/internal/domain"
	"papertrader-backend/internal/infrastructure/indicators"
)

// Indicator parameters used to build consensus snapshots.
const (
	rsiPeriod       = 14
	macdFast        = 12
	macdSlow        = 26
	macdSignal      = 9
	bollingerPeriod = 20
	bollingerMult   = 2.0
	volumeLookback  = 20
	volumeSpikeMult = 2.0
)

// BuildSnapshot computes the latest indicator readings from a candle window.
// ok is false while any indicator is still warming up; callers must then
// leave the timeframe out of the consensus input instead of passing zeros.
func BuildSnapshot(candles []domain.Candle) (domain.IndicatorSnapshot, bool) {
	closes := domain.Closes(candles)
	volumes := domain.Volumes(candles)
	last := len(closes) - 1
	if last < 0 {
		return domain.IndicatorSnapshot{}, false
	}

	rsi, rsiFrom := indicators.CalculateRSI(closes, rsiPeriod)
	macd := indicators.CalculateMACD(closes, macdFast, macdSlow, macdSignal)
	bb := indicators.CalculateBollingerBands(closes, bollingerPeriod, bollingerMult)
	if last < rsiFrom || last < macd.ValidFrom || last < bb.ValidFrom {
		return domain.IndicatorSnapshot{}, false
	}

	spike, ok := indicators.DetectVolumeSpike(volumes, volumeLookback, volumeSpikeMult)
	if !ok {
		return domain.IndicatorSnapshot{}, false
	}

	return domain.IndicatorSnapshot{
		Close:       closes[last],
		RSI:         rsi[last],
		MACD:        macd.MACD[last],
		MACDSignal:  macd.Signal[last],
		BBUpper:     bb.Upper[last],
		BBLower:     bb.Lower[last],
		VolumeSpike: spike,
	}, true
}
