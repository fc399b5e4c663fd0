package domain

import "time"

// CandleRepository caches fetched market data so backtests and restarts do
// not refetch the same klines.
type CandleRepository interface {
	SaveCandles(candles []Candle) error
	GetCandles(symbol string, tf Timeframe, limit int) ([]Candle, error)
}

// DeviceTokenRepository stores FCM device tokens for trade notifications.
type DeviceTokenRepository interface {
	RegisterToken(token, platform string, at time.Time) error
	UnregisterToken(token string) error
	GetAllTokens() []string
}
