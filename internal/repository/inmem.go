package repository

import (
	"sort"
	"sync"
	"time"

	"papertrader-backend/internal/domain"
)

type candleKey struct {
	symbol string
	tf     domain.Timeframe
}

// InMemoryCandleRepository caches candle series in memory. Used when no
// DATABASE_URL is configured and in tests.
type InMemoryCandleRepository struct {
	mu     sync.RWMutex
	series map[candleKey]map[time.Time]domain.Candle
}

func NewInMemoryCandleRepository() *InMemoryCandleRepository {
	return &InMemoryCandleRepository{
		series: make(map[candleKey]map[time.Time]domain.Candle),
	}
}

func (r *InMemoryCandleRepository) SaveCandles(candles []domain.Candle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range candles {
		key := candleKey{symbol: c.Symbol, tf: c.Timeframe}
		if r.series[key] == nil {
			r.series[key] = make(map[time.Time]domain.Candle)
		}
		r.series[key][c.OpenTime] = c
	}
	return nil
}

func (r *InMemoryCandleRepository) GetCandles(symbol string, tf domain.Timeframe, limit int) ([]domain.Candle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byTime := r.series[candleKey{symbol: symbol, tf: tf}]
	candles := make([]domain.Candle, 0, len(byTime))
	for _, c := range byTime {
		candles = append(candles, c)
	}
	sort.Slice(candles, func(i, j int) bool {
		return candles[i].OpenTime.Before(candles[j].OpenTime)
	})

	if limit > 0 && len(candles) > limit {
		candles = candles[len(candles)-limit:]
	}
	return candles, nil
}

// InMemoryTokenRepository stores FCM device tokens in memory.
type InMemoryTokenRepository struct {
	mu     sync.RWMutex
	tokens map[string]string // token -> platform
}

func NewInMemoryTokenRepository() *InMemoryTokenRepository {
	return &InMemoryTokenRepository{
		tokens: make(map[string]string),
	}
}

func (r *InMemoryTokenRepository) RegisterToken(token, platform string, _ time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[token] = platform
	return nil
}

func (r *InMemoryTokenRepository) UnregisterToken(token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tokens, token)
	return nil
}

func (r *InMemoryTokenRepository) GetAllTokens() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tokens := make([]string, 0, len(r.tokens))
	for token := range r.tokens {
		tokens = append(tokens, token)
	}
	sort.Strings(tokens)
	return tokens
}
