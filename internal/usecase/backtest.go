package usecase

import (
	"log"
	"time"

	"papertrader-backend/internal/domain"
	"papertrader-backend/internal/infrastructure/indicators"
)

const atrPeriod = 14

// BacktestResult bundles the finished state with its summary.
type BacktestResult struct {
	State  domain.PortfolioState `json:"state"`
	Report PerformanceReport     `json:"report"`
}

// RunBacktest replays daily candle series through a fresh simulator, one
// tick per bar index. The daily series feeds the consensus as the 1h
// timeframe (the heaviest weight); the remaining timeframes are absent and
// skipped per the consensus rules. Early bars produce no snapshot while
// indicators warm up, so the simulator holds until data is available, the
// same missing-data path live trading hits.
func RunBacktest(series map[string][]domain.Candle, cfg SimulatorConfig, sizer *PositionSizer, consensus *ConsensusEngine) BacktestResult {
	sim := NewSimulator(cfg, sizer, consensus)

	maxLen := 0
	for _, candles := range series {
		if len(candles) > maxLen {
			maxLen = len(candles)
		}
	}

	start := time.Now()
	for i := 0; i < maxLen; i++ {
		market := make(map[string]SymbolTick, len(series))
		var tickDate time.Time

		for symbol, candles := range series {
			if i >= len(candles) {
				continue
			}
			window := candles[:i+1]
			bar := candles[i]
			if bar.OpenTime.After(tickDate) {
				tickDate = bar.OpenTime
			}

			tick := SymbolTick{
				Price:      bar.Close,
				Indicators: make(map[domain.Timeframe]domain.IndicatorSnapshot, 1),
			}
			if snap, ok := BuildSnapshot(window); ok {
				tick.Indicators[domain.Timeframe1h] = snap
			}
			if vol, ok := indicators.ATRPercent(domain.Highs(window), domain.Lows(window), domain.Closes(window), atrPeriod); ok {
				tick.Volatility = vol
			}
			market[symbol] = tick
		}

		if len(market) == 0 {
			continue
		}
		sim.Tick(tickDate, market)
	}

	state := sim.State()
	log.Printf("Backtest completed in %v: %d symbols, %d ticks, %d trades",
		time.Since(start), len(series), maxLen, len(state.Trades))

	return BacktestResult{State: state, Report: Summarize(state)}
}
