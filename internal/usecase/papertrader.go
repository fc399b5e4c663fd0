package usecase

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"papertrader-backend/internal/domain"
	"papertrader-backend/internal/infrastructure/fcm"
	"papertrader-backend/internal/infrastructure/indicators"
)

const (
	klineFetchLimit    = 100
	fetchConcurrency   = 4
	defaultTickSeconds = 60
)

var consensusTimeframes = []domain.Timeframe{
	domain.Timeframe1m,
	domain.Timeframe5m,
	domain.Timeframe15m,
	domain.Timeframe1h,
}

// MarketDataClient is the slice of the exchange client the trader needs.
type MarketDataClient interface {
	GetKlines(symbol string, tf domain.Timeframe, limit int) ([]domain.Candle, error)
	GetLastPrice(symbol string) (float64, error)
}

// TraderSettings is the runtime-adjustable part of the live paper trader.
type TraderSettings struct {
	Enabled         bool     `json:"enabled"`
	Symbols         []string `json:"symbols"`
	IntervalSeconds int      `json:"intervalSeconds"`
}

// PaperTraderService runs the simulation loop against live market data:
// every interval it fetches klines for all four consensus timeframes,
// caches them, builds indicator snapshots and drives one simulator tick.
// Opened/closed positions trigger push notifications.
type PaperTraderService struct {
	sim          *Simulator
	sizer        *PositionSizer
	marketClient MarketDataClient
	candleRepo   domain.CandleRepository
	fcmClient    *fcm.Client
	tokenRepo    domain.DeviceTokenRepository

	mu       sync.RWMutex
	settings TraderSettings
}

func NewPaperTraderService(
	sim *Simulator,
	sizer *PositionSizer,
	marketClient MarketDataClient,
	candleRepo domain.CandleRepository,
	fcmClient *fcm.Client,
	tokenRepo domain.DeviceTokenRepository,
	symbols []string,
) *PaperTraderService {
	return &PaperTraderService{
		sim:          sim,
		sizer:        sizer,
		marketClient: marketClient,
		candleRepo:   candleRepo,
		fcmClient:    fcmClient,
		tokenRepo:    tokenRepo,
		settings: TraderSettings{
			Enabled:         false, // start disabled
			Symbols:         symbols,
			IntervalSeconds: defaultTickSeconds,
		},
	}
}

// GetSettings returns the current settings.
func (s *PaperTraderService) GetSettings() TraderSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// UpdateSettings replaces the runtime settings.
func (s *PaperTraderService) UpdateSettings(settings TraderSettings) {
	if settings.IntervalSeconds <= 0 {
		settings.IntervalSeconds = defaultTickSeconds
	}
	s.mu.Lock()
	s.settings = settings
	s.mu.Unlock()
}

// State exposes the portfolio read model.
func (s *PaperTraderService) State() domain.PortfolioState {
	return s.sim.State()
}

// Report summarizes the current portfolio.
func (s *PaperTraderService) Report() PerformanceReport {
	return Summarize(s.sim.State())
}

// SizingStats exposes the sizer's trailing statistics.
func (s *PaperTraderService) SizingStats() SizingStatistics {
	return s.sizer.Statistics()
}

// Run drives the trading loop until the context is cancelled. The loop
// re-reads IntervalSeconds each round, so settings changes apply without a
// restart.
func (s *PaperTraderService) Run(ctx context.Context) {
	for {
		settings := s.GetSettings()
		if settings.Enabled {
			s.process(settings)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Duration(settings.IntervalSeconds) * time.Second):
		}
	}
}

// process fetches market data for every symbol concurrently, then merges
// the results into a single sequential simulator tick so the replay
// ordering rules hold regardless of fetch completion order.
func (s *PaperTraderService) process(settings TraderSettings) {
	start := time.Now()

	symbols := append([]string(nil), settings.Symbols...)
	sort.Strings(symbols)

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		market = make(map[string]SymbolTick, len(symbols))
	)
	sem := make(chan struct{}, fetchConcurrency)

	for _, sym := range symbols {
		wg.Add(1)
		go func(symbol string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			tick, ok := s.buildSymbolTick(symbol)
			if !ok {
				return
			}

			mu.Lock()
			market[symbol] = tick
			mu.Unlock()
		}(sym)
	}
	wg.Wait()

	if len(market) == 0 {
		log.Printf("Paper trading tick skipped: no market data for %d symbols", len(symbols))
		return
	}

	result := s.sim.Tick(time.Now(), market)
	s.notifyTickResult(result)

	log.Printf("Paper trading tick done in %v: %d symbols, %d opened, %d closed",
		time.Since(start), len(market), len(result.Opened), len(result.Closed))
}

// buildSymbolTick fetches all consensus timeframes for one symbol. A
// timeframe whose fetch fails or whose indicators are still warming up is
// left absent; ok is false only when not even a current price is known.
func (s *PaperTraderService) buildSymbolTick(symbol string) (SymbolTick, bool) {
	tick := SymbolTick{
		Indicators: make(map[domain.Timeframe]domain.IndicatorSnapshot, len(consensusTimeframes)),
	}
	havePrice := false

	for _, tf := range consensusTimeframes {
		candles, err := s.marketClient.GetKlines(symbol, tf, klineFetchLimit)
		if err != nil {
			log.Printf("Error fetching %s %s klines: %v", symbol, tf, err)
			candles = s.cachedCandles(symbol, tf)
		} else if s.candleRepo != nil {
			if err := s.candleRepo.SaveCandles(candles); err != nil {
				log.Printf("Error caching %s %s candles: %v", symbol, tf, err)
			}
		}
		if len(candles) == 0 {
			continue
		}

		// The freshest close across timeframes is the symbol's price.
		tick.Price = candles[len(candles)-1].Close
		havePrice = true

		if snap, ok := BuildSnapshot(candles); ok {
			tick.Indicators[tf] = snap
		}

		if tf == domain.Timeframe1h {
			if vol, ok := indicators.ATRPercent(domain.Highs(candles), domain.Lows(candles), domain.Closes(candles), atrPeriod); ok {
				tick.Volatility = vol
			}
		}
	}

	// A live ticker price beats the last closed bar when available.
	if price, err := s.marketClient.GetLastPrice(symbol); err == nil && price > 0 {
		tick.Price = price
		havePrice = true
	}

	return tick, havePrice
}

// cachedCandles serves a symbol's cached series when the live fetch fails,
// so a transient exchange outage does not blind the whole tick.
func (s *PaperTraderService) cachedCandles(symbol string, tf domain.Timeframe) []domain.Candle {
	if s.candleRepo == nil {
		return nil
	}
	candles, err := s.candleRepo.GetCandles(symbol, tf, klineFetchLimit)
	if err != nil {
		return nil
	}
	if len(candles) > 0 {
		log.Printf("Using %d cached %s %s candles", len(candles), symbol, tf)
	}
	return candles
}
